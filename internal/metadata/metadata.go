// Package metadata implements MetadataParser, extracting transitive
// dependency requests from an artifact's metadata document.
package metadata

import "github.com/gallade/gallade/internal/resolver"

// Parser extracts child DependencyRequests from a metadata document. depth
// on every returned request is 0; the resolver overwrites it with the
// parent's depth+1.
type Parser interface {
	ParseDependencies(doc string) ([]resolver.DependencyRequest, error)
}
