// Package registry implements RemoteRegistry, the pluggable abstraction
// over Maven-style artifact sources, and RegistryManager, which composes an
// ordered list of registries with fallback.
package registry

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gallade/gallade/internal/coordinate"
)

// DefaultTimeout is the deadline applied to each outbound request when the
// caller does not override it (spec.md §4.3, §5).
const DefaultTimeout = 30

// NetworkError wraps a transport or HTTP failure from a single registry,
// carrying the registry name for diagnostics.
type NetworkError struct {
	Registry string
	Cause    error
}

func (e *NetworkError) Error() string {
	return "registry " + e.Registry + ": " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// ErrAllRegistriesFailed is returned by Manager.DownloadJar and
// Manager.DownloadMetadata when no registry is configured. When every
// configured registry fails, those methods return the last registry's
// *NetworkError instead.
var ErrAllRegistriesFailed = errors.New("all registries failed")

// ErrNoOrigin is returned by OriginOf when no registry reports any version
// for the coordinate.
var ErrNoOrigin = errors.New("no registry has any version of this coordinate")

// Registry is a source of Maven artifacts: a search endpoint plus binary
// and metadata fetch.
type Registry interface {
	// Name is the stable identifier stamped into lockfile entries.
	Name() string
	// Search lists available versions for coord, newest first. An
	// implementation that receives versions in another order from its
	// backing service must sort them before returning.
	Search(ctx context.Context, coord coordinate.Coordinate) ([]string, error)
	// FetchJar downloads the primary binary artifact.
	FetchJar(ctx context.Context, coord coordinate.Coordinate, ver string) ([]byte, error)
	// FetchMetadata downloads the metadata document (a POM).
	FetchMetadata(ctx context.Context, coord coordinate.Coordinate, ver string) (string, error)
}
