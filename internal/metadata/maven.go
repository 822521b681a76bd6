package metadata

import (
	"encoding/xml"
	"strings"

	"github.com/pkg/errors"
	"github.com/vifraa/gopom"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/resolver"
	"github.com/gallade/gallade/internal/version"
)

// MavenParser implements Parser over a Maven POM document, the sole
// metadata format this implementation understands.
type MavenParser struct{}

// NewMavenParser builds a MavenParser.
func NewMavenParser() *MavenParser { return &MavenParser{} }

var _ Parser = (*MavenParser)(nil)

// ParseDependencies reads doc as a POM, extracting every <dependency> from
// <dependencies>, skipping any with scope "test". Entries under
// <dependencyManagement> are version/scope pins for later reference, not
// real dependency requests (a BOM import there must never become a graph
// edge), so that section is never walked here. depth on every returned
// request is 0.
func (p *MavenParser) ParseDependencies(doc string) ([]resolver.DependencyRequest, error) {
	// gopom only exposes Parse(path string), which reads from disk; the
	// registry layer hands us an already-downloaded document, so we
	// unmarshal directly into gopom's own Project type instead of
	// round-tripping through a temp file.
	var project gopom.Project
	if err := xml.Unmarshal([]byte(doc), &project); err != nil {
		return nil, errors.Wrap(err, "parsing POM")
	}

	var deps []gopom.Dependency
	if project.Dependencies != nil {
		deps = append(deps, *project.Dependencies...)
	}

	var props map[string]string
	if project.Properties != nil {
		props = project.Properties.Entries
	}

	requests := make([]resolver.DependencyRequest, 0, len(deps))
	for _, dep := range deps {
		if dep.Scope != nil && strings.EqualFold(*dep.Scope, "test") {
			continue
		}
		if dep.GroupID == nil || dep.ArtifactID == nil {
			continue
		}

		req, err := parseDependencyVersion(dep.Version, props)
		if err != nil {
			return nil, errors.Wrapf(err, "dependency %s:%s", *dep.GroupID, *dep.ArtifactID)
		}

		scope := ""
		if dep.Scope != nil {
			scope = *dep.Scope
		}

		requests = append(requests, resolver.DependencyRequest{
			Coord: coordinate.New(*dep.GroupID, *dep.ArtifactID),
			Req:   req,
			Scope: scope,
			Depth: 0,
		})
	}

	return requests, nil
}

// parseDependencyVersion resolves a <version> element to a VersionReq,
// substituting a ${property} reference from props when present. A missing
// <version> yields VersionReq::Latest.
func parseDependencyVersion(raw *string, props map[string]string) (version.Req, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return version.Latest(), nil
	}

	v := strings.TrimSpace(*raw)
	if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") {
		key := strings.TrimSuffix(strings.TrimPrefix(v, "${"), "}")
		if resolved, ok := props[key]; ok && resolved != "" {
			v = resolved
		}
	}

	return version.ParseReq(v)
}
