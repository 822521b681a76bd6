// Package gallade wires the core components (LocalStore, RegistryManager,
// MetadataParser, Resolver, Lockfile) into the facade the CLI drives,
// grounded on the teacher's dep.Ctx/Project split in context.go.
package gallade

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/gallog"
	"github.com/gallade/gallade/internal/lockfile"
	"github.com/gallade/gallade/internal/metadata"
	"github.com/gallade/gallade/internal/registry"
	"github.com/gallade/gallade/internal/resolver"
	"github.com/gallade/gallade/internal/reversegraph"
	"github.com/gallade/gallade/internal/store"
)

// LockName is the lockfile's conventional filename inside a project root.
const LockName = "gallade.lock.json"

// StoreDirName is the local artifact cache's conventional directory name
// inside a project root.
const StoreDirName = ".gallade/repository"

// Ctx carries the supporting configuration of the tool: where the project
// root is, how long remote operations are allowed to take, and whether to
// log verbosely. Mirrors the teacher's Ctx, generalized from a single
// GOPATH field to gallade's project-relative layout.
type Ctx struct {
	ProjectRoot    string
	RequestTimeout time.Duration
	Log            *gallog.Loggers
}

// NewContext builds a Ctx rooted at the current working directory, with
// the default request timeout and non-verbose logging.
func NewContext() (*Ctx, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	return &Ctx{
		ProjectRoot:    wd,
		RequestTimeout: registry.DefaultTimeout * time.Second,
		Log:            gallog.Default(false),
	}, nil
}

// StorePath is the project-relative LocalStore root.
func (c *Ctx) StorePath() string {
	return filepath.Join(c.ProjectRoot, StoreDirName)
}

// LockPath is the project-relative lockfile path.
func (c *Ctx) LockPath() string {
	return filepath.Join(c.ProjectRoot, LockName)
}

// Project bundles the collaborators a single resolve/remove invocation
// needs: the local cache, the registry union, the metadata parser, the
// resolver built over them, and the project's lockfile.
type Project struct {
	Store    *store.Store
	Manager  *registry.Manager
	Parser   metadata.Parser
	Resolver *resolver.Resolver
	Lock     *lockfile.Lockfile
}

// LoadProject wires every collaborator for ctx's project root and reads
// its lockfile (an empty one if absent), using registries as the ordered
// fallback chain.
func LoadProject(ctx *Ctx, registries ...registry.Registry) (*Project, error) {
	s := store.New(ctx.StorePath())
	mgr := registry.NewManager(registries...)
	parser := metadata.NewMavenParser()
	res := resolver.New(s, mgr, parser)

	lock, err := lockfile.Read(ctx.LockPath())
	if err != nil {
		return nil, errors.Wrap(err, "reading lockfile")
	}

	return &Project{
		Store:    s,
		Manager:  mgr,
		Parser:   parser,
		Resolver: res,
		Lock:     lock,
	}, nil
}

// Resolve runs the resolver for rootCoord@rootVersion, merges the result
// into the project's lockfile, and persists the lockfile atomically.
func (p *Project) Resolve(parent context.Context, ctx *Ctx, rootCoord coordinate.Coordinate, rootVersion string) error {
	graph, err := p.Resolver.Resolve(parent, rootCoord, rootVersion)
	if err != nil {
		return errors.Wrap(err, "resolving dependency graph")
	}

	if err := p.Lock.MergeGraph(parent, graph, p.Manager); err != nil {
		return errors.Wrap(err, "merging resolved graph into lockfile")
	}

	return p.Lock.Write(ctx.LockPath())
}

// Remove drops coord and every dependency exclusively reachable through it
// from the lockfile, then removes the corresponding LocalStore artifacts,
// and finally persists the lockfile.
func (p *Project) Remove(ctx *Ctx, coord coordinate.Coordinate) ([]coordinate.Coordinate, error) {
	// Snapshot every coordinate's version before Resolver.Remove deletes
	// lockfile entries, so the store cleanup below still knows which
	// version directories to remove for coord and its whole removed
	// subtree.
	versions := make(map[coordinate.Coordinate]string)
	for _, c := range p.Lock.Coordinates() {
		if info, ok := p.Lock.Get(c); ok {
			versions[c] = info.Version
		}
	}

	removed, err := p.Resolver.Remove(coord, p.Lock)
	if err != nil {
		return nil, errors.Wrap(err, "pruning removed dependency")
	}

	for _, c := range append(removed, coord) {
		ver, ok := versions[c]
		if !ok || ver == "" {
			continue
		}
		if rmErr := p.Store.Remove(c, ver); rmErr != nil && !errors.Is(rmErr, store.ErrNotFound) {
			ctx.Log.Errf("removing cached artifacts for %s: %v", c.WithVersion(ver), rmErr)
		}
	}

	if err := p.Lock.Write(ctx.LockPath()); err != nil {
		return nil, errors.Wrap(err, "writing lockfile")
	}

	return removed, nil
}

// DependentsOf answers "what directly depends on coord", built fresh from
// the current lockfile.
func (p *Project) DependentsOf(coord coordinate.Coordinate) []coordinate.Coordinate {
	return reversegraph.Build(p.Lock).GetDependents(coord)
}
