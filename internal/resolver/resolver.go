// Package resolver implements the iterative breadth-first dependency
// resolution algorithm (C6): constraint accumulation across the whole
// graph, nearest-wins version selection, and safe subtree removal.
package resolver

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/prune"
	"github.com/gallade/gallade/internal/reversegraph"
	"github.com/gallade/gallade/internal/store"
	"github.com/gallade/gallade/internal/version"
)

// DependencyRequest is a single constraint observed while walking metadata:
// "coord needs a version matching req", discovered at hop-distance depth
// from the resolution root.
type DependencyRequest struct {
	Coord coordinate.Coordinate // unversioned
	Req   version.Req
	Scope string
	Depth int
}

// Store is the subset of internal/store.Store the resolver needs.
type Store interface {
	Has(coord coordinate.Coordinate, ver string, kind store.Kind) bool
	StoreArtifact(coord coordinate.Coordinate, ver string, kind store.Kind, data []byte) error
	Load(coord coordinate.Coordinate, ver string, kind store.Kind) ([]byte, error)
}

// RegistryManager is the subset of internal/registry.Manager the resolver
// needs.
type RegistryManager interface {
	SearchVersions(ctx context.Context, coord coordinate.Coordinate) ([]string, error)
	DownloadJar(ctx context.Context, coord coordinate.Coordinate, ver string) ([]byte, error)
	DownloadMetadata(ctx context.Context, coord coordinate.Coordinate, ver string) (string, error)
}

// MetadataParser is the subset of internal/metadata.Parser the resolver
// needs.
type MetadataParser interface {
	ParseDependencies(doc string) ([]DependencyRequest, error)
}

// NoCompatibleVersionError is returned when no candidate version offered by
// the registry layer satisfies the nearest requirement recorded for a
// coordinate.
type NoCompatibleVersionError struct {
	Coord coordinate.Coordinate
	Req   version.Req
}

func (e *NoCompatibleVersionError) Error() string {
	return "no version of " + e.Coord.String() + " satisfies " + e.Req.String()
}

// requirement is a single observed constraint with its originating depth,
// used to pick the nearest-wins governing requirement for a coordinate.
type requirement struct {
	req   version.Req
	depth int
	order int // insertion order, breaks ties at equal depth
}

// DependencyGraph is the resolver's output: one concrete version per
// coordinate, every observed constraint, and the direct-dependency edges
// between coordinates.
type DependencyGraph struct {
	Resolved     map[coordinate.Coordinate]string
	requirements map[coordinate.Coordinate][]requirement
	Edges        map[coordinate.Coordinate]map[coordinate.Coordinate]struct{}

	insertCounter int
}

// NewDependencyGraph builds an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Resolved:     make(map[coordinate.Coordinate]string),
		requirements: make(map[coordinate.Coordinate][]requirement),
		Edges:        make(map[coordinate.Coordinate]map[coordinate.Coordinate]struct{}),
	}
}

// AddRequirement records a new constraint on coord.
func (g *DependencyGraph) AddRequirement(coord coordinate.Coordinate, req version.Req, depth int) {
	g.requirements[coord] = append(g.requirements[coord], requirement{req: req, depth: depth, order: g.insertCounter})
	g.insertCounter++
}

// AddEdge records a direct dependency edge from parent to child.
func (g *DependencyGraph) AddEdge(parent, child coordinate.Coordinate) {
	if g.Edges[parent] == nil {
		g.Edges[parent] = make(map[coordinate.Coordinate]struct{})
	}
	g.Edges[parent][child] = struct{}{}
}

// nearestRequirement returns the governing requirement for coord: smallest
// depth, ties broken by the earliest-inserted requirement.
func (g *DependencyGraph) nearestRequirement(coord coordinate.Coordinate) (requirement, bool) {
	reqs := g.requirements[coord]
	if len(reqs) == 0 {
		return requirement{}, false
	}
	best := reqs[0]
	for _, r := range reqs[1:] {
		if r.depth < best.depth || (r.depth == best.depth && r.order < best.order) {
			best = r
		}
	}
	return best, true
}

// Requirements returns the requirements recorded for coord in the order
// they were observed, without their depths. The returned slice is a copy.
func (g *DependencyGraph) Requirements(coord coordinate.Coordinate) []version.Req {
	reqs := g.requirements[coord]
	out := make([]version.Req, len(reqs))
	for i, r := range reqs {
		out[i] = r.req
	}
	return out
}

// ResolvedCoordinates implements lockfile.Graph.
func (g *DependencyGraph) ResolvedCoordinates() []coordinate.Coordinate {
	out := make([]coordinate.Coordinate, 0, len(g.Resolved))
	for c := range g.Resolved {
		out = append(out, c)
	}
	return out
}

// ResolvedVersion implements lockfile.Graph.
func (g *DependencyGraph) ResolvedVersion(coord coordinate.Coordinate) (string, bool) {
	ver, ok := g.Resolved[coord]
	return ver, ok
}

// EdgesOf implements lockfile.Graph.
func (g *DependencyGraph) EdgesOf(coord coordinate.Coordinate) []coordinate.Coordinate {
	children := g.Edges[coord]
	out := make([]coordinate.Coordinate, 0, len(children))
	for c := range children {
		out = append(out, c)
	}
	return out
}

type queueEntry struct {
	coord coordinate.Coordinate
	ver   string
	depth int
}

// Resolver runs the breadth-first resolution algorithm against a Store, a
// RegistryManager, and a MetadataParser, all supplied by the caller so
// Resolver itself holds no global state.
type Resolver struct {
	store    Store
	registry RegistryManager
	parser   MetadataParser
}

// New builds a Resolver over the given collaborators.
func New(localStore Store, registry RegistryManager, parser MetadataParser) *Resolver {
	return &Resolver{store: localStore, registry: registry, parser: parser}
}

// Resolve runs the BFS resolution loop described in spec.md §4.5, starting
// from rootCoord@rootVersion, and returns the completed DependencyGraph.
func (r *Resolver) Resolve(ctx context.Context, rootCoord coordinate.Coordinate, rootVersion string) (*DependencyGraph, error) {
	graph := NewDependencyGraph()
	seen := make(map[string]struct{})

	queue := []queueEntry{{coord: rootCoord.Unversioned(), ver: rootVersion, depth: 0}}

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		key := entry.coord.String() + ":" + entry.ver
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		doc, err := r.fetchOrReuseMetadata(ctx, entry.coord, entry.ver)
		if err != nil {
			return nil, err
		}
		if err := r.fetchOrReuseBinary(ctx, entry.coord, entry.ver); err != nil {
			return nil, err
		}

		children, err := r.parser.ParseDependencies(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing metadata for %s", entry.coord.WithVersion(entry.ver))
		}

		for _, child := range children {
			child.Depth = entry.depth + 1
			childCoord := child.Coord.Unversioned()

			graph.AddRequirement(childCoord, child.Req, child.Depth)
			graph.AddEdge(entry.coord, childCoord)

			candidates, err := r.registry.SearchVersions(ctx, childCoord)
			if err != nil {
				return nil, errors.Wrapf(err, "searching versions for %s", childCoord)
			}

			governing, _ := graph.nearestRequirement(childCoord)

			chosen, err := selectVersion(candidates, governing.req)
			if err != nil {
				return nil, &NoCompatibleVersionError{Coord: childCoord, Req: governing.req}
			}

			graph.Resolved[childCoord] = chosen
			queue = append(queue, queueEntry{coord: childCoord, ver: chosen, depth: child.Depth})
		}
	}

	graph.Resolved[rootCoord.Unversioned()] = rootVersion
	return graph, nil
}

// selectVersion iterates candidates newest-first and returns the first one
// matching req.
func selectVersion(candidates []string, req version.Req) (string, error) {
	for _, candidate := range candidates {
		v, err := version.Parse(candidate)
		if err != nil {
			continue
		}
		if req.Matches(v) {
			return candidate, nil
		}
	}
	return "", errors.New("no candidate satisfies requirement")
}

func (r *Resolver) fetchOrReuseBinary(ctx context.Context, coord coordinate.Coordinate, ver string) error {
	if r.store.Has(coord, ver, store.Binary) {
		return nil
	}
	data, err := r.registry.DownloadJar(ctx, coord, ver)
	if err != nil {
		return errors.Wrapf(err, "downloading jar for %s", coord.WithVersion(ver))
	}
	return r.store.StoreArtifact(coord, ver, store.Binary, data)
}

func (r *Resolver) fetchOrReuseMetadata(ctx context.Context, coord coordinate.Coordinate, ver string) (string, error) {
	if r.store.Has(coord, ver, store.Metadata) {
		data, err := r.store.Load(coord, ver, store.Metadata)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	doc, err := r.registry.DownloadMetadata(ctx, coord, ver)
	if err != nil {
		return "", errors.Wrapf(err, "downloading metadata for %s", coord.WithVersion(ver))
	}
	if err := r.store.StoreArtifact(coord, ver, store.Metadata, []byte(doc)); err != nil {
		return "", err
	}
	return doc, nil
}

// Lockfile is the subset of internal/lockfile.Lockfile the resolver needs
// to prune a removal target's orphaned subtree.
type Lockfile interface {
	Coordinates() []coordinate.Coordinate
	DepsOf(coord coordinate.Coordinate) []coordinate.Coordinate
	Remove(coord coordinate.Coordinate)
}

// Remove computes the coordinates safely removable from lock when coord is
// dropped: the subtree rooted at coord, minus anything still reachable
// from another genuine root. A genuine root is a coordinate with no
// dependents of its own (internal/reversegraph.HasDependents) — iterating
// every flat lockfile key instead would make each coordinate trivially
// retain itself via its own one-node DFS, so nothing transitive could ever
// be pruned. It mutates lock in place, removing coord and every removable
// descendant; the returned slice holds only those descendants, not coord
// itself.
func (r *Resolver) Remove(coord coordinate.Coordinate, lock Lockfile) ([]coordinate.Coordinate, error) {
	pruner := prune.New(lock)
	pruner.MarkTree(coord, true)

	reverse := reversegraph.Build(lock)
	for _, c := range lock.Coordinates() {
		if c == coord || reverse.HasDependents(c) {
			continue
		}
		pruner.MarkTree(c, false)
	}

	lock.Remove(coord)

	var removed []coordinate.Coordinate
	for _, c := range pruner.Removable() {
		if c == coord {
			continue
		}
		lock.Remove(c)
		removed = append(removed, c)
	}

	return removed, nil
}
