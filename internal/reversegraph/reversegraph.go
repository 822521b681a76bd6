// Package reversegraph derives, from a Lockfile, the dependent-of view
// (C9): for each coordinate, every coordinate that directly depends on it.
package reversegraph

import "github.com/gallade/gallade/internal/coordinate"

// Lockfile is the subset of internal/lockfile.Lockfile needed to build a
// ReverseGraph.
type Lockfile interface {
	Coordinates() []coordinate.Coordinate
	DepsOf(coord coordinate.Coordinate) []coordinate.Coordinate
}

// ReverseGraph maps a coordinate to the set of coordinates that directly
// depend on it.
type ReverseGraph struct {
	dependents map[coordinate.Coordinate]map[coordinate.Coordinate]struct{}
}

// Build walks every coordinate's direct edges once, an O(edges) pass.
func Build(lock Lockfile) *ReverseGraph {
	g := &ReverseGraph{dependents: make(map[coordinate.Coordinate]map[coordinate.Coordinate]struct{})}

	for _, coord := range lock.Coordinates() {
		for _, dep := range lock.DepsOf(coord) {
			if g.dependents[dep] == nil {
				g.dependents[dep] = make(map[coordinate.Coordinate]struct{})
			}
			g.dependents[dep][coord] = struct{}{}
		}
	}

	return g
}

// HasDependents reports whether any coordinate directly depends on coord.
func (g *ReverseGraph) HasDependents(coord coordinate.Coordinate) bool {
	return len(g.dependents[coord]) > 0
}

// GetDependents returns every coordinate that directly depends on coord.
func (g *ReverseGraph) GetDependents(coord coordinate.Coordinate) []coordinate.Coordinate {
	deps := g.dependents[coord]
	out := make([]coordinate.Coordinate, 0, len(deps))
	for c := range deps {
		out = append(out, c)
	}
	return out
}
