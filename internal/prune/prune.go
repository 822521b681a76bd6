// Package prune implements the dual-marking reachability pass (C7) that
// decides which coordinates become safely removable when a dependency is
// dropped from a lockfile.
package prune

import "github.com/gallade/gallade/internal/coordinate"

// Graph is the subset of internal/lockfile.Lockfile the Pruner needs: the
// full set of coordinates and each coordinate's direct dependency edges.
type Graph interface {
	Coordinates() []coordinate.Coordinate
	DepsOf(coord coordinate.Coordinate) []coordinate.Coordinate
}

// Pruner runs independent DFS markings over the same Graph: one from the
// coordinate being removed, and one from each retained root the caller
// passes to MarkTree. A coordinate is removable iff it was reached from the
// removed subtree but from no retained root.
type Pruner struct {
	graph            Graph
	markedFromRemoved map[coordinate.Coordinate]struct{}
	markedFromRetained map[coordinate.Coordinate]struct{}
}

// New builds a Pruner over graph.
func New(graph Graph) *Pruner {
	return &Pruner{
		graph:              graph,
		markedFromRemoved:  make(map[coordinate.Coordinate]struct{}),
		markedFromRetained: make(map[coordinate.Coordinate]struct{}),
	}
}

// MarkTree walks the subtree reachable from coord (via Graph.DepsOf),
// adding every visited coordinate to the removed set when forRemoved is
// true, or the retained set otherwise. A per-call visited set makes the
// walk cycle-safe.
func (p *Pruner) MarkTree(coord coordinate.Coordinate, forRemoved bool) {
	visited := make(map[coordinate.Coordinate]struct{})
	p.walk(coord, forRemoved, visited)
}

func (p *Pruner) walk(coord coordinate.Coordinate, forRemoved bool, visited map[coordinate.Coordinate]struct{}) {
	if _, ok := visited[coord]; ok {
		return
	}
	visited[coord] = struct{}{}

	if forRemoved {
		p.markedFromRemoved[coord] = struct{}{}
	} else {
		p.markedFromRetained[coord] = struct{}{}
	}

	for _, dep := range p.graph.DepsOf(coord) {
		p.walk(dep, forRemoved, visited)
	}
}

// Removable returns every coordinate reached while marking the removed
// subtree that was not also reached while marking any retained root: the
// set difference markedFromRemoved \ markedFromRetained.
func (p *Pruner) Removable() []coordinate.Coordinate {
	out := make([]coordinate.Coordinate, 0, len(p.markedFromRemoved))
	for c := range p.markedFromRemoved {
		if _, retained := p.markedFromRetained[c]; !retained {
			out = append(out, c)
		}
	}
	return out
}
