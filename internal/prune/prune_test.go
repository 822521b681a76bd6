package prune_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/prune"
)

// fakeGraph is a minimal prune.Graph backed by a plain adjacency map, used
// to exercise the dual-marking algorithm without a real Lockfile.
type fakeGraph struct {
	deps map[coordinate.Coordinate][]coordinate.Coordinate
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{deps: make(map[coordinate.Coordinate][]coordinate.Coordinate)}
}

func (g *fakeGraph) edge(from, to coordinate.Coordinate) {
	g.deps[from] = append(g.deps[from], to)
}

func (g *fakeGraph) Coordinates() []coordinate.Coordinate {
	out := make([]coordinate.Coordinate, 0, len(g.deps))
	for c := range g.deps {
		out = append(out, c)
	}
	return out
}

func (g *fakeGraph) DepsOf(coord coordinate.Coordinate) []coordinate.Coordinate {
	return g.deps[coord]
}

func c(name string) coordinate.Coordinate {
	return coordinate.New("g", name)
}

// a -> shared; other -> shared; root depends on neither. Removing a's
// subtree must keep shared, since other still depends on it, but a itself
// is removable.
func TestRemovableExcludesCoordinateStillReachableFromAnotherRoot(t *testing.T) {
	g := newFakeGraph()
	g.deps[c("root")] = nil
	g.edge(c("a"), c("shared"))
	g.edge(c("other"), c("shared"))
	g.deps[c("shared")] = nil

	p := prune.New(g)
	p.MarkTree(c("a"), true)
	for _, other := range []coordinate.Coordinate{c("root"), c("other"), c("shared")} {
		p.MarkTree(other, false)
	}

	removable := p.Removable()
	assertContainsExactly(t, removable, c("a"))
}

// a -> onlyA; root depends on neither. Nothing else references a or onlyA,
// so removing a's subtree removes both a and onlyA.
func TestRemovableIncludesExclusiveDescendant(t *testing.T) {
	g := newFakeGraph()
	g.deps[c("root")] = nil
	g.deps[c("a")] = []coordinate.Coordinate{c("onlyA")}
	g.deps[c("onlyA")] = nil

	p := prune.New(g)
	p.MarkTree(c("a"), true)
	for _, other := range []coordinate.Coordinate{c("root")} {
		p.MarkTree(other, false)
	}

	removable := p.Removable()
	assertContainsExactly(t, removable, c("a"), c("onlyA"))
}

// A cycle a -> b -> a must not hang the DFS.
func TestMarkTreeTerminatesOnCycle(t *testing.T) {
	g := newFakeGraph()
	g.deps[c("a")] = []coordinate.Coordinate{c("b")}
	g.deps[c("b")] = []coordinate.Coordinate{c("a")}

	p := prune.New(g)
	done := make(chan struct{})
	go func() {
		p.MarkTree(c("a"), true)
		close(done)
	}()
	<-done

	removable := p.Removable()
	assertContainsExactly(t, removable, c("a"), c("b"))
}

func assertContainsExactly(t *testing.T, got []coordinate.Coordinate, want ...coordinate.Coordinate) {
	t.Helper()
	assert.ElementsMatch(t, want, got)
}
