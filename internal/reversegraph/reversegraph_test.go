package reversegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/reversegraph"
)

type fakeLockfile struct {
	coords []coordinate.Coordinate
	deps   map[coordinate.Coordinate][]coordinate.Coordinate
}

func (f *fakeLockfile) Coordinates() []coordinate.Coordinate { return f.coords }
func (f *fakeLockfile) DepsOf(c coordinate.Coordinate) []coordinate.Coordinate {
	return f.deps[c]
}

func TestGetDependents(t *testing.T) {
	a := coordinate.New("g", "a")
	b := coordinate.New("g", "b")
	shared := coordinate.New("g", "shared")

	lock := &fakeLockfile{
		coords: []coordinate.Coordinate{a, b, shared},
		deps: map[coordinate.Coordinate][]coordinate.Coordinate{
			a:      {shared},
			b:      {shared},
			shared: {},
		},
	}

	g := reversegraph.Build(lock)
	assert.ElementsMatch(t, []coordinate.Coordinate{a, b}, g.GetDependents(shared))
	assert.True(t, g.HasDependents(shared))
	assert.False(t, g.HasDependents(a))
	assert.Empty(t, g.GetDependents(a))
}
