// Package registrytest provides an in-memory Registry fixture, standing in
// for the teacher's internal/test/registry fixture server.
package registrytest

import (
	"context"
	"sort"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/registry"
	"github.com/gallade/gallade/internal/version"
)

// Artifact is a single fake-registry entry.
type Artifact struct {
	Jar      []byte
	Metadata string
}

// Fake is an in-memory Registry for tests. Populate it with Add before
// using it with a resolver or lockfile.
type Fake struct {
	RegistryName string
	artifacts    map[string]map[string]Artifact // coord string -> version -> artifact
	failSearch   map[string]bool
}

var _ registry.Registry = (*Fake)(nil)

// New builds an empty Fake registry named name.
func New(name string) *Fake {
	return &Fake{
		RegistryName: name,
		artifacts:    make(map[string]map[string]Artifact),
		failSearch:   make(map[string]bool),
	}
}

// Add registers an artifact for coord@ver.
func (f *Fake) Add(coord coordinate.Coordinate, ver string, a Artifact) {
	key := coord.Unversioned().String()
	if f.artifacts[key] == nil {
		f.artifacts[key] = make(map[string]Artifact)
	}
	f.artifacts[key][ver] = a
}

// FailSearchFor makes Search return an error for coord, simulating an
// unreachable or unauthoritative registry for that coordinate.
func (f *Fake) FailSearchFor(coord coordinate.Coordinate) {
	f.failSearch[coord.Unversioned().String()] = true
}

// Name implements registry.Registry.
func (f *Fake) Name() string { return f.RegistryName }

// Search implements registry.Registry, returning versions sorted
// newest-first as the real contract requires.
func (f *Fake) Search(_ context.Context, coord coordinate.Coordinate) ([]string, error) {
	key := coord.Unversioned().String()
	if f.failSearch[key] {
		return nil, errNotAuthoritative
	}

	versions := make([]string, 0, len(f.artifacts[key]))
	for v := range f.artifacts[key] {
		versions = append(versions, v)
	}

	sort.Slice(versions, func(i, j int) bool {
		vi, _ := version.Parse(versions[i])
		vj, _ := version.Parse(versions[j])
		return vj.Less(vi)
	})

	return versions, nil
}

// FetchJar implements registry.Registry.
func (f *Fake) FetchJar(_ context.Context, coord coordinate.Coordinate, ver string) ([]byte, error) {
	a, ok := f.lookup(coord, ver)
	if !ok {
		return nil, errArtifactMissing
	}
	return a.Jar, nil
}

// FetchMetadata implements registry.Registry.
func (f *Fake) FetchMetadata(_ context.Context, coord coordinate.Coordinate, ver string) (string, error) {
	a, ok := f.lookup(coord, ver)
	if !ok {
		return "", errArtifactMissing
	}
	return a.Metadata, nil
}

func (f *Fake) lookup(coord coordinate.Coordinate, ver string) (Artifact, bool) {
	byVer, ok := f.artifacts[coord.Unversioned().String()]
	if !ok {
		return Artifact{}, false
	}
	a, ok := byVer[ver]
	return a, ok
}
