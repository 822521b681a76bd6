// Package lockfile implements the persistent, atomically-written record of
// a resolved dependency graph (C8): one PackageInfo per coordinate, with
// integrity hashes and sorted dependency edges.
package lockfile

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/fsutil"
)

// FormatVersion is the current on-disk schema version.
const FormatVersion = 1

// PackageInfo is the persisted record for one resolved coordinate.
type PackageInfo struct {
	Version    string   `json:"version"`
	Repository string   `json:"repository"`
	Integrity  string   `json:"integrity"`
	Deps       []string `json:"deps"`
}

// rawLockfile is the exact on-disk JSON shape.
type rawLockfile struct {
	FormatVersion int                    `json:"version"`
	Deps          map[string]PackageInfo `json:"deps"`
}

// Lockfile is the in-memory, mutation-friendly view of a project's resolved
// dependency set, keyed by the versionless display form of each
// coordinate.
type Lockfile struct {
	mu   sync.RWMutex
	deps map[string]PackageInfo
}

// New builds an empty Lockfile.
func New() *Lockfile {
	return &Lockfile{deps: make(map[string]PackageInfo)}
}

// Read loads a Lockfile from path, returning an empty Lockfile if the file
// does not exist.
func Read(path string) (*Lockfile, error) {
	data, err := fsutil.ReadFileIfExists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading lockfile %s", path)
	}
	if data == nil {
		return New(), nil
	}

	var raw rawLockfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing lockfile %s", path)
	}

	deps := raw.Deps
	if deps == nil {
		deps = make(map[string]PackageInfo)
	}
	return &Lockfile{deps: deps}, nil
}

// Write persists the Lockfile to path atomically (temp file in the same
// directory, then rename).
func (l *Lockfile) Write(path string) error {
	l.mu.RLock()
	raw := rawLockfile{FormatVersion: FormatVersion, Deps: l.deps}
	data, err := json.MarshalIndent(raw, "", "  ")
	l.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "marshaling lockfile")
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// Get returns the PackageInfo for coord (unversioned) and whether it was
// present.
func (l *Lockfile) Get(coord coordinate.Coordinate) (PackageInfo, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	info, ok := l.deps[coord.Unversioned().String()]
	return info, ok
}

// Coordinates returns every coordinate recorded in the lockfile.
func (l *Lockfile) Coordinates() []coordinate.Coordinate {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]coordinate.Coordinate, 0, len(l.deps))
	for key := range l.deps {
		c, err := coordinate.Parse(key)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DepsOf returns the direct dependency coordinates of coord, implementing
// prune.Graph and resolver.Lockfile by structural typing.
func (l *Lockfile) DepsOf(coord coordinate.Coordinate) []coordinate.Coordinate {
	l.mu.RLock()
	defer l.mu.RUnlock()

	info, ok := l.deps[coord.Unversioned().String()]
	if !ok {
		return nil
	}

	out := make([]coordinate.Coordinate, 0, len(info.Deps))
	for _, depKey := range info.Deps {
		c, err := coordinate.Parse(depKey)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Remove deletes coord's entry from the lockfile. A no-op if absent.
func (l *Lockfile) Remove(coord coordinate.Coordinate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.deps, coord.Unversioned().String())
}

// Graph is the subset of resolver.DependencyGraph MergeGraph needs.
type Graph interface {
	ResolvedCoordinates() []coordinate.Coordinate
	ResolvedVersion(coord coordinate.Coordinate) (string, bool)
	EdgesOf(coord coordinate.Coordinate) []coordinate.Coordinate
}

// RegistryManager is the subset of internal/registry.Manager MergeGraph
// needs.
type RegistryManager interface {
	DownloadJar(ctx context.Context, coord coordinate.Coordinate, ver string) ([]byte, error)
	OriginOf(ctx context.Context, coord coordinate.Coordinate) (string, error)
}

// MergeGraph folds a resolved DependencyGraph into the lockfile. An entry
// whose coordinate is already present with the same version is left
// untouched: its bytes were already hashed and its origin already
// recorded, so recomputation would be pure waste.
func (l *Lockfile) MergeGraph(ctx context.Context, graph Graph, registries RegistryManager) error {
	for _, coord := range graph.ResolvedCoordinates() {
		ver, ok := graph.ResolvedVersion(coord)
		if !ok {
			continue
		}

		key := coord.Unversioned().String()

		l.mu.RLock()
		existing, hasExisting := l.deps[key]
		l.mu.RUnlock()
		if hasExisting && existing.Version == ver {
			continue
		}

		data, err := registries.DownloadJar(ctx, coord, ver)
		if err != nil {
			return errors.Wrapf(err, "downloading jar for %s", coord.WithVersion(ver))
		}
		integrity := "sha256:" + fsutil.SHA256Hex(data)

		origin, err := registries.OriginOf(ctx, coord)
		if err != nil {
			return errors.Wrapf(err, "determining origin registry for %s", coord)
		}

		edgeKeys := make([]string, 0)
		for _, dep := range graph.EdgesOf(coord) {
			edgeKeys = append(edgeKeys, dep.Unversioned().String())
		}
		sort.Strings(edgeKeys)

		l.mu.Lock()
		l.deps[key] = PackageInfo{
			Version:    ver,
			Repository: origin,
			Integrity:  integrity,
			Deps:       edgeKeys,
		}
		l.mu.Unlock()
	}

	return nil
}
