// Package store implements LocalStore, the content-addressed on-disk
// artifact cache rooted at a project-specific directory
// (.gallade/repository by convention; see internal/gallade).
package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/fsutil"
)

// Kind distinguishes the primary binary artifact from its metadata
// document.
type Kind int

const (
	// Binary is the primary artifact (a jar).
	Binary Kind = iota
	// Metadata is the artifact's metadata document (a pom).
	Metadata
)

func (k Kind) extension() string {
	if k == Metadata {
		return "pom"
	}
	return "jar"
}

// ErrNotFound is returned by Load when the requested artifact is absent.
var ErrNotFound = errors.New("artifact not found in local store")

// Store is a content-addressed artifact cache on disk.
type Store struct {
	root string
}

// New roots a Store at the given directory. The directory need not already
// exist.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Path returns the canonical on-disk path for (coord, version, kind). Pure:
// performs no I/O.
func (s *Store) Path(coord coordinate.Coordinate, ver string, kind Kind) string {
	return filepath.Join(s.root, coord.Path(), ver, coord.Name+"-"+ver+"."+kind.extension())
}

// Has reports whether the artifact exists on disk.
func (s *Store) Has(coord coordinate.Coordinate, ver string, kind Kind) bool {
	_, err := os.Stat(s.Path(coord, ver, kind))
	return err == nil
}

// StoreArtifact writes data to the canonical path for (coord, version, kind),
// creating parent directories as needed. The write is atomic: a concurrent
// reader never observes a partially written file, and an existing file at
// the same path is replaced wholesale.
func (s *Store) StoreArtifact(coord coordinate.Coordinate, ver string, kind Kind, data []byte) error {
	path := s.Path(coord, ver, kind)
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "storing %s artifact for %s@%s", kindName(kind), coord, ver)
	}
	return nil
}

// Load reads the artifact at (coord, version, kind). When the file is
// absent the returned error wraps ErrNotFound.
func (s *Store) Load(coord coordinate.Coordinate, ver string, kind Kind) ([]byte, error) {
	path := s.Path(coord, ver, kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s@%s (%s)", coord, ver, kindName(kind))
		}
		return nil, errors.Wrapf(err, "loading %s artifact for %s@%s", kindName(kind), coord, ver)
	}
	return data, nil
}

// Remove deletes the version directory for coord@ver, then walks upward
// removing any ancestor directory that becomes empty as a result,
// preventing a growing cemetery of orphaned namespace directories. A
// directory still shared with another version or coordinate is left
// intact.
func (s *Store) Remove(coord coordinate.Coordinate, ver string) error {
	versionDir := filepath.Dir(s.Path(coord, ver, Binary))
	if err := fsutil.RemoveEmptyAncestors(s.root, versionDir); err != nil {
		return errors.Wrapf(err, "removing %s@%s", coord, ver)
	}
	return nil
}

// ListVersions returns the directory names under coord's directory (an
// empty list if the coordinate directory does not exist).
func (s *Store) ListVersions(coord coordinate.Coordinate) ([]string, error) {
	coordDir := filepath.Join(s.root, coord.Path())

	entries, err := os.ReadDir(coordDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "listing versions for %s", coord)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	return versions, nil
}

func kindName(k Kind) string {
	if k == Metadata {
		return "metadata"
	}
	return "binary"
}
