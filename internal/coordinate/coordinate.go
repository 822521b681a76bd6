// Package coordinate implements Maven-style namespace:name[:version]
// artifact identifiers.
package coordinate

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidFormat is returned by Parse when the input is neither a
// two-segment nor a three-segment colon-delimited coordinate.
var ErrInvalidFormat = errors.New("invalid coordinate format - expected namespace:name[:version]")

// Coordinate identifies an artifact family by namespace and name, with an
// optional concrete version. Two Coordinates are equal iff all three fields
// match, so a Coordinate is usable as a map key both with and without a
// version component.
type Coordinate struct {
	Namespace string
	Name      string
	Version   string // empty means absent
}

// New builds a versionless Coordinate, the identity used as map keys in a
// DependencyGraph and Lockfile.
func New(namespace, name string) Coordinate {
	return Coordinate{Namespace: namespace, Name: name}
}

// WithVersion returns a copy of c carrying the given version.
func (c Coordinate) WithVersion(version string) Coordinate {
	c.Version = version
	return c
}

// Unversioned returns a copy of c with the version stripped, the form used
// as Lockfile and DependencyGraph identity.
func (c Coordinate) Unversioned() Coordinate {
	c.Version = ""
	return c
}

// Parse splits "namespace:name" or "namespace:name:version" into a
// Coordinate. Any other number of colon-delimited segments is
// ErrInvalidFormat.
func Parse(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		return Coordinate{Namespace: parts[0], Name: parts[1]}, nil
	case 3:
		return Coordinate{Namespace: parts[0], Name: parts[1], Version: parts[2]}, nil
	default:
		return Coordinate{}, ErrInvalidFormat
	}
}

// String renders the colon-joined display form, round-tripping through
// Parse.
func (c Coordinate) String() string {
	if c.Version == "" {
		return c.Namespace + ":" + c.Name
	}
	return c.Namespace + ":" + c.Name + ":" + c.Version
}

// Path projects the coordinate onto the directory layout used by LocalStore
// and the remote repository layout: dots in the namespace become path
// separators, followed by the artifact name.
func (c Coordinate) Path() string {
	return strings.ReplaceAll(c.Namespace, ".", "/") + "/" + c.Name
}
