// Package version implements Maven-style version parsing, a total order
// over versions, and range-predicate requirements (VersionReq).
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidFormat is returned by Parse when the input has more than three
// dot-separated numeric fields, or an empty numeric component.
var ErrInvalidFormat = errors.New("invalid version format")

// InvalidNumberError wraps the strconv failure for a non-numeric field.
type InvalidNumberError struct {
	Input string
	Cause error
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number in version %q: %s", e.Input, e.Cause)
}

func (e *InvalidNumberError) Unwrap() error { return e.Cause }

// Version is a structured Maven-style version: up to three numeric
// components plus an optional post-hyphen qualifier. Missing trailing
// numeric components default to zero.
type Version struct {
	Major, Minor, Patch int
	Qualifier           string // empty when absent; HasQualifier tells absent from empty
	hasQualifier        bool
}

// Parse accepts 1-3 dot-separated non-negative integer fields optionally
// followed by "-qualifier". ">3" fields or an empty component is
// ErrInvalidFormat; a non-numeric field is *InvalidNumberError.
func Parse(s string) (Version, error) {
	numericPart := s
	qualifier := ""
	hasQualifier := false
	if i := strings.Index(s, "-"); i >= 0 {
		numericPart = s[:i]
		qualifier = s[i+1:]
		hasQualifier = true
	}

	fields := strings.Split(numericPart, ".")
	if len(fields) == 0 || len(fields) > 3 {
		return Version{}, ErrInvalidFormat
	}

	nums := [3]int{}
	for i, f := range fields {
		if f == "" {
			return Version{}, ErrInvalidFormat
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return Version{}, &InvalidNumberError{Input: s, Cause: err}
		}
		if n < 0 {
			return Version{}, ErrInvalidFormat
		}
		nums[i] = n
	}

	return Version{
		Major:        nums[0],
		Minor:        nums[1],
		Patch:        nums[2],
		Qualifier:    qualifier,
		hasQualifier: hasQualifier,
	}, nil
}

// HasQualifier reports whether v carries a post-hyphen qualifier.
func (v Version) HasQualifier() bool { return v.hasQualifier }

// String renders exactly three numeric fields, plus "-qualifier" when
// present. display(parse(s)) re-parses to a value equal to parse(s) for
// every numeric-and-qualifier-form s.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.hasQualifier {
		return base + "-" + v.Qualifier
	}
	return base
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other. Ordering is lexicographic on (Major, Minor, Patch); ties are
// broken by qualifier, where an absent qualifier outranks any present one
// (a release sorts after its pre-releases), and two present qualifiers
// compare by ordinary string order.
func (v Version) Compare(other Version) int {
	if d := v.Major - other.Major; d != 0 {
		return sign(d)
	}
	if d := v.Minor - other.Minor; d != 0 {
		return sign(d)
	}
	if d := v.Patch - other.Patch; d != 0 {
		return sign(d)
	}

	switch {
	case !v.hasQualifier && !other.hasQualifier:
		return 0
	case v.hasQualifier && !other.hasQualifier:
		return -1
	case !v.hasQualifier && other.hasQualifier:
		return 1
	default:
		return strings.Compare(v.Qualifier, other.Qualifier)
	}
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other denote the same version.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
