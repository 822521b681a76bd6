package version

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidRange is returned by ParseReq when a bracket range is
// malformed: mismatched brackets, a comma count other than one, or an
// unparseable inner version.
var ErrInvalidRange = errors.New("invalid range format")

// reqKind distinguishes the VersionReq variants. The zero value is
// reqExact.
type reqKind uint8

const (
	reqExact reqKind = iota
	reqRange
	reqLatest
	reqRelease
)

// Req is a single version requirement: an exact match, a bounded or
// half-open range, or one of the Maven "LATEST"/"RELEASE" sentinels.
//
// Open Question (spec.md §9), decided: Release excludes ANY
// qualifier-bearing version, not only pre-release qualifiers. See
// SPEC_FULL.md.
type Req struct {
	kind reqKind

	exact Version

	min, max             Version
	hasMin, hasMax        bool
	minInclusive, maxInclusive bool
}

// Exact builds a Req matching exactly v.
func Exact(v Version) Req { return Req{kind: reqExact, exact: v} }

// Latest is the sentinel matching any version, including pre-releases.
func Latest() Req { return Req{kind: reqLatest} }

// Release is the sentinel matching any version without a qualifier.
func Release() Req { return Req{kind: reqRelease} }

// RangeOpt configures Range.
type RangeOpt func(*Req)

// Range builds a bounded or half-open interval requirement. Use the
// WithMin/WithMax options to set bounds; a bound left unset is
// unbounded on that side.
func Range(opts ...RangeOpt) Req {
	r := Req{kind: reqRange}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// WithMin sets the lower bound of a Range requirement.
func WithMin(v Version, inclusive bool) RangeOpt {
	return func(r *Req) {
		r.min, r.hasMin, r.minInclusive = v, true, inclusive
	}
}

// WithMax sets the upper bound of a Range requirement.
func WithMax(v Version, inclusive bool) RangeOpt {
	return func(r *Req) {
		r.max, r.hasMax, r.maxInclusive = v, true, inclusive
	}
}

// IsLatest reports whether req is the LATEST sentinel.
func (req Req) IsLatest() bool { return req.kind == reqLatest }

// IsRelease reports whether req is the RELEASE sentinel.
func (req Req) IsRelease() bool { return req.kind == reqRelease }

// ParseReq parses a version requirement string: "LATEST"/"RELEASE"
// (case-insensitive), a Maven bracket range "[v1,v2]"/"[v1,v2)"/"(v1,v2]"/
// "(v1,v2)" with either bound possibly empty, or else an exact version.
func ParseReq(input string) (Req, error) {
	trimmed := strings.TrimSpace(input)

	switch strings.ToUpper(trimmed) {
	case "LATEST":
		return Latest(), nil
	case "RELEASE":
		return Release(), nil
	}

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "(") {
		return parseRange(trimmed)
	}

	v, err := Parse(trimmed)
	if err != nil {
		return Req{}, err
	}
	return Exact(v), nil
}

func parseRange(input string) (Req, error) {
	if !strings.HasSuffix(input, "]") && !strings.HasSuffix(input, ")") {
		return Req{}, errors.Wrap(ErrInvalidRange, "missing closing bracket")
	}

	minInclusive := strings.HasPrefix(input, "[")
	maxInclusive := strings.HasSuffix(input, "]")

	content := input[1 : len(input)-1]
	parts := strings.Split(content, ",")
	if len(parts) != 2 {
		return Req{}, errors.Wrap(ErrInvalidRange, "expected two versions separated by comma")
	}

	r := Req{kind: reqRange, minInclusive: minInclusive, maxInclusive: maxInclusive}

	if min := strings.TrimSpace(parts[0]); min != "" {
		v, err := Parse(min)
		if err != nil {
			return Req{}, errors.Wrap(err, "invalid range lower bound")
		}
		r.min, r.hasMin = v, true
	}

	if max := strings.TrimSpace(parts[1]); max != "" {
		v, err := Parse(max)
		if err != nil {
			return Req{}, errors.Wrap(err, "invalid range upper bound")
		}
		r.max, r.hasMax = v, true
	}

	return r, nil
}

// Matches reports whether v satisfies req. Latest matches any version
// including pre-releases; Release matches any version without a
// qualifier.
func (req Req) Matches(v Version) bool {
	switch req.kind {
	case reqExact:
		return req.exact.Equal(v)
	case reqRange:
		if req.hasMin {
			if req.minInclusive {
				if v.Less(req.min) {
					return false
				}
			} else if !req.min.Less(v) {
				return false
			}
		}
		if req.hasMax {
			if req.maxInclusive {
				if req.max.Less(v) {
					return false
				}
			} else if !v.Less(req.max) {
				return false
			}
		}
		return true
	case reqLatest:
		return true
	case reqRelease:
		return !v.HasQualifier()
	default:
		return false
	}
}

// String renders req back to Maven notation.
func (req Req) String() string {
	switch req.kind {
	case reqLatest:
		return "LATEST"
	case reqRelease:
		return "RELEASE"
	case reqExact:
		return req.exact.String()
	case reqRange:
		var b strings.Builder
		if req.minInclusive {
			b.WriteByte('[')
		} else {
			b.WriteByte('(')
		}
		if req.hasMin {
			b.WriteString(req.min.String())
		}
		b.WriteByte(',')
		if req.hasMax {
			b.WriteString(req.max.String())
		}
		if req.maxInclusive {
			b.WriteByte(']')
		} else {
			b.WriteByte(')')
		}
		return b.String()
	default:
		return ""
	}
}
