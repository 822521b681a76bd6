package registry

import (
	"context"

	"github.com/gallade/gallade/internal/coordinate"
)

// Manager composes an ordered list of Registry instances and provides the
// union/fallback semantics described in spec.md §4.3. The registry list is
// an explicit constructor parameter; Manager owns no global or static
// state.
type Manager struct {
	registries []Registry
}

// NewManager builds a Manager over the given registries, consulted in
// order for fallback and origin attribution.
func NewManager(registries ...Registry) *Manager {
	return &Manager{registries: registries}
}

// SearchVersions returns the union of versions reported by every
// registry, de-duplicated, preserving the newest-first order of the first
// registry that reports each version.
func (m *Manager) SearchVersions(ctx context.Context, coord coordinate.Coordinate) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, r := range m.registries {
		versions, err := r.Search(ctx, coord)
		if err != nil {
			continue
		}
		for _, v := range versions {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out, nil
}

// DownloadJar returns the first successful response across the configured
// registries, in order. It fails only if every registry fails.
func (m *Manager) DownloadJar(ctx context.Context, coord coordinate.Coordinate, ver string) ([]byte, error) {
	var lastErr error
	for _, r := range m.registries {
		data, err := r.FetchJar(ctx, coord, ver)
		if err == nil {
			return data, nil
		}
		lastErr = &NetworkError{Registry: r.Name(), Cause: err}
	}
	if lastErr == nil {
		return nil, ErrAllRegistriesFailed
	}
	return nil, lastErr
}

// DownloadMetadata returns the first successful response across the
// configured registries, in order. It fails only if every registry fails.
func (m *Manager) DownloadMetadata(ctx context.Context, coord coordinate.Coordinate, ver string) (string, error) {
	var lastErr error
	for _, r := range m.registries {
		text, err := r.FetchMetadata(ctx, coord, ver)
		if err == nil {
			return text, nil
		}
		lastErr = &NetworkError{Registry: r.Name(), Cause: err}
	}
	if lastErr == nil {
		return "", ErrAllRegistriesFailed
	}
	return "", lastErr
}

// OriginOf returns the name of the first registry whose Search returns a
// non-empty result for coord, used to stamp lockfile entries.
func (m *Manager) OriginOf(ctx context.Context, coord coordinate.Coordinate) (string, error) {
	for _, r := range m.registries {
		versions, err := r.Search(ctx, coord)
		if err == nil && len(versions) > 0 {
			return r.Name(), nil
		}
	}
	return "", ErrNoOrigin
}
