package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/version"
)

const mavenCentralName = "maven-central"

// searchResponse is the shape of a Maven Central solrsearch response:
// {response:{docs:[{g,a,v,p,timestamp},...]}}.
type searchResponse struct {
	Response struct {
		Docs []struct {
			GroupID    string `json:"g"`
			ArtifactID string `json:"a"`
			Version    string `json:"v"`
			Packaging  string `json:"p"`
			Timestamp  int64  `json:"timestamp"`
		} `json:"docs"`
	} `json:"response"`
}

// MavenCentral implements Registry against search.maven.org.
type MavenCentral struct {
	client  *retryablehttp.Client
	baseURL string
}

// NewMavenCentral builds a MavenCentral registry. timeout bounds every
// outbound request (default DefaultTimeout seconds if not positive); a
// timeout surfaces as an error, which Manager wraps in a *NetworkError on
// downloads and treats as a signal to fall back to the next configured
// registry.
func NewMavenCentral(timeout time.Duration) *MavenCentral {
	return NewMavenCentralWithBaseURL("https://search.maven.org", timeout)
}

// NewMavenCentralWithBaseURL is NewMavenCentral with an overridable base
// URL, letting tests point the client at an httptest.Server instead of the
// real service.
func NewMavenCentralWithBaseURL(baseURL string, timeout time.Duration) *MavenCentral {
	if timeout <= 0 {
		timeout = DefaultTimeout * time.Second
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3
	client.HTTPClient.Timeout = timeout

	return &MavenCentral{client: client, baseURL: baseURL}
}

// Name implements Registry.
func (m *MavenCentral) Name() string { return mavenCentralName }

// Search implements Registry, sorting results newest-first as spec.md §4.3
// requires of any registry whose backing service does not already do so.
func (m *MavenCentral) Search(ctx context.Context, coord coordinate.Coordinate) ([]string, error) {
	u := fmt.Sprintf("%s/solrsearch/select?q=g:%s+AND+a:%s&core=gav&rows=20&wt=json",
		m.baseURL, url.QueryEscape(coord.Namespace), url.QueryEscape(coord.Name))

	body, err := m.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "decoding maven central search response")
	}

	versions := make([]string, 0, len(parsed.Response.Docs))
	for _, doc := range parsed.Response.Docs {
		versions = append(versions, doc.Version)
	}

	sortNewestFirst(versions)
	return versions, nil
}

// FetchJar implements Registry.
func (m *MavenCentral) FetchJar(ctx context.Context, coord coordinate.Coordinate, ver string) ([]byte, error) {
	return m.fetchArtifact(ctx, coord, ver, "jar")
}

// FetchMetadata implements Registry.
func (m *MavenCentral) FetchMetadata(ctx context.Context, coord coordinate.Coordinate, ver string) (string, error) {
	data, err := m.fetchArtifact(ctx, coord, ver, "pom")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *MavenCentral) fetchArtifact(ctx context.Context, coord coordinate.Coordinate, ver, ext string) ([]byte, error) {
	safeName := url.PathEscape(coord.Name)
	filepathOnServer := fmt.Sprintf("%s/%s/%s/%s-%s.%s",
		urlSafeNamespacePath(coord.Namespace), safeName, ver, safeName, ver, ext)
	u := fmt.Sprintf("%s/remotecontent?filepath=%s", m.baseURL, filepathOnServer)

	return m.get(ctx, u)
}

// urlSafeNamespacePath projects a dotted namespace onto its path form
// (dots replaced with slashes) with each segment individually
// URL-escaped, per spec.md §6's requirement that namespace and name be
// encoded URL-safe.
func urlSafeNamespacePath(namespace string) string {
	start := 0
	path := ""
	for i := 0; i <= len(namespace); i++ {
		if i == len(namespace) || namespace[i] == '.' {
			path += url.PathEscape(namespace[start:i])
			if i != len(namespace) {
				path += "/"
			}
			start = i + 1
		}
	}
	return path
}

func (m *MavenCentral) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(resp.Body)
}

// sortNewestFirst sorts version strings newest-first using Maven version
// ordering, tolerating unparseable entries by leaving them after every
// parseable one, in their original relative order.
func sortNewestFirst(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := version.Parse(versions[i])
		vj, errj := version.Parse(versions[j])
		switch {
		case erri != nil && errj != nil:
			return false
		case erri != nil:
			return false
		case errj != nil:
			return true
		default:
			return vj.Less(vi)
		}
	})
}
