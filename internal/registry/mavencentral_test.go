package registry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/registry"
)

func TestMavenCentralSearchSortsNewestFirst(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		resp := map[string]any{
			"response": map[string]any{
				"docs": []map[string]any{
					{"g": "org.slf4j", "a": "slf4j-api", "v": "1.7.30"},
					{"g": "org.slf4j", "a": "slf4j-api", "v": "2.0.9"},
					{"g": "org.slf4j", "a": "slf4j-api", "v": "1.7.36"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	mc := registry.NewMavenCentralWithBaseURL(srv.URL, time.Second)
	coord := coordinate.New("org.slf4j", "slf4j-api")

	versions, err := mc.Search(context.Background(), coord)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.9", "1.7.36", "1.7.30"}, versions)
	assert.Contains(t, gotPath, "/solrsearch/select")
	assert.Contains(t, gotPath, "g:org.slf4j")
	assert.Contains(t, gotPath, "a:slf4j-api")
}

func TestMavenCentralFetchJarBuildsNamespacePath(t *testing.T) {
	var gotFilepath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilepath = r.URL.Query().Get("filepath")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("jar-bytes"))
	}))
	defer srv.Close()

	mc := registry.NewMavenCentralWithBaseURL(srv.URL, time.Second)
	coord := coordinate.New("com.google.guava", "guava")

	data, err := mc.FetchJar(context.Background(), coord, "31.1-jre")
	require.NoError(t, err)
	assert.Equal(t, []byte("jar-bytes"), data)
	assert.Equal(t, "com/google/guava/guava/31.1-jre/guava-31.1-jre.jar", gotFilepath)
}

func TestMavenCentralFetchMetadataUsesPomExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("filepath"), ".pom")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<project/>"))
	}))
	defer srv.Close()

	mc := registry.NewMavenCentralWithBaseURL(srv.URL, time.Second)
	coord := coordinate.New("org.slf4j", "slf4j-api")

	text, err := mc.FetchMetadata(context.Background(), coord, "1.7.36")
	require.NoError(t, err)
	assert.Equal(t, "<project/>", text)
}

func TestMavenCentralFetchJarNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	mc := registry.NewMavenCentralWithBaseURL(srv.URL, 200*time.Millisecond)
	coord := coordinate.New("org.slf4j", "slf4j-api")

	_, err := mc.FetchJar(context.Background(), coord, "999.0.0")
	assert.Error(t, err)
}

func TestMavenCentralName(t *testing.T) {
	mc := registry.NewMavenCentral(time.Second)
	assert.Equal(t, "maven-central", mc.Name())
}
