package coordinate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallade/gallade/internal/coordinate"
)

func TestParseWithVersion(t *testing.T) {
	c, err := coordinate.Parse("com.google.guava:guava:31.1-jre")
	require.NoError(t, err)
	assert.Equal(t, "com.google.guava", c.Namespace)
	assert.Equal(t, "guava", c.Name)
	assert.Equal(t, "31.1-jre", c.Version)
}

func TestParseWithoutVersion(t *testing.T) {
	c, err := coordinate.Parse("org.slf4j:slf4j-api")
	require.NoError(t, err)
	assert.Equal(t, "org.slf4j", c.Namespace)
	assert.Equal(t, "slf4j-api", c.Name)
	assert.Equal(t, "", c.Version)
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "onlyonesegment", "a:b:c:d"} {
		_, err := coordinate.Parse(s)
		assert.ErrorIs(t, err, coordinate.ErrInvalidFormat, "input %q", s)
	}
}

func TestToPath(t *testing.T) {
	c, err := coordinate.Parse("com.google.guava:guava")
	require.NoError(t, err)
	assert.Equal(t, "com/google/guava/guava", c.Path())
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"org.slf4j:slf4j-api:1.7.36", "a.b.c:d:1.0.0-jre"} {
		c, err := coordinate.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
	}
}

func TestUnversioned(t *testing.T) {
	c, err := coordinate.Parse("org.slf4j:slf4j-api:1.7.36")
	require.NoError(t, err)
	assert.Equal(t, coordinate.New("org.slf4j", "slf4j-api"), c.Unversioned())
}
