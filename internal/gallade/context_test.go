package gallade_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallade/gallade/internal/coordinate"
	"github.com/gallade/gallade/internal/fsutil"
	"github.com/gallade/gallade/internal/gallade"
	"github.com/gallade/gallade/internal/gallog"
	"github.com/gallade/gallade/internal/registry/registrytest"
	"github.com/gallade/gallade/internal/store"
)

const rootPom = `
<project>
    <dependencies>
        <dependency>
            <groupId>com.example</groupId>
            <artifactId>leaf</artifactId>
            <version>1.0.0</version>
        </dependency>
    </dependencies>
</project>
`

func testCtx(t *testing.T) *gallade.Ctx {
	t.Helper()
	return &gallade.Ctx{
		ProjectRoot:    t.TempDir(),
		RequestTimeout: 5 * time.Second,
		Log:            gallog.Default(false),
	}
}

func TestResolveThenRemoveRoundTrips(t *testing.T) {
	root := coordinate.New("com.example", "root")
	leaf := coordinate.New("com.example", "leaf")

	fake := registrytest.New("test-registry")
	fake.Add(root, "1.0.0", registrytest.Artifact{Jar: []byte("root-jar"), Metadata: rootPom})
	fake.Add(leaf, "1.0.0", registrytest.Artifact{Jar: []byte("leaf-jar"), Metadata: "<project></project>"})

	ctx := testCtx(t)
	proj, err := gallade.LoadProject(ctx, fake)
	require.NoError(t, err)

	require.NoError(t, proj.Resolve(context.Background(), ctx, root, "1.0.0"))

	// The lockfile was persisted and can be reloaded from disk.
	reloaded, err := gallade.LoadProject(ctx, fake)
	require.NoError(t, err)

	info, ok := reloaded.Lock.Get(root)
	require.True(t, ok)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Contains(t, info.Deps, leaf.String())

	leafInfo, ok := reloaded.Lock.Get(leaf)
	require.True(t, ok)
	assert.Equal(t, "sha256:"+fsutil.SHA256Hex([]byte("leaf-jar")), leafInfo.Integrity)

	assert.True(t, reloaded.Store.Has(root, "1.0.0", store.Binary))

	dependents := reloaded.DependentsOf(leaf)
	assert.ElementsMatch(t, []coordinate.Coordinate{root}, dependents)

	removed, err := reloaded.Remove(ctx, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []coordinate.Coordinate{leaf}, removed)

	_, ok = reloaded.Lock.Get(root)
	assert.False(t, ok)
	_, ok = reloaded.Lock.Get(leaf)
	assert.False(t, ok)
}

func TestCtxPathsAreProjectRelative(t *testing.T) {
	ctx := testCtx(t)
	assert.Equal(t, filepath.Join(ctx.ProjectRoot, gallade.LockName), ctx.LockPath())
	assert.Equal(t, filepath.Join(ctx.ProjectRoot, gallade.StoreDirName), ctx.StorePath())
}
