package bundle

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/nabu-3/sdkgen"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo, owner := seed(t)

	t.Run("site by id and key", func(t *testing.T) {
		byID, err := repo.Site(ctx, owner, "101")
		require.NoError(t, err)
		byKey, err := repo.Site(ctx, owner, "blog")
		require.NoError(t, err)
		assert.Same(t, byID, byKey)
	})

	t.Run("site of another customer", func(t *testing.T) {
		_, err := repo.Site(ctx, owner, "foreign")
		assert.True(t, sdk.IsNotFound(err))
	})

	t.Run("customer by hash", func(t *testing.T) {
		c, err := repo.CustomerByHash(ctx, customerHash)
		require.NoError(t, err)
		assert.Same(t, owner, c)
		_, err = repo.CustomerByHash(ctx, "")
		assert.True(t, sdk.IsNotFound(err))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.Customer(ctx, 42)
		assert.True(t, sdk.IsNotFound(err))
		_, err = repo.Language(ctx, 42)
		assert.True(t, sdk.IsNotFound(err))
		_, err = repo.Role(ctx, 42)
		assert.True(t, sdk.IsNotFound(err))
	})

	t.Run("assigns ids after the highest", func(t *testing.T) {
		l := &Language{ISO639_1: "fr"}
		repo.AddLanguage(l)
		assert.Equal(t, int64(201), l.ID)
	})
}

func TestYAMLRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "repo.yaml")

	repo, err := OpenYAML(path)
	require.NoError(t, err)
	assert.Equal(t, path, repo.Path())
	repo.AddCustomer(&Customer{ID: 3, Hash: customerHash, Key: "acme"})
	require.NoError(t, repo.Flush())

	source, owner := seed(t)
	p := New(owner)
	_, err = p.AddSites(ctx, source, ByID[Site]("main"))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf))

	_, err = Import(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()), repo)
	require.NoError(t, err)

	reopened, err := OpenYAML(path)
	require.NoError(t, err)
	c, err := reopened.CustomerByHash(ctx, customerHash)
	require.NoError(t, err)
	site, err := reopened.Site(ctx, c, "main")
	require.NoError(t, err)
	require.Len(t, site.Languages, 2)
	_, ok := site.Languages[0].Instance()
	assert.False(t, ok, "reloaded references hold ids")

	again := New(c)
	added, err := again.AddSites(ctx, reopened, ByID[Site]("main"))
	require.NoError(t, err)
	assert.Equal(t, 4, added)
	assert.Equal(t, "en", again.Languages()[0].ISO639_1)

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("sites: [oops"), 0o644))
		_, err := OpenYAML(bad)
		assert.Error(t, err)
	})
}
