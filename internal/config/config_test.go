package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/schema"
	"github.com/nabu-3/sdkgen/schema/snapshot"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestConfig_LoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Config{
		Author:        "Rafael Gutierrez",
		AuthorEmail:   "rgutierrez@nabu-3.com",
		Schema:        "nabu-3",
		Target:        "src",
		Namespace:     `nabu\data`,
		Dialect:       "mysql",
		Dictionary:    naming.Dictionary{"cms": "CMS"},
		Pluralization: naming.PluralEnglish,
		Workers:       4,
		Features:      []string{"list", "xml"},
		Manifest:      "entities.yaml",
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadEnv(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, &cfg, loaded)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadEnv(filepath.Join(t.TempDir(), FileName), env(nil))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		cfg, err := LoadEnv(path, env(nil))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("environment overrides dsn", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte("dsn: root@tcp(db)/nabu\n"), 0o644))
		cfg, err := LoadEnv(path, env(map[string]string{EnvDSN: "nabu@tcp(prod)/nabu"}))
		require.NoError(t, err)
		assert.Equal(t, "nabu@tcp(prod)/nabu", cfg.DSN)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte("autor: typo\n"), 0o644))
		_, err := LoadEnv(path, env(nil))
		assert.ErrorContains(t, err, "autor")
	})

	t.Run("parents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		data := "parents:\n" +
			"  - kind: shop\n" +
			"    table: nb_shop\n" +
			"    id_field: nb_shop_id\n" +
			"    class: CNabuShop\n" +
			"    namespace: \\nabu\\data\\shop\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
		cfg, err := LoadEnv(path, env(nil))
		require.NoError(t, err)
		p, ok := cfg.Registry().Lookup("shop")
		require.True(t, ok)
		assert.Equal(t, "nb_shop_id", p.IDField)
		_, ok = cfg.Registry().Lookup("customer")
		assert.True(t, ok)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: *Default()},
		{name: "unknown dialect", cfg: Config{Dialect: "oracle"}, wantErr: "dialect"},
		{name: "unknown pluralizer", cfg: Config{Pluralization: "latin"}, wantErr: "pluralization"},
		{name: "negative workers", cfg: Config{Workers: -1}, wantErr: "workers"},
		{name: "unknown feature", cfg: Config{Features: []string{"graphql"}}, wantErr: "graphql"},
		{
			name:    "scoping parent without param",
			cfg:     Config{Parents: classify.Registry{{Kind: "shop", Table: "nb_shop", IDField: "nb_shop_id", ScopePriority: 7}}},
			wantErr: "scope_param",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, gen.ErrMissingConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Missing(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"author", "author_email", "schema", "target"}, cfg.Missing())
	assert.True(t, gen.IsConfigError(cfg.RequireComplete()))

	cfg.Author, cfg.AuthorEmail, cfg.Schema, cfg.Target = "a", "a@b.c", "nabu-3", "out"
	assert.Empty(t, cfg.Missing())
	assert.NoError(t, cfg.RequireComplete())
}

func TestConfig_GenOptions(t *testing.T) {
	cfg := &Config{
		Author:        "Rafael",
		Schema:        "nabu-3",
		Target:        t.TempDir(),
		Dictionary:    naming.Dictionary{"cms": "CMS"},
		Pluralization: naming.PluralEnglish,
		Workers:       3,
		Features:      []string{"xml", "sidecar"},
	}
	gc, err := gen.NewConfig(cfg.GenOptions()...)
	require.NoError(t, err)
	assert.Equal(t, cfg.Target, gc.Target)
	assert.Equal(t, "nabu-3", gc.Schema)
	assert.Equal(t, 3, gc.Workers)
	assert.Equal(t, "CMS", gc.Dictionary["cms"])
	assert.Equal(t, "OS", gc.Dictionary["os"])
	assert.IsType(t, naming.EnglishPluralizer{}, gc.Pluralizer)
	assert.True(t, gc.HasFeature("xml"))
	assert.True(t, gc.HasFeature("sidecar"))
	assert.False(t, gc.HasFeature("list"))
	assert.False(t, gc.HasFeature("skip-unchanged"))

	t.Run("default features", func(t *testing.T) {
		cfg.Features = nil
		gc, err := gen.NewConfig(cfg.GenOptions()...)
		require.NoError(t, err)
		assert.Equal(t, gen.DefaultFeatures(), gc.Features)
	})
}

func TestConfig_OpenDescriber(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot", func(t *testing.T) {
		cfg := &Config{Snapshot: "../../schema/snapshot/testdata/nabu.txtar"}
		d, closer, err := cfg.OpenDescriber(ctx, nil)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &snapshot.Set{}, d)
		desc, err := d.Describe(ctx, "nb_site", "nabu-3")
		require.NoError(t, err)
		assert.True(t, desc.HasField("nb_site_key"))
	})

	t.Run("no source", func(t *testing.T) {
		_, _, err := Default().OpenDescriber(ctx, nil)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &Config{Dialect: "sqlite", DSN: "file:" + filepath.Join(t.TempDir(), "nabu.db")}
		d, closer, err := cfg.OpenDescriber(ctx, nil)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &schema.CachedDescriber{}, d)
		tables, err := d.Tables(ctx, "main")
		require.NoError(t, err)
		assert.Empty(t, tables)
	})
}
