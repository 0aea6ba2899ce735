package config

import (
	"context"
	"io"
	"log/slog"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/dialect"
	"github.com/nabu-3/sdkgen/dialect/atlas"
	"github.com/nabu-3/sdkgen/dialect/mysql"
	"github.com/nabu-3/sdkgen/schema"
	"github.com/nabu-3/sdkgen/schema/snapshot"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenDescriber returns the describer selected by the configuration: the
// snapshot when one is set, the information_schema describer for MySQL and
// the atlas inspector for the other dialects. The closer releases the
// connection. Live describers memoize descriptors for the life of the
// connection.
func (c *Config) OpenDescriber(ctx context.Context, logger *slog.Logger) (schema.Describer, io.Closer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if c.Snapshot != "" {
		set, err := snapshot.Load(c.Snapshot)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("schema snapshot loaded", "path", c.Snapshot, "tables", set.Len())
		return set, nopCloser{}, nil
	}
	if c.DSN == "" {
		return nil, nil, gen.NewConfigError("dsn", nil, "a dsn or a snapshot is required")
	}
	name, err := dialect.Normalize(c.Dialect)
	if err != nil {
		return nil, nil, gen.NewConfigError("dialect", c.Dialect, err.Error())
	}
	if name == dialect.MySQL {
		db, err := dialect.OpenX(ctx, name, c.DSN)
		if err != nil {
			return nil, nil, err
		}
		d := mysql.New(db,
			mysql.WithLogger(logger),
			mysql.WithStatsOptions(dialect.WithSlowQueryLog(logger)),
		)
		return schema.Cached(d, sdk.NewMemoryCache(), 0), db, nil
	}
	db, err := dialect.Open(ctx, name, c.DSN)
	if err != nil {
		return nil, nil, err
	}
	d, err := atlas.New(db, name)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return schema.Cached(d.WithLogger(logger), sdk.NewMemoryCache(), 0), db, nil
}
