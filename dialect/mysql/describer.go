// Package mysql describes MySQL tables by querying information_schema.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/dialect"
	"github.com/nabu-3/sdkgen/schema"
)

const (
	currentSchemaQuery = "SELECT DATABASE()"

	tablesQuery = `SELECT table_name AS name
FROM information_schema.tables
WHERE table_schema = ? AND table_type = 'BASE TABLE'
ORDER BY table_name`

	columnsQuery = `SELECT column_name AS name, data_type AS data_type, column_type AS column_type,
	is_nullable AS is_nullable, column_default AS column_default,
	ordinal_position AS ordinal, extra AS extra
FROM information_schema.columns
WHERE table_schema = ? AND table_name = ?
ORDER BY ordinal_position`

	primaryQuery = `SELECT column_name AS name
FROM information_schema.key_column_usage
WHERE table_schema = ? AND table_name = ? AND constraint_name = 'PRIMARY'
ORDER BY ordinal_position`

	indexesQuery = `SELECT index_name AS name, MIN(non_unique) AS non_unique,
	GROUP_CONCAT(column_name ORDER BY seq_in_index SEPARATOR ',') AS columns
FROM information_schema.statistics
WHERE table_schema = ? AND table_name = ? AND index_name <> 'PRIMARY'
GROUP BY index_name
ORDER BY index_name`
)

type columnRow struct {
	Name       string         `db:"name"`
	DataType   string         `db:"data_type"`
	ColumnType string         `db:"column_type"`
	IsNullable string         `db:"is_nullable"`
	Default    sql.NullString `db:"column_default"`
	Ordinal    int            `db:"ordinal"`
	Extra      string         `db:"extra"`
}

type indexRow struct {
	Name      string `db:"name"`
	NonUnique int    `db:"non_unique"`
	Columns   string `db:"columns"`
}

// Describer implements schema.Describer over a MySQL connection.
type Describer struct {
	db     *sqlx.DB
	stats  *dialect.QueryStats
	opts   []dialect.StatsOption
	logger *slog.Logger
}

// Option configures a Describer.
type Option func(*Describer)

// WithLogger sets the logger used for debug and slow-query output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Describer) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithStatsOptions forwards options to the statistics wrapper placed around
// every transaction.
func WithStatsOptions(opts ...dialect.StatsOption) Option {
	return func(d *Describer) {
		d.opts = append(d.opts, opts...)
	}
}

// New returns a Describer reading from db.
func New(db *sqlx.DB, opts ...Option) *Describer {
	d := &Describer{
		db:     db,
		stats:  &dialect.QueryStats{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns the statistics accumulated over all queries.
func (d *Describer) Stats() dialect.StatsSnapshot {
	return d.stats.Stats()
}

// Tables lists the base tables of schemaName.
func (d *Describer) Tables(ctx context.Context, schemaName string) ([]string, error) {
	var tables []string
	err := d.readOnly(ctx, func(q dialect.Queryer) error {
		name, err := d.resolveSchema(ctx, q, schemaName)
		if err != nil {
			return err
		}
		if err := q.SelectContext(ctx, &tables, tablesQuery, name); err != nil {
			return fmt.Errorf("nabu: list tables of %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// Describe fetches the descriptor of table in schemaName. An empty schema
// name selects the connection's current database.
func (d *Describer) Describe(ctx context.Context, table, schemaName string) (*schema.Descriptor, error) {
	var desc *schema.Descriptor
	err := d.readOnly(ctx, func(q dialect.Queryer) error {
		name, err := d.resolveSchema(ctx, q, schemaName)
		if err != nil {
			return err
		}
		desc, err = d.describe(ctx, q, table, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.logger.DebugContext(ctx, "storage described",
		"table", table, "schema", desc.Schema, "fields", len(desc.Fields))
	return desc, nil
}

func (d *Describer) describe(ctx context.Context, q dialect.Queryer, table, schemaName string) (*schema.Descriptor, error) {
	var columns []columnRow
	if err := q.SelectContext(ctx, &columns, columnsQuery, schemaName, table); err != nil {
		return nil, fmt.Errorf("nabu: describe columns of %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, sdk.NewNotFoundErrorWithID("storage", schemaName+"."+table)
	}
	desc := &schema.Descriptor{
		Schema:  schemaName,
		Storage: table,
		Fields:  make([]schema.Field, 0, len(columns)),
	}
	for _, c := range columns {
		f := schema.Field{
			Name:       c.Name,
			DataType:   strings.ToLower(c.DataType),
			ColumnType: c.ColumnType,
			Nullable:   schema.Bool(strings.EqualFold(c.IsNullable, "YES")),
			Ordinal:    c.Ordinal,
			Extra:      c.Extra,
		}
		if c.Default.Valid {
			v := c.Default.String
			f.Default = &v
		}
		desc.Fields = append(desc.Fields, f)
	}

	var primary []string
	if err := q.SelectContext(ctx, &primary, primaryQuery, schemaName, table); err != nil {
		return nil, fmt.Errorf("nabu: describe primary key of %s: %w", table, err)
	}
	if len(primary) > 0 {
		desc.Primary = &schema.Constraint{Name: "PRIMARY", Unique: true, Fields: primary}
	}

	var indexes []indexRow
	if err := q.SelectContext(ctx, &indexes, indexesQuery, schemaName, table); err != nil {
		return nil, fmt.Errorf("nabu: describe indexes of %s: %w", table, err)
	}
	for _, ix := range indexes {
		desc.Secondary = append(desc.Secondary, schema.Constraint{
			Name:   ix.Name,
			Unique: ix.NonUnique == 0,
			Fields: strings.Split(ix.Columns, ","),
		})
	}
	return desc, nil
}

func (d *Describer) resolveSchema(ctx context.Context, q dialect.Queryer, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	var current sql.NullString
	if err := q.GetContext(ctx, &current, currentSchemaQuery); err != nil {
		return "", fmt.Errorf("nabu: current schema: %w", err)
	}
	if !current.Valid || current.String == "" {
		return "", sdk.ErrNoSchema
	}
	return current.String, nil
}

func (d *Describer) readOnly(ctx context.Context, fn func(dialect.Queryer) error) error {
	tx, err := d.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("nabu: begin transaction: %w", err)
	}
	opts := append([]dialect.StatsOption{
		dialect.WithStats(d.stats),
		dialect.WithSlowQueryLog(d.logger),
	}, d.opts...)
	if err := fn(dialect.NewStatsQueryer(tx, opts...)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

var _ schema.Describer = (*Describer)(nil)
