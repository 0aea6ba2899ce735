package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/nabu-3/sdkgen"
)

func newMock(t *testing.T) (*Describer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "mysql")), mock
}

var columnCols = []string{"name", "data_type", "column_type", "is_nullable", "column_default", "ordinal", "extra"}

func TestDescribe(t *testing.T) {
	ctx := context.Background()

	t.Run("site table", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
			WithArgs("nabu-3", "nb_site").
			WillReturnRows(sqlmock.NewRows(columnCols).
				AddRow("nb_site_id", "INT", "int(11)", "NO", nil, 1, "auto_increment").
				AddRow("nb_customer_id", "int", "int(11)", "NO", nil, 2, "").
				AddRow("nb_site_key", "varchar", "varchar(30)", "YES", nil, 3, "").
				AddRow("nb_site_order", "int", "int(11)", "NO", "0", 4, ""))
		mock.ExpectQuery(regexp.QuoteMeta(primaryQuery)).
			WithArgs("nabu-3", "nb_site").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("nb_site_id"))
		mock.ExpectQuery(regexp.QuoteMeta(indexesQuery)).
			WithArgs("nabu-3", "nb_site").
			WillReturnRows(sqlmock.NewRows([]string{"name", "non_unique", "columns"}).
				AddRow("nb_site_customer", 1, "nb_customer_id,nb_site_order").
				AddRow("nb_site_key", 0, "nb_site_key"))
		mock.ExpectCommit()

		desc, err := d.Describe(ctx, "nb_site", "nabu-3")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())

		assert.Equal(t, "nabu-3", desc.Schema)
		assert.Equal(t, "nb_site", desc.StorageName())
		assert.Equal(t, []string{"nb_site_id", "nb_customer_id", "nb_site_key", "nb_site_order"}, desc.FieldNames())
		id, _ := desc.Field("nb_site_id")
		assert.Equal(t, "int", id.DataType)
		assert.False(t, id.IsNullable())
		key, _ := desc.Field("nb_site_key")
		assert.True(t, key.IsNullable())
		order, _ := desc.Field("nb_site_order")
		require.NotNil(t, order.Default)
		assert.Equal(t, "0", *order.Default)

		assert.Equal(t, []string{"nb_site_id"}, desc.PrimaryFieldNames())
		assert.True(t, desc.HasSecondaryConstraintWithFields("nb_site_key"))
		assert.True(t, desc.Secondary[1].Unique)
		assert.Equal(t, []string{"nb_customer_id", "nb_site_order"}, desc.Secondary[0].Fields)
		assert.Equal(t, int64(3), d.Stats().TotalQueries)
	})

	t.Run("current schema", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(currentSchemaQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow("nabu-3"))
		mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
			WithArgs("nabu-3", "nb_language").
			WillReturnRows(sqlmock.NewRows(columnCols).
				AddRow("nb_language_id", "int", "int(11)", "NO", nil, 1, ""))
		mock.ExpectQuery(regexp.QuoteMeta(primaryQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("nb_language_id"))
		mock.ExpectQuery(regexp.QuoteMeta(indexesQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "non_unique", "columns"}))
		mock.ExpectCommit()

		desc, err := d.Describe(ctx, "nb_language", "")
		require.NoError(t, err)
		assert.Equal(t, "nabu-3", desc.Schema)
		assert.False(t, desc.HasSecondaryConstraints())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no schema selected", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(currentSchemaQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow(nil))
		mock.ExpectRollback()

		_, err := d.Describe(ctx, "nb_site", "")
		require.ErrorIs(t, err, sdk.ErrNoSchema)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing table", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
			WithArgs("nabu-3", "nb_missing").
			WillReturnRows(sqlmock.NewRows(columnCols))
		mock.ExpectRollback()

		_, err := d.Describe(ctx, "nb_missing", "nabu-3")
		require.Error(t, err)
		assert.True(t, sdk.IsNotFound(err))
		assert.Contains(t, err.Error(), "nabu-3.nb_missing")
	})

	t.Run("query failure", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := d.Describe(ctx, "nb_site", "nabu-3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.False(t, sdk.IsNotFound(err))
		assert.Equal(t, int64(1), d.Stats().Errors)
	})
}

func TestTables(t *testing.T) {
	d, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(tablesQuery)).
		WithArgs("nabu-3").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("nb_language").
			AddRow("nb_site").
			AddRow("nb_site_lang"))
	mock.ExpectCommit()

	tables, err := d.Tables(context.Background(), "nabu-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"nb_language", "nb_site", "nb_site_lang"}, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}
