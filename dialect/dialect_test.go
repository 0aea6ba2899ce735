package dialect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", MySQL},
		{"mysql", MySQL},
		{"MariaDB", MySQL},
		{"postgresql", Postgres},
		{"pg", Postgres},
		{"sqlite3", SQLite},
		{"SQLite", SQLite},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Normalize("oracle")
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), `"oracle"`)
}

func TestPrepareDSN(t *testing.T) {
	t.Run("mysql gets parseTime", func(t *testing.T) {
		dsn, err := PrepareDSN(MySQL, "nabu:secret@tcp(localhost:3306)/nabu-3")
		require.NoError(t, err)
		assert.Contains(t, dsn, "parseTime=true")
		assert.Contains(t, dsn, "/nabu-3")
	})

	t.Run("invalid mysql dsn", func(t *testing.T) {
		_, err := PrepareDSN(MySQL, "nabu:secret@tcp(localhost:3306")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mysql dsn")
	})

	t.Run("other dialects untouched", func(t *testing.T) {
		dsn, err := PrepareDSN(Postgres, "postgres://localhost/nabu")
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/nabu", dsn)
	})

	t.Run("empty dsn", func(t *testing.T) {
		_, err := PrepareDSN(SQLite, "")
		require.Error(t, err)
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite in memory", func(t *testing.T) {
		db, err := OpenX(ctx, "sqlite3", "file:dialect?mode=memory")
		require.NoError(t, err)
		defer db.Close()
		assert.Equal(t, SQLite, db.DriverName())

		var n int
		require.NoError(t, db.GetContext(ctx, &n, "SELECT 1"))
		assert.Equal(t, 1, n)
	})

	t.Run("unsupported dialect", func(t *testing.T) {
		_, err := Open(ctx, "oracle", "x")
		require.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("invalid mysql dsn fails before connecting", func(t *testing.T) {
		_, err := Open(ctx, MySQL, "not a dsn(")
		require.Error(t, err)
	})
}
