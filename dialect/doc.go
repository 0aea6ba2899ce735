// Package dialect names the storage backends the generator can describe and
// opens live connections to them.
//
// # Supported Dialects
//
//	dialect.MySQL    = "mysql"
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite"
//
// MySQL is the reference backend of nabu-3 and is described through
// information_schema by package dialect/mysql. Every dialect can also be
// described through the atlas inspector in package dialect/atlas.
//
// # Opening Connections
//
//	db, err := dialect.Open(ctx, dialect.MySQL, "user:pass@tcp(localhost)/nabu-3")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
// MySQL DSNs are validated with the driver's own parser before connecting and
// always get parseTime enabled.
//
// # Query Statistics
//
// StatsQueryer wraps any sqlx-style queryer and records the number of
// queries, the accumulated duration, the errors and the slow queries:
//
//	stats := &dialect.QueryStats{}
//	q := dialect.NewStatsQueryer(tx,
//	    dialect.WithStats(stats),
//	    dialect.WithSlowThreshold(200*time.Millisecond),
//	    dialect.WithSlowQueryLog(logger),
//	)
//	fmt.Println(stats.Stats())
package dialect
