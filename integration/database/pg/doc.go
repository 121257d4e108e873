// Package pg connects a pgx pool with retries, runs goose migrations and
// carries transactions through a context.
//
//	pool, err := pg.Connect(ctx, pg.Config{ConnectionString: os.Getenv("DATABASE_URL")})
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	// Creates the sessions table used by session.PostgresStore.
//	if err := pg.Migrate(ctx, pool, pg.SessionMigrations(), pg.Config{}); err != nil {
//		return err
//	}
//
//	store := session.NewPostgresStore(pg.TxAware(pool), "")
//
// TxAware runs queries on the transaction stored in the context by WithTx
// or InTx, and on the pool otherwise, so stores join a surrounding
// transaction without knowing about it.
package pg
