// Package pg provides PostgreSQL connection management for the session store:
// pool creation with retry and connection verification, goose-based schema
// migrations, and a readiness probe.
//
// Configuration comes from the environment via the Config struct:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	store := session.NewPostgresStore(pool)
//
// Connect retries with a fixed interval so services restarting alongside the
// database don't fail their boot on the first refused connection.
package pg
