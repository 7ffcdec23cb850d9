// Package config provides type-safe environment variable loading with
// per-type caching. Each configuration type is parsed once and cached for
// subsequent calls, so every package that loads the same type observes the
// same values.
//
// The package loads a .env file on first use (via joho/godotenv) and parses
// environment variables with the caarlos0/env library:
//
//	type SessionConfig struct {
//		Secret  string `env:"SESSION_SECRET,required"`
//		TTLDays int    `env:"SESSION_TTL_DAYS" envDefault:"30"`
//	}
//
//	var cfg SessionConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure during startup:
//	config.MustLoad(&cfg)
package config
