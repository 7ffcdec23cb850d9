package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.Mutex
	cache  = make(map[reflect.Type]any)
	loaded bool
)

// Load parses environment variables into cfg, caching the result per concrete
// type so repeated calls across packages see identical configuration. A .env
// file, if present, is loaded once before the first parse; its absence is not
// an error.
func Load(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("config: Load requires a non-nil pointer, got %T", cfg)
	}

	mu.Lock()
	defer mu.Unlock()

	if !loaded {
		_ = godotenv.Load()
		loaded = true
	}

	typ := v.Elem().Type()
	if cached, ok := cache[typ]; ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	cache[typ] = v.Elem().Interface()
	return nil
}

// MustLoad is Load that panics on failure. Intended for process startup where
// a missing required variable should stop the boot sequence.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
