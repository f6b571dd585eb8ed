package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the TOML server configuration consumed by the serve and
// corpora commands.
//
// Example:
//
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "corpusgraph"
type Config struct {
	Addr  string      `toml:"addr"`
	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "none".
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StoreConfig selects and configures the corpus store backend.
type StoreConfig struct {
	// Backend is one of "memory", "mongo".
	Backend string      `toml:"backend"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the MongoDB store backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// defaultConfig returns the configuration used when no file is given:
// local file cache, in-memory store, port 8080.
func defaultConfig() Config {
	return Config{
		Addr: ":8080",
		Cache: CacheConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Store: StoreConfig{
			Backend: "memory",
			Mongo: MongoConfig{
				URI:      "mongodb://localhost:27017",
				Database: appName,
			},
		},
	}
}

// loadConfig reads a TOML config file over the defaults.
// An empty path yields the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
