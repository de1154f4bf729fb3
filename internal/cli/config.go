package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the gander.toml schema. Zero values mean "use the
// built-in default", so a partial file only overrides what it names.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// EngineConfig tunes the worker pool and result retention.
type EngineConfig struct {
	Workers   int      `toml:"workers"`
	Timeout   duration `toml:"timeout"`
	ResultTTL duration `toml:"result_ttl"`
}

// CacheConfig selects and parameterizes the result cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	Size          int    `toml:"size"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig tunes the serve command.
type ServerConfig struct {
	Addr      string   `toml:"addr"`
	Retention duration `toml:"retention"`
}

// DefaultsConfig seeds algorithm options that flags may still
// override per run.
type DefaultsConfig struct {
	Seed       uint64 `toml:"seed"`
	Iterations int    `toml:"iterations"`
}

// duration wraps time.Duration so TOML values like "30s" or "2m"
// decode directly.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
// Caching is off until a backend is chosen.
func DefaultConfig() Config {
	return Config{
		Cache:  CacheConfig{Backend: "none", Size: 512},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error
// so typos in the file surface instead of silently doing nothing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// resolveConfig loads the configuration for this run. An explicit
// path must exist; otherwise the first existing file among the search
// paths wins, and absence means defaults.
func resolveConfig(explicit string) (Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	for _, path := range configSearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// configSearchPaths lists config locations in precedence order:
// working directory first, then the user config dir.
func configSearchPaths() []string {
	paths := []string{appName + ".toml"}
	if base, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(base, appName, appName+".toml"))
	}
	return paths
}

// overrides carries the root flag values together with whether each
// was explicitly set, so unset flags never clobber file values.
type overrides struct {
	workers    int
	workersSet bool
	timeout    time.Duration
	timeoutSet bool
	backend    string
	backendSet bool
}

// overrideConfig layers explicitly set flags over the loaded file.
func overrideConfig(cfg Config, o overrides) Config {
	if o.workersSet {
		cfg.Engine.Workers = o.workers
	}
	if o.timeoutSet {
		cfg.Engine.Timeout = duration{o.timeout}
	}
	if o.backendSet {
		cfg.Cache.Backend = o.backend
	}
	return cfg
}
