package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

// Config holds settings read from the TOML config file. Command-line flags
// take precedence over every field.
type Config struct {
	// Budget is the insertion time limit as a Go duration ("5s"); empty or
	// "0" means no limit.
	Budget string `toml:"budget"`

	// ExportEach names a directory that receives the adjacency table after
	// every inserted segment.
	ExportEach string `toml:"export_each"`

	// Cache selects the artifact cache: "file" (default), "redis" or "none".
	Cache string `toml:"cache"`

	// RedisAddr is the host:port of the Redis server when Cache is "redis".
	RedisAddr string `toml:"redis_addr"`

	// Listen is the address of the HTTP server.
	Listen string `toml:"listen"`
}

// BudgetDuration parses Budget.
func (c Config) BudgetDuration() (time.Duration, error) {
	if c.Budget == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Budget)
	if err != nil {
		return 0, fmt.Errorf("config budget: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config budget %s is negative", c.Budget)
	}
	return d, nil
}

// loadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file yields the zero Config.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return Config{}, nil
		}
		path = filepath.Join(dir, configFile)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	if _, err := cfg.BudgetDuration(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
