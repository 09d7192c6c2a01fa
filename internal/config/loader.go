package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PALACE"

// Load reads configuration in three layers: built-in defaults, an optional
// YAML file (explicit path or ./palace.yaml), and PALACE_* environment
// variables. Later layers win.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("palace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/palace")
		if err := v.ReadInConfig(); err != nil {
			// Missing file is fine; defaults and environment still apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", "./palace.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "rl:")

	v.SetDefault("logging.level", "info")

	// Throttling policies carried over from the production deployment.
	v.SetDefault("rate_limits.listing_create.limit", 10)
	v.SetDefault("rate_limits.listing_create.window", 30*time.Minute)
	v.SetDefault("rate_limits.upload.limit", 15)
	v.SetDefault("rate_limits.upload.window", 10*time.Minute)
	v.SetDefault("rate_limits.login.limit", 10)
	v.SetDefault("rate_limits.login.window", 15*time.Minute)
	v.SetDefault("rate_limits.profile_change.limit", 1)
	v.SetDefault("rate_limits.profile_change.window", 10*time.Minute)
}
