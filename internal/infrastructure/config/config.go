package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hakot-io/hakot/internal/shared/config"
)

// Load reads configuration from the given file (or the default search
// paths), layered under HAKOT_-prefixed environment variables. A missing
// config file is fine; defaults plus environment carry a dev setup.
func Load(configFile string) (*config.Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("HAKOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hakot")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "hakot")
	v.SetDefault("database.database", "hakot")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("billing.monthly_rate_centavos", 19900)
	v.SetDefault("billing.currency", "PHP")
	v.SetDefault("billing.due_in_days", 7)
	v.SetDefault("billing.archive_cutoff_days", 30)
	v.SetDefault("billing.long_term_threshold_days", 90)
	v.SetDefault("billing.short_term_threshold_days", 30)
	v.SetDefault("billing.timezone", "Asia/Manila")

	v.SetDefault("gateway.base_url", "https://api.paymongo.test")
	v.SetDefault("gateway.timeout_seconds", 10)
}

func validate(cfg *config.Config) error {
	if cfg.Billing.MonthlyRateCentavos <= 0 {
		return fmt.Errorf("billing.monthly_rate_centavos must be positive")
	}
	if cfg.Billing.ShortTermThresholdDays >= cfg.Billing.LongTermThresholdDays {
		return fmt.Errorf("billing.short_term_threshold_days must be below billing.long_term_threshold_days")
	}
	return nil
}
