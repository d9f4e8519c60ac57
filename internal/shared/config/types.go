// Package config defines the typed configuration structures shared
// across the application.
package config

import "fmt"

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the MySQL data source name.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// BillingConfig carries the billing defaults used when creating invoices.
// All amounts are in centavos.
type BillingConfig struct {
	MonthlyRateCentavos    int64  `mapstructure:"monthly_rate_centavos"`
	Currency               string `mapstructure:"currency"`
	DueInDays              int    `mapstructure:"due_in_days"`
	ArchiveCutoffDays      int    `mapstructure:"archive_cutoff_days"`
	ShortTermThresholdDays int    `mapstructure:"short_term_threshold_days"`
	LongTermThresholdDays  int    `mapstructure:"long_term_threshold_days"`
	Timezone               string `mapstructure:"timezone"`
}

// GatewayConfig configures the online payment gateway client.
type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	SecretKey      string `mapstructure:"secret_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}
