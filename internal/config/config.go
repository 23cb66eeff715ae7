package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NewRelic NewRelicConfig `mapstructure:"newrelic"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Zones    []ZoneConfig   `mapstructure:"zones"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `mapstructure:"app_name"`
	LicenseKey string `mapstructure:"license_key"`
	Enabled    bool   `mapstructure:"enabled"`
}

// EngineConfig holds the pricing orchestrator configuration.
type EngineConfig struct {
	// TickInterval is how often every zone's multiplier is recomputed,
	// independent of how often the dashboard polls.
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	ZoneTimeout   time.Duration `mapstructure:"zone_timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// ZoneConfig is one bootstrap zone definition.
type ZoneConfig struct {
	ID            string  `mapstructure:"id"`
	Name          string  `mapstructure:"name"`
	BasePrice     float64 `mapstructure:"base_price"`
	CenterLat     float64 `mapstructure:"center_lat"`
	CenterLng     float64 `mapstructure:"center_lng"`
	RadiusKm      float64 `mapstructure:"radius_km"`
	MaxMultiplier float64 `mapstructure:"max_multiplier"`
}

// Load reads configuration from an optional config file (CONFIG_FILE,
// default ./config.yaml) with environment variable overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "scooter_pricing")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("newrelic.app_name", "scooter-pricing-engine")
	v.SetDefault("newrelic.license_key", "")
	v.SetDefault("newrelic.enabled", false)

	v.SetDefault("engine.tick_interval", 30*time.Second)
	v.SetDefault("engine.zone_timeout", 5*time.Second)
	v.SetDefault("engine.max_concurrent", 8)

	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := "config.yaml"
	if f := os.Getenv("PRICING_CONFIG_FILE"); f != "" {
		configFile = f
	}
	v.SetConfigFile(configFile)
	// The file is optional; env vars and defaults carry a minimal setup.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
