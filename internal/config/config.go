package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all station configuration loaded from environment
// variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Cache     CacheConfig
	StationDB StationDBConfig
	Digikey   DigikeyConfig
	Scanner   ScannerConfig
}

// ServerConfig holds HTTP server settings for the read-only surface.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"partscan"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds lookup-cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"15m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StationDBConfig holds row-store settings.
type StationDBConfig struct {
	Type string `envconfig:"STATION_DB_TYPE" default:"sqlite"` // sqlite, mysql, or memory
	Path string `envconfig:"STATION_DB_PATH" default:"./data/station.db"`
	// MySQL settings
	Host     string `envconfig:"STATION_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STATION_DB_PORT" default:"3306"`
	Name     string `envconfig:"STATION_DB_NAME" default:"partscan"`
	User     string `envconfig:"STATION_DB_USER" default:"root"`
	Password string `envconfig:"STATION_DB_PASS" default:""`
}

// DigikeyConfig holds catalog API settings. The access token is
// provisioned outside the station.
type DigikeyConfig struct {
	BaseURL        string        `envconfig:"DIGIKEY_BASE_URL" default:"https://api.digikey.com/"`
	ClientID       string        `envconfig:"DIGIKEY_CLIENT_ID" default:""`
	AccessToken    string        `envconfig:"DIGIKEY_ACCESS_TOKEN" default:""`
	LocaleLanguage string        `envconfig:"DIGIKEY_LOCALE_LANGUAGE" default:"en"`
	LocaleSite     string        `envconfig:"DIGIKEY_LOCALE_SITE" default:"US"`
	Timeout        time.Duration `envconfig:"DIGIKEY_TIMEOUT" default:"10s"`
}

// ScannerConfig holds scan-intake settings.
type ScannerConfig struct {
	DedupWindow   time.Duration `envconfig:"SCANNER_DEDUP_WINDOW" default:"4s"`
	DedupCapacity int           `envconfig:"SCANNER_DEDUP_CAPACITY" default:"4096"`
	QueueSize     int           `envconfig:"SCANNER_QUEUE_SIZE" default:"64"`
	// Optional TCP line device (a linear scanner emitting one payload
	// per line). Empty disables it.
	LineAddr      string `envconfig:"SCANNER_LINE_ADDR" default:""`
	LineSymbology string `envconfig:"SCANNER_LINE_SYMBOLOGY" default:"Code128"`
}

// MySQLDSN returns the MySQL data source name.
func (s *StationDBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.User, s.Password, s.Host, s.Port, s.Name)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
