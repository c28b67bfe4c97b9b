package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, default=conectar-simulated"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Backend   BackendConfig
	Health    HealthConfig
	Simulated SimulatedConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// BackendConfig locates the real Conectar REST backend.
type BackendConfig struct {
	URL           string        `env:"BACKEND_URL,            default=http://localhost:3000"`
	ProductionURL string        `env:"BACKEND_PRODUCTION_URL, default=https://api.conectar.com"`
	Timeout       time.Duration `env:"BACKEND_TIMEOUT,        default=10s"`
}

type HealthConfig struct {
	Timeout       time.Duration `env:"HEALTH_TIMEOUT,        default=3s"`
	ProbeInterval time.Duration `env:"HEALTH_PROBE_INTERVAL, default=30s"`
	MaxFailures   int           `env:"HEALTH_MAX_FAILURES,   default=3"`
	WatchInterval time.Duration `env:"HEALTH_WATCH_INTERVAL, default=30s"`
}

// SimulatedConfig tunes the simulated backend used while the real one is down.
type SimulatedConfig struct {
	Delay       time.Duration `env:"SIM_DELAY,        default=500ms"`
	FailureRate float64       `env:"SIM_FAILURE_RATE, default=0.05"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=memory"`
	Prefix string `env:"STORE_PREFIX, default=@Conectar:"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=conectar_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, redis, mongo; got %q", c.Store.Driver)
	}
	if c.Simulated.FailureRate < 0 || c.Simulated.FailureRate > 1 {
		return fmt.Errorf("SIM_FAILURE_RATE must be within [0,1]; got %v", c.Simulated.FailureRate)
	}
	if c.Health.MaxFailures < 1 {
		return fmt.Errorf("HEALTH_MAX_FAILURES must be positive; got %d", c.Health.MaxFailures)
	}
	return nil
}

// IsProduction reports whether ENV selects the production backend.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// BackendURL returns the real backend base URL for the current environment.
func (c *Config) BackendURL() string {
	if c.IsProduction() {
		return c.Backend.ProductionURL
	}
	return c.Backend.URL
}
