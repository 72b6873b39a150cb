package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendBolt  = "bolt"
	BackendRedis = "redis"
	BackendMySQL = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; a .env file is honoured when main loads one
// before calling Load.
type Config struct {
	Env                 string `env:"APP_ENV" envDefault:"dev"`                     // application environment (dev/test/prod)
	Port                string `env:"APP_PORT" envDefault:"8080"`                   // HTTP port to listen on
	JWTSecret           string `env:"JWT_SECRET,required,notEmpty"`                 // secret used to sign planner tokens
	PlannerPasswordHash string `env:"PLANNER_PASSWORD_HASH,required,notEmpty"`      // bcrypt hash of the planner passphrase
	AccessTTLMin        int    `env:"ACCESS_TOKEN_TTL_MIN" envDefault:"720"`        // planner token lifetime in minutes
	StorageBackend      string `env:"STORAGE_BACKEND" envDefault:"bolt"`            // bolt | redis | mysql
	StorageKey          string `env:"STORAGE_KEY" envDefault:"weddingSeatingChart"` // key of the persisted chart document
	BoltPath            string `env:"BOLT_PATH" envDefault:"data/seating.db"`       // file used by the bolt backend
	DBUser              string `env:"DB_USER"`                                      // MySQL user
	DBPass              string `env:"DB_PASS"`                                      // MySQL password (empty allowed)
	DBHost              string `env:"DB_HOST" envDefault:"localhost"`               // MySQL host
	DBPort              string `env:"DB_PORT" envDefault:"3306"`                    // MySQL port
	DBName              string `env:"DB_NAME"`                                      // MySQL database
	RabbitMQURL         string `env:"RABBITMQ_URL"`                                 // change events are published when set
	ChangeLogDir        string `env:"CHANGE_LOG_DIR" envDefault:"logs"`             // where the change-log consumer writes
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`                  // debug | info | warn | error
	LogFormat           string `env:"LOG_FORMAT" envDefault:"json"`                 // json | console
	ServiceName         string `env:"OTEL_SERVICE_NAME" envDefault:"seating-chart"` // service name for logs and traces
	OTLPEndpoint        string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`                  // traces are exported when set

	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// Load parses the environment into a Config and checks that the chosen
// storage backend has what it needs.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.RateLimit.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case BackendBolt:
		if c.BoltPath == "" {
			return errors.New("BOLT_PATH is required for the bolt backend")
		}
	case BackendRedis:
	case BackendMySQL:
		if c.DBUser == "" || c.DBName == "" {
			return errors.New("DB_USER and DB_NAME are required for the mysql backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.StorageKey == "" {
		return errors.New("STORAGE_KEY must not be empty")
	}
	if c.AccessTTLMin <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive, got %d", c.AccessTTLMin)
	}
	return nil
}
