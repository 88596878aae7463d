package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverMySQL  = "mysql"
	StoreDriverSQLite = "sqlite"
	StoreDriverMongo  = "mongo"

	SessionDriverRedis  = "redis"
	SessionDriverMemory = "memory"
)

// ServerConfig holds all configuration for the server.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	StoreDriver string `mapstructure:"STORE_DRIVER"`
	MySQLDSN    string `mapstructure:"MYSQL_DSN"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	SessionDriver string `mapstructure:"SESSION_DRIVER"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	SessionPrefix string `mapstructure:"SESSION_PREFIX"`
	CookieName    string `mapstructure:"COOKIE_NAME"`

	RSAKeyBits       int    `mapstructure:"RSA_KEY_BITS"`
	RSASingleUse     bool   `mapstructure:"RSA_SINGLE_USE"`
	PBKDF2Iterations int    `mapstructure:"PBKDF2_ITERATIONS"`
	OIDCKeyID        string `mapstructure:"OIDC_KEY_ID"`
	OIDCSigningKey   string `mapstructure:"OIDC_SIGNING_KEY_FILE"` // PEM path; generated when empty

	LogLevel        string `mapstructure:"LOG_LEVEL"`
	LogPretty       bool   `mapstructure:"LOG_PRETTY"`
	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	CodeJanitorInterval time.Duration `mapstructure:"CODE_JANITOR_INTERVAL"`
}

// LoadConfig reads configuration from .env, an optional config file,
// environment variables and defaults, in increasing order of precedence
// for the environment.
func LoadConfig() (*ServerConfig, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/s-sso/")
	v.AddConfigPath("$HOME/.s-sso")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("FRONTEND_URL", "http://localhost:8080")
	v.SetDefault("STORE_DRIVER", StoreDriverSQLite)
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("SQLITE_PATH", "s-sso.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("MONGO_DB_NAME", "s_sso")
	v.SetDefault("SESSION_DRIVER", SessionDriverMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_PREFIX", "s-sso")
	v.SetDefault("COOKIE_NAME", "s-sso-session")
	v.SetDefault("RSA_KEY_BITS", 2048)
	v.SetDefault("RSA_SINGLE_USE", false)
	v.SetDefault("PBKDF2_ITERATIONS", 100000)
	v.SetDefault("OIDC_KEY_ID", "1")
	v.SetDefault("OIDC_SIGNING_KEY_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("OTEL_SERVICE_NAME", "s-sso")
	v.SetDefault("CODE_JANITOR_INTERVAL", "10m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *ServerConfig) Validate() error {
	u, err := url.Parse(c.FrontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FRONTEND_URL %q must be an absolute URL", c.FrontendURL)
	}

	switch c.StoreDriver {
	case StoreDriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required for the mysql store")
		}
	case StoreDriverSQLite, StoreDriverMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionDriver {
	case SessionDriverRedis, SessionDriverMemory:
	default:
		return fmt.Errorf("unsupported SESSION_DRIVER %q", c.SessionDriver)
	}

	if c.CookieName == "" {
		return errors.New("COOKIE_NAME must not be empty")
	}
	return nil
}
