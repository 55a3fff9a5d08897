package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion string `mapstructure:"GENERAL_VERSION"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`

	ServerPort        int    `mapstructure:"SERVER_PORT"`
	ServerCorsOrigins string `mapstructure:"SERVER_CORS_ORIGINS"`

	DatabaseDbPath       string `mapstructure:"DB_PATH"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`

	SecuritySessionHours                int `mapstructure:"SECURITY_SESSION_HOURS"`
	SecurityDeleteTokenSeconds          int `mapstructure:"SECURITY_DELETE_TOKEN_SECONDS"`
	SecurityCredentialAttemptsPerMinute int `mapstructure:"SECURITY_CREDENTIAL_ATTEMPTS_PER_MINUTE"`

	AdminLogin    string `mapstructure:"ADMIN_LOGIN"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var defaults = map[string]any{
	"GENERAL_VERSION":                         "0.1.0",
	"ENVIRONMENT":                             "development",
	"LOG_LEVEL":                               "info",
	"SERVER_PORT":                             8280,
	"SERVER_CORS_ORIGINS":                     "http://localhost:3000",
	"DB_PATH":                                 "data/agency.db",
	"DB_HOST":                                 "",
	"DB_PORT":                                 5432,
	"DB_USER":                                 "",
	"DB_PASSWORD":                             "",
	"DB_NAME":                                 "",
	"DB_CACHE_ADDRESS":                        "",
	"DB_CACHE_PORT":                           6379,
	"SECURITY_SESSION_HOURS":                  12,
	"SECURITY_DELETE_TOKEN_SECONDS":           120,
	"SECURITY_CREDENTIAL_ATTEMPTS_PER_MINUTE": 5,
	"ADMIN_LOGIN":                             "admin",
	"ADMIN_PASSWORD":                          "",
}

// InitConfig loads an optional .env file from the working directory and
// lets environment variables override it.
func InitConfig() (Config, error) {
	return Load(".env")
}

func Load(envFile string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", envFile, err)
			}
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.DatabaseDbPath == "" && c.DatabaseHost == "" {
		return errors.New("one of DB_PATH or DB_HOST is required")
	}

	if c.ServerPort <= 0 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}

	if c.SecurityDeleteTokenSeconds <= 0 {
		return fmt.Errorf("invalid SECURITY_DELETE_TOKEN_SECONDS %d", c.SecurityDeleteTokenSeconds)
	}

	if c.SecurityCredentialAttemptsPerMinute <= 0 {
		return fmt.Errorf(
			"invalid SECURITY_CREDENTIAL_ATTEMPTS_PER_MINUTE %d",
			c.SecurityCredentialAttemptsPerMinute,
		)
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) UsesPostgres() bool {
	return c.DatabaseHost != ""
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}

func (c Config) SessionTTL() time.Duration {
	if c.SecuritySessionHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.SecuritySessionHours) * time.Hour
}

func (c Config) DeleteTokenTTL() time.Duration {
	if c.SecurityDeleteTokenSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.SecurityDeleteTokenSeconds) * time.Second
}

func (c Config) CredentialAttemptsPerMinute() int {
	if c.SecurityCredentialAttemptsPerMinute <= 0 {
		return 5
	}
	return c.SecurityCredentialAttemptsPerMinute
}
