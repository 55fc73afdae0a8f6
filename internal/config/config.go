package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Log            LogConfig            `mapstructure:"log"`
	Lifecycle      LifecycleConfig      `mapstructure:"lifecycle"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Leaderboard    LeaderboardConfig    `mapstructure:"leaderboard"`
	Client         ClientConfig         `mapstructure:"client"`
	Catalog        CatalogConfig        `mapstructure:"catalog"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"min=1,max=65535"`
	Database        string            `mapstructure:"database" validate:"required"`
	Username        string            `mapstructure:"username" validate:"required"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"min=0"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=dev development prod production"`
}

type LifecycleConfig struct {
	// ConflictRetryAttempts is how many times a lifecycle call is re-run after a revision conflict.
	ConflictRetryAttempts uint `mapstructure:"conflict_retry_attempts" validate:"max=10"`
}

type RecommendationConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1,max=50"`
}

type LeaderboardConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1,max=100"`
}

type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	UserID         string `mapstructure:"user_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
}

type CatalogConfig struct {
	SeedFile string `mapstructure:"seed_file" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/coursely")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "coursely")
	v.SetDefault("database.username", "coursely")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("lifecycle.conflict_retry_attempts", 3)
	v.SetDefault("recommendation.default_limit", 6)
	v.SetDefault("leaderboard.default_limit", 50)
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout_seconds", 10)
	// Seed file is optional; the catalog import command takes a path argument as well
	v.SetDefault("catalog.seed_file", "")

	// Bind secrets to environment variables only (not from config file)
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("client.user_id", "COURSELY_USER_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind COURSELY_USER_ID environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
