package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion         string `mapstructure:"GENERAL_VERSION"`
	Environment            string `mapstructure:"ENVIRONMENT"`
	ServerPort             int    `mapstructure:"SERVER_PORT"`
	DatabaseHost           string `mapstructure:"DB_HOST"`
	DatabasePort           int    `mapstructure:"DB_PORT"`
	DatabaseName           string `mapstructure:"DB_NAME"`
	DatabaseUser           string `mapstructure:"DB_USER"`
	DatabasePassword       string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress   string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort      int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset     int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins       string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret              string `mapstructure:"JWT_SECRET"`
	JWTExpiryMinutes       int    `mapstructure:"JWT_EXPIRY_MINUTES"`
	StoreTimeoutMS         int    `mapstructure:"STORE_TIMEOUT_MS"`
	SchedulerEnabled       bool   `mapstructure:"SCHEDULER_ENABLED"`
	FirstSuperuser         string `mapstructure:"FIRST_SUPERUSER"`
	FirstSuperuserPassword string `mapstructure:"FIRST_SUPERUSER_PASSWORD"`
}

const (
	defaultJWTExpiryMinutes = 30
	defaultStoreTimeoutMS   = 5000
)

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"JWT_SECRET", "JWT_EXPIRY_MINUTES",
	"STORE_TIMEOUT_MS", "SCHEDULER_ENABLED",
	"FIRST_SUPERUSER", "FIRST_SUPERUSER_PASSWORD",
}

// New reads the configuration once at process start. The returned value is
// passed down explicitly; there is no package level instance.
func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	v.AutomaticEnv()

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	v.SetDefault("JWT_EXPIRY_MINUTES", defaultJWTExpiryMinutes)
	v.SetDefault("STORE_TIMEOUT_MS", defaultStoreTimeoutMS)
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	envVarsSet := v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return config, nil
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	if config.JWTExpiryMinutes <= 0 {
		return log.Error(
			"Fatal error: invalid JWT expiry",
			"minutes", config.JWTExpiryMinutes,
		)
	}

	if config.StoreTimeoutMS <= 0 {
		return log.Error(
			"Fatal error: invalid store timeout",
			"ms", config.StoreTimeoutMS,
		)
	}

	if config.FirstSuperuser != "" && config.FirstSuperuserPassword == "" {
		return log.ErrMsg("Fatal error: FIRST_SUPERUSER_PASSWORD required when FIRST_SUPERUSER is set")
	}

	return nil
}

// StoreTimeout is the upper bound for a single call against the entity store.
func (c Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMS) * time.Millisecond
}

func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
