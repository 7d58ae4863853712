package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort     string        `envconfig:"HTTP_PORT"     default:":8080"`
	LogLevel     string        `envconfig:"LOG_LEVEL"     default:"info"`
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	StoreURL     string        `envconfig:"STORE_URL"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	RedisAddr    string        `envconfig:"REDIS_ADDR"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: HTTP Port=%s, LogLevel=%s", config.HTTPPort, config.LogLevel)
		switch {
		case config.DatabaseURL != "":
			logger.Info("Configuration loaded: DatabaseURL is set, using the postgres store")
		case config.StoreURL != "":
			logger.Infof("Configuration loaded: StoreURL=%s, using the remote store", config.StoreURL)
		case config.RedisAddr != "":
			logger.Infof("Configuration loaded: RedisAddr=%s, using the snapshot fallback store", config.RedisAddr)
		default:
			logger.Fatal("Configuration error: one of DATABASE_URL, STORE_URL or REDIS_ADDR must be set")
		}
	})
	return &config
}
