package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"port"`
	DatabaseURL   string   `mapstructure:"database_url"`
	MigrationsDir string   `mapstructure:"migrations_dir"`
	KafkaBrokers  []string `mapstructure:"kafka_brokers"`
	KafkaTopic    string   `mapstructure:"kafka_topic"`
	Environment   string   `mapstructure:"environment"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/root/") // for Docker

	viper.SetDefault("port", "8080")
	viper.SetDefault("migrations_dir", "./migrations")
	viper.SetDefault("kafka_topic", "promotions")
	viper.SetDefault("environment", "development")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A config file is optional; environment variables alone are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Override with environment variables if they exist
	if envPort := viper.GetString("PORT"); envPort != "" {
		config.Port = strings.TrimPrefix(envPort, ":")
	}
	if envDatabaseURL := viper.GetString("DATABASE_URL"); envDatabaseURL != "" {
		config.DatabaseURL = envDatabaseURL
	}
	if envMigrationsDir := viper.GetString("MIGRATIONS_DIR"); envMigrationsDir != "" {
		config.MigrationsDir = envMigrationsDir
	}
	if envKafkaBrokers := viper.GetString("KAFKA_BROKERS"); envKafkaBrokers != "" {
		config.KafkaBrokers = strings.Split(envKafkaBrokers, ",")
	}
	if envKafkaTopic := viper.GetString("KAFKA_TOPIC"); envKafkaTopic != "" {
		config.KafkaTopic = envKafkaTopic
	}
	if envEnvironment := viper.GetString("ENVIRONMENT"); envEnvironment != "" {
		config.Environment = envEnvironment
	}

	if config.DatabaseURL == "" {
		return nil, errors.New("database_url is required (set DATABASE_URL or config.yaml)")
	}

	return &config, nil
}
