package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port              string `mapstructure:"PORT"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	Sender            string `mapstructure:"SENDER"`
	ResponseTimeoutMs int    `mapstructure:"RESPONSE_TIMEOUT_MS"`
	SourcesFile       string `mapstructure:"SOURCES_FILE"`
}

func GetConfig() (*Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SENDER", "GithubWebhooks")
	viper.SetDefault("RESPONSE_TIMEOUT_MS", 5000)
	viper.SetDefault("SOURCES_FILE", "sources.yaml")

	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}
