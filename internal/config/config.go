package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Draw     DrawConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	// AllowedHosts lists the origins permitted for CORS, or "*" for any.
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// DrawConfig holds draw engine-specific configuration
type DrawConfig struct {
	// ExecuteSchedule and ExpirySchedule are cron expressions
	ExecuteSchedule string
	ExpirySchedule  string
	// ExternalCallTimeoutSeconds bounds report and notification calls during
	// draw execution
	ExternalCallTimeoutSeconds int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, environment variables cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "migrasafe")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Draw.ExecuteSchedule", "*/5 * * * *")
	viper.SetDefault("Draw.ExpirySchedule", "0 * * * *")
	viper.SetDefault("Draw.ExternalCallTimeoutSeconds", 10)
	viper.SetDefault("LogLevel", "info")
}
