package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Wallet   WalletConfig
	Payment  PaymentConfig
	Mail     MailConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret       string
	ExpiresHours int
}

// WalletConfig holds wallet policy configuration
type WalletConfig struct {
	MinWithdrawalAmount float64
}

// PaymentConfig holds payment gateway configuration
type PaymentConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	MockAPI   bool
}

// MailConfig holds mail gateway configuration
type MailConfig struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	MockMail    bool
}

// Load loads configuration from .env, config files and environment variables
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
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
	viper.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "luckyseats")
	viper.SetDefault("JWT.Secret", "change-me-in-production")
	viper.SetDefault("JWT.ExpiresHours", 24)
	viper.SetDefault("Wallet.MinWithdrawalAmount", 100)
	viper.SetDefault("Payment.MockAPI", true)
	viper.SetDefault("Mail.MockMail", true)
	viper.SetDefault("Mail.FromAddress", "no-reply@luckyseats.in")
	viper.SetDefault("LogLevel", "info")
}
