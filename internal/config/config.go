package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	OperationTimeoutSeconds          int    `mapstructure:"OPERATION_TIMEOUT_SECONDS"`
	LogoutClearsProfile              bool   `mapstructure:"LOGOUT_CLEARS_PROFILE"`
}

// OperationTimeout is the per-call deadline applied to identity provider
// and Firestore operations.
func (c *Config) OperationTimeout() time.Duration {
	return time.Duration(c.OperationTimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("OPERATION_TIMEOUT_SECONDS", 10)
	// A failed provider sign-out leaves the local profile untouched so
	// the user can retry. Set true to force a local clear instead.
	viper.SetDefault("LOGOUT_CLEARS_PROFILE", false)

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("FIREBASE_WEB_API_KEY")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("OPERATION_TIMEOUT_SECONDS")
	viper.BindEnv("LOGOUT_CLEARS_PROFILE")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseWebAPIKey == "" {
		return nil, errors.New("FIREBASE_WEB_API_KEY is required (used for password sign-in against the Identity Toolkit API)")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.OperationTimeoutSeconds <= 0 {
		return nil, errors.New("OPERATION_TIMEOUT_SECONDS must be positive")
	}

	return &cfg, nil
}
