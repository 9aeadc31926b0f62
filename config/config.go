package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase / Firestore.
	FirebaseProjectID         string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile   string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	GoogleCalendarCredentials string `mapstructure:"GOOGLE_CALENDAR_CREDENTIALS_FILE"`

	// Delivery sweep cadence.
	SweepIntervalMinutes int `mapstructure:"SWEEP_INTERVAL_MINUTES"`
	SweepHorizonMinutes  int `mapstructure:"SWEEP_HORIZON_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("GOOGLE_CALENDAR_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("SWEEP_INTERVAL_MINUTES", 5)
	viper.SetDefault("SWEEP_HORIZON_MINUTES", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// GetEnv returns the application environment.
func GetEnv() string {
	return AppConfig.Env
}

// IsProduction checks if the environment is production.
func IsProduction() bool {
	return GetEnv() == "production"
}
