package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// OpenAIConfig holds the settings for the optional profile-description
// generator. APIKey in the YAML names the environment variable holding
// the key; LoadConfig resolves it.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// EngineConfig holds the scoring engine tuning knobs.
type EngineConfig struct {
	// ReferenceBasePoints is the family contribution awarded to a reference
	// perfume's primary family before question weighting.
	ReferenceBasePoints float64 `mapstructure:"reference_base_points"`
	// MultiPerfumeFactor damps family contributions when answers reference
	// two or more perfumes.
	MultiPerfumeFactor float64 `mapstructure:"multi_perfume_factor"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string // "memory" or a SQLite file path
	}
	Engine                   EngineConfig `mapstructure:"engine"`
	OpenAI                   OpenAIConfig `mapstructure:"openai"`
	GuestRecommendationQuota int          `mapstructure:"guest_recommendation_quota"`
	QuestionsFile            string       `mapstructure:"questions_file"` // optional JSON question bank
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config") // For running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("engine.reference_base_points", 10.0)
	viper.SetDefault("engine.multi_perfume_factor", 0.7)
	viper.SetDefault("guest_recommendation_quota", 20)
	viper.SetDefault("openai.model", "gpt-4o-mini")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Printf("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}

	// The openai.api_key YAML value names an environment variable; resolve
	// it here so the key itself never lives in the config file.
	if envVarName := AppConfig.OpenAI.APIKey; envVarName != "" {
		if envValue := os.Getenv(envVarName); envValue != "" {
			AppConfig.OpenAI.APIKey = envValue
			log.Printf("INFO: [Config] Loaded OpenAI API key from environment variable '%s'.", envVarName)
		} else {
			AppConfig.OpenAI.APIKey = ""
			log.Printf("WARN: [Config] OpenAI API key environment variable '%s' is not set. Profile descriptions will be skipped.", envVarName)
		}
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		AppConfig.OpenAI.APIKey = key
		log.Println("INFO: [Config] Loaded OpenAI API key from environment variable 'OPENAI_API_KEY'.")
	}

	if AppConfig.Engine.ReferenceBasePoints <= 0 {
		log.Printf("WARN: [Config] Invalid engine.reference_base_points %.2f, falling back to 10.0.", AppConfig.Engine.ReferenceBasePoints)
		AppConfig.Engine.ReferenceBasePoints = 10.0
	}
	if AppConfig.Engine.MultiPerfumeFactor <= 0 || AppConfig.Engine.MultiPerfumeFactor > 1 {
		log.Printf("WARN: [Config] Invalid engine.multi_perfume_factor %.2f, falling back to 0.7.", AppConfig.Engine.MultiPerfumeFactor)
		AppConfig.Engine.MultiPerfumeFactor = 0.7
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
