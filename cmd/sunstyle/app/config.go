// Package app provides application-level configuration for the sunstyle
// CLI, loaded from flags, environment variables, .env files, and an
// optional config file.
package app

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from various sources.
type Config struct {
	// Server configuration
	Host        string
	Port        int
	PathPrefix  string
	DBPath      string
	PublicDir   string
	CORSEnabled bool
	CORSOrigins []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SUNSTYLE_*, plus PORT/HOST)
// 3. .env files
// 4. Config file (~/.sunstyle.yaml or ./.sunstyle.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("SUNSTYLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Plain PORT/HOST are honored for PaaS deployments
	_ = v.BindEnv("port", "SUNSTYLE_PORT", "PORT")
	_ = v.BindEnv("host", "SUNSTYLE_HOST", "HOST")

	v.SetDefault("host", "localhost")
	v.SetDefault("port", 3000)
	v.SetDefault("path_prefix", "/api/v1")
	v.SetDefault("db_path", "db.json")
	v.SetDefault("public_dir", "")
	v.SetDefault("cors_enabled", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	// Search for config in standard locations; absence is fine
	v.SetConfigName(".sunstyle")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	return &Config{
		Host:        v.GetString("host"),
		Port:        v.GetInt("port"),
		PathPrefix:  v.GetString("path_prefix"),
		DBPath:      v.GetString("db_path"),
		PublicDir:   v.GetString("public_dir"),
		CORSEnabled: v.GetBool("cors_enabled"),
		CORSOrigins: v.GetStringSlice("cors_origins"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}, nil
}

// loadEnvFiles loads .env files if present, most specific first.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		_ = godotenv.Load(file)
	}
}
