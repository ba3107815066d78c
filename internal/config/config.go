package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Upstream  UpstreamConfig
	Gateway   GatewayConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig

	// FernetKey is the base64 fernet key used to encrypt notification
	// webhook URLs at rest.
	FernetKey string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// UpstreamConfig holds the public fund-data endpoints.
type UpstreamConfig struct {
	// DirectoryURL serves the full fund directory as a JS assignment
	// statement (`var r = [...]`).
	DirectoryURL string
	// NavURLTemplate is a fmt template taking the fund code, serving a
	// jsonpgz(...) envelope.
	NavURLTemplate string
}

// GatewayConfig holds the OAuth2/messaging gateway settings.
type GatewayConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
}

// SchedulerConfig controls the cron-driven rule pushes.
type SchedulerConfig struct {
	Enabled bool
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fund_monitor.db"),
		},
		Upstream: UpstreamConfig{
			DirectoryURL:   getEnv("DIRECTORY_URL", "http://fund.eastmoney.com/js/fundcode_search.js"),
			NavURLTemplate: getEnv("NAV_URL_TEMPLATE", "http://fundgz.1234567.com.cn/js/%s.js"),
		},
		Gateway: GatewayConfig{
			BaseURL:      getEnv("GATEWAY_BASE_URL", ""),
			TokenURL:     getEnv("GATEWAY_TOKEN_URL", ""),
			ClientID:     getEnv("GATEWAY_CLIENT_ID", ""),
			ClientSecret: getEnv("GATEWAY_CLIENT_SECRET", ""),
			Scope:        getEnv("GATEWAY_SCOPE", "fund"),
		},
		Scheduler: SchedulerConfig{
			Enabled: getEnv("SCHEDULER_ENABLED", "true") == "true",
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost"), ","),
		},
		FernetKey: getEnv("FERNET_KEY", ""),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
