package config

import (
	"os"
	"strconv"

	"contract-analyzer/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	LogLevel        string
	MaxFileSize     int64
	SupabaseURL     string
	SupabaseKey     string
	StorageBucket   string
	VertexProjectID string
	VertexLocation  string
	TessdataPrefix  string
	DefaultLanguage string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		MaxFileSize:     getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		SupabaseURL:     getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:     getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		StorageBucket:   getEnvOrDefault("STORAGE_BUCKET", "contracts"),
		VertexProjectID: getEnvOrDefault("GCP_PROJECT_ID", ""),
		VertexLocation:  getEnvOrDefault("GCP_LOCATION", "us-central1"),
		TessdataPrefix:  getEnvOrDefault("TESSDATA_PREFIX", ""),
		DefaultLanguage: getEnvOrDefault("OCR_LANGUAGE", "eng"),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetSupabaseURL returns the Supabase project URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetStorageBucket returns the object-storage bucket for contract PDFs
func (c *AppConfig) GetStorageBucket() string {
	return c.StorageBucket
}

// GetVertexProjectID returns the GCP project for Vertex AI
func (c *AppConfig) GetVertexProjectID() string {
	return c.VertexProjectID
}

// GetVertexLocation returns the GCP location for Vertex AI
func (c *AppConfig) GetVertexLocation() string {
	return c.VertexLocation
}

// GetTessdataPrefix returns the Tesseract trained-data directory, injected
// into the recognizer at construction time
func (c *AppConfig) GetTessdataPrefix() string {
	return c.TessdataPrefix
}

// GetDefaultLanguage returns the default OCR language model(s)
func (c *AppConfig) GetDefaultLanguage() string {
	return c.DefaultLanguage
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
