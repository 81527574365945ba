package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig holds settings for the S3-compatible object store.
// Endpoint may be a bare host (s3.example.com) or a URL (https://s3.example.com);
// a URL scheme overrides UseSSL.
type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicURLBase string
	UseSSL        bool
	PublicRead    bool
}

// UploadConfig bounds multipart uploads accepted by the API.
type UploadConfig struct {
	MaxFiles          int
	MaxFileSize       int64
	Concurrency       int
	BannerMaxFileSize int64
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost            string
	Port               string
	TimeZone           string
	LogLevel           string
	RequestTimeoutSec  int
	CORSAllowedOrigins []string
	Database           DatabaseConfig
	Storage            StorageConfig
	Upload             UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:            getEnv("APP_HOST", "localhost:3000"),
		Port:               getEnv("PORT", "3000"),
		TimeZone:           getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RequestTimeoutSec:  getEnvInt("REQUEST_TIMEOUT_SEC", 60),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			AccessKey:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:        getEnv("S3_BUCKET_NAME", ""),
			PublicURLBase: strings.TrimRight(getEnv("S3_PUBLIC_URL_BASE", ""), "/"),
			UseSSL:        getEnvBool("S3_USE_SSL", true),
			PublicRead:    getEnvBool("S3_PUBLIC_READ", true),
		},
		Upload: UploadConfig{
			MaxFiles:          getEnvInt("UPLOAD_MAX_FILES", 10),
			MaxFileSize:       getEnvInt64("UPLOAD_MAX_FILE_SIZE", 10<<20),
			Concurrency:       getEnvInt("UPLOAD_CONCURRENCY", 4),
			BannerMaxFileSize: getEnvInt64("BANNER_MAX_FILE_SIZE", 5<<20),
		},
	}
}

// BodyLimit returns the largest request body the HTTP server should accept:
// a full batch of maximum-size files plus room for the form fields.
func (c UploadConfig) BodyLimit() int {
	limit := int64(c.MaxFiles)*c.MaxFileSize + 1<<20
	if c.BannerMaxFileSize+1<<20 > limit {
		limit = c.BannerMaxFileSize + 1<<20
	}
	return int(limit)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
