package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	DB          DBConfig
	S3          S3Config
	Log         LogConfig
	CORS        CORSConfig
	Auth        AuthConfig
	Recognition RecognitionConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds operator authentication settings. When both APIKey and
// JWTSecret are empty, protected routes are open.
type AuthConfig struct {
	APIKey    string `mapstructure:"api_key"`
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

// Enabled reports whether any credential is configured.
func (a *AuthConfig) Enabled() bool {
	return a.APIKey != "" || a.JWTSecret != ""
}

// ProviderConfig holds settings for a single recognition model endpoint.
type ProviderConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// RecognitionConfig holds the primary/fallback model pair and the language
// hint embedded into the prompt.
type RecognitionConfig struct {
	Primary  ProviderConfig `mapstructure:"primary"`
	Fallback ProviderConfig `mapstructure:"fallback"`
	Language string         `mapstructure:"language"`
}

// FallbackConfig returns the fallback provider config, or nil if not configured.
func (r *RecognitionConfig) FallbackConfig() *ProviderConfig {
	if r.Fallback.Provider != "" {
		return &r.Fallback
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the CASEDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CASEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "330s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "casedesk")
	v.SetDefault("db.password", "casedesk_secret")
	v.SetDefault("db.name", "casedesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Auth defaults (open)
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "casedesk")

	// Recognition defaults
	v.SetDefault("recognition.primary.provider", "gemini")
	v.SetDefault("recognition.primary.api_key", "")
	v.SetDefault("recognition.primary.endpoint", "")
	v.SetDefault("recognition.primary.model", "gemini-1.5-pro-002")
	v.SetDefault("recognition.fallback.provider", "gemini")
	v.SetDefault("recognition.fallback.api_key", "")
	v.SetDefault("recognition.fallback.endpoint", "")
	v.SetDefault("recognition.fallback.model", "gemini-2.0-flash")
	v.SetDefault("recognition.language", "ru")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "CASEDESK_SERVER_PORT",
		"server.read_timeout":           "CASEDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "CASEDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":            "CASEDESK_SERVER_ENVIRONMENT",
		"db.host":                       "CASEDESK_DB_HOST",
		"db.port":                       "CASEDESK_DB_PORT",
		"db.user":                       "CASEDESK_DB_USER",
		"db.password":                   "CASEDESK_DB_PASSWORD",
		"db.name":                       "CASEDESK_DB_NAME",
		"db.sslmode":                    "CASEDESK_DB_SSLMODE",
		"db.max_open":                   "CASEDESK_DB_MAX_OPEN",
		"db.max_idle":                   "CASEDESK_DB_MAX_IDLE",
		"s3.region":                     "CASEDESK_S3_REGION",
		"s3.bucket":                     "CASEDESK_S3_BUCKET",
		"s3.endpoint":                   "CASEDESK_S3_ENDPOINT",
		"s3.access_key":                 "CASEDESK_S3_ACCESS_KEY",
		"s3.secret_key":                 "CASEDESK_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "CASEDESK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":             "CASEDESK_S3_PRESIGN_EXPIRY",
		"log.level":                     "CASEDESK_LOG_LEVEL",
		"log.format":                    "CASEDESK_LOG_FORMAT",
		"cors.allowed_origins":          "CASEDESK_CORS_ALLOWED_ORIGINS",
		"auth.api_key":                  "CASEDESK_AUTH_API_KEY",
		"auth.jwt_secret":               "CASEDESK_AUTH_JWT_SECRET",
		"auth.jwt_issuer":               "CASEDESK_AUTH_JWT_ISSUER",
		"recognition.primary.provider":  "CASEDESK_RECOGNITION_PRIMARY_PROVIDER",
		"recognition.primary.api_key":   "CASEDESK_RECOGNITION_PRIMARY_API_KEY",
		"recognition.primary.endpoint":  "CASEDESK_RECOGNITION_PRIMARY_ENDPOINT",
		"recognition.primary.model":     "CASEDESK_RECOGNITION_PRIMARY_MODEL",
		"recognition.fallback.provider": "CASEDESK_RECOGNITION_FALLBACK_PROVIDER",
		"recognition.fallback.api_key":  "CASEDESK_RECOGNITION_FALLBACK_API_KEY",
		"recognition.fallback.endpoint": "CASEDESK_RECOGNITION_FALLBACK_ENDPOINT",
		"recognition.fallback.model":    "CASEDESK_RECOGNITION_FALLBACK_MODEL",
		"recognition.language":          "CASEDESK_RECOGNITION_LANGUAGE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if CASEDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CASEDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Auth = AuthConfig{
		APIKey:    v.GetString("auth.api_key"),
		JWTSecret: v.GetString("auth.jwt_secret"),
		JWTIssuer: v.GetString("auth.jwt_issuer"),
	}

	cfg.Recognition = RecognitionConfig{
		Primary: ProviderConfig{
			Provider: v.GetString("recognition.primary.provider"),
			APIKey:   v.GetString("recognition.primary.api_key"),
			Endpoint: v.GetString("recognition.primary.endpoint"),
			Model:    v.GetString("recognition.primary.model"),
		},
		Fallback: ProviderConfig{
			Provider: v.GetString("recognition.fallback.provider"),
			APIKey:   v.GetString("recognition.fallback.api_key"),
			Endpoint: v.GetString("recognition.fallback.endpoint"),
			Model:    v.GetString("recognition.fallback.model"),
		},
		Language: v.GetString("recognition.language"),
	}

	// A single API key for both models is the common setup.
	if cfg.Recognition.Fallback.APIKey == "" && cfg.Recognition.Fallback.Provider == cfg.Recognition.Primary.Provider {
		cfg.Recognition.Fallback.APIKey = cfg.Recognition.Primary.APIKey
	}

	return cfg, nil
}
