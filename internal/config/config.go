package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	AI         AIConfig
	OCR        OCRConfig
	S3         S3Config
	Heuristics HeuristicsConfig
	CORS       CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single AI completion provider.
type ProviderConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	DefaultModel string  `mapstructure:"default_model"`
	BaseURL      string  `mapstructure:"base_url"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
}

// Timeout returns the per-call timeout, defaulting to 20s.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 20 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// AIConfig holds the primary and fallback completion providers.
type AIConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary provider config, or nil if not configured.
func (a *AIConfig) PrimaryConfig() *ProviderConfig {
	if a.Primary.Provider != "" {
		return &a.Primary
	}
	return nil
}

// SecondaryConfig returns the fallback provider config, or nil if not configured.
func (a *AIConfig) SecondaryConfig() *ProviderConfig {
	if a.Secondary.Provider != "" {
		return &a.Secondary
	}
	return nil
}

// OCRConfig holds OCR provider settings.
type OCRConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxImageMB  int64  `mapstructure:"max_image_mb"`
}

// Timeout returns the OCR call timeout, defaulting to 30s.
func (o *OCRConfig) Timeout() time.Duration {
	if o.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.TimeoutSecs) * time.Second
}

// S3Config holds settings for the bucket uploaded scans are read from.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether a bucket is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// HeuristicsConfig holds the tunable parameters of the rule-based components.
type HeuristicsConfig struct {
	DefaultLanguage string  `mapstructure:"default_language"`
	ScriptThreshold float64 `mapstructure:"script_threshold"`
	Version         string  `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SAHARA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SAHARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// AI provider defaults: Groq first, Gemini as fallback
	v.SetDefault("ai.primary.provider", "groq")
	v.SetDefault("ai.primary.api_key", "")
	v.SetDefault("ai.primary.default_model", "llama-3.3-70b-versatile")
	v.SetDefault("ai.primary.base_url", "")
	v.SetDefault("ai.primary.timeout_secs", 20)
	v.SetDefault("ai.primary.temperature", 0.7)
	v.SetDefault("ai.primary.max_tokens", 1024)
	v.SetDefault("ai.secondary.provider", "gemini")
	v.SetDefault("ai.secondary.api_key", "")
	v.SetDefault("ai.secondary.default_model", "gemini-1.5-flash")
	v.SetDefault("ai.secondary.base_url", "")
	v.SetDefault("ai.secondary.timeout_secs", 20)
	v.SetDefault("ai.secondary.temperature", 0.7)
	v.SetDefault("ai.secondary.max_tokens", 1024)

	// OCR defaults
	v.SetDefault("ocr.provider", "vision")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.timeout_secs", 30)
	v.SetDefault("ocr.max_image_mb", 10)

	// S3 defaults (empty bucket disables key-based image lookup)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Heuristics defaults
	v.SetDefault("heuristics.default_language", "en")
	v.SetDefault("heuristics.script_threshold", 0.3)
	v.SetDefault("heuristics.version", "2024.1")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "SAHARA_SERVER_PORT",
		"server.read_timeout":         "SAHARA_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "SAHARA_SERVER_WRITE_TIMEOUT",
		"server.environment":          "SAHARA_SERVER_ENVIRONMENT",
		"log.level":                   "SAHARA_LOG_LEVEL",
		"log.format":                  "SAHARA_LOG_FORMAT",
		"cors.allowed_origins":        "SAHARA_CORS_ALLOWED_ORIGINS",
		"ai.primary.provider":         "SAHARA_AI_PRIMARY_PROVIDER",
		"ai.primary.api_key":          "SAHARA_AI_PRIMARY_API_KEY",
		"ai.primary.default_model":    "SAHARA_AI_PRIMARY_DEFAULT_MODEL",
		"ai.primary.base_url":         "SAHARA_AI_PRIMARY_BASE_URL",
		"ai.primary.timeout_secs":     "SAHARA_AI_PRIMARY_TIMEOUT_SECS",
		"ai.primary.temperature":      "SAHARA_AI_PRIMARY_TEMPERATURE",
		"ai.primary.max_tokens":       "SAHARA_AI_PRIMARY_MAX_TOKENS",
		"ai.secondary.provider":       "SAHARA_AI_SECONDARY_PROVIDER",
		"ai.secondary.api_key":        "SAHARA_AI_SECONDARY_API_KEY",
		"ai.secondary.default_model":  "SAHARA_AI_SECONDARY_DEFAULT_MODEL",
		"ai.secondary.base_url":       "SAHARA_AI_SECONDARY_BASE_URL",
		"ai.secondary.timeout_secs":   "SAHARA_AI_SECONDARY_TIMEOUT_SECS",
		"ai.secondary.temperature":    "SAHARA_AI_SECONDARY_TEMPERATURE",
		"ai.secondary.max_tokens":     "SAHARA_AI_SECONDARY_MAX_TOKENS",
		"ocr.provider":                "SAHARA_OCR_PROVIDER",
		"ocr.api_key":                 "SAHARA_OCR_API_KEY",
		"ocr.endpoint":                "SAHARA_OCR_ENDPOINT",
		"ocr.timeout_secs":            "SAHARA_OCR_TIMEOUT_SECS",
		"ocr.max_image_mb":            "SAHARA_OCR_MAX_IMAGE_MB",
		"s3.region":                   "SAHARA_S3_REGION",
		"s3.bucket":                   "SAHARA_S3_BUCKET",
		"s3.endpoint":                 "SAHARA_S3_ENDPOINT",
		"s3.access_key":               "SAHARA_S3_ACCESS_KEY",
		"s3.secret_key":               "SAHARA_S3_SECRET_KEY",
		"heuristics.default_language": "SAHARA_HEURISTICS_DEFAULT_LANGUAGE",
		"heuristics.script_threshold": "SAHARA_HEURISTICS_SCRIPT_THRESHOLD",
		"heuristics.version":          "SAHARA_HEURISTICS_VERSION",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if SAHARA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SAHARA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
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

	cfg.AI = AIConfig{
		Primary:   providerConfig(v, "ai.primary"),
		Secondary: providerConfig(v, "ai.secondary"),
	}

	cfg.OCR = OCRConfig{
		Provider:    v.GetString("ocr.provider"),
		APIKey:      v.GetString("ocr.api_key"),
		Endpoint:    v.GetString("ocr.endpoint"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
		MaxImageMB:  v.GetInt64("ocr.max_image_mb"),
	}

	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	cfg.Heuristics = HeuristicsConfig{
		DefaultLanguage: v.GetString("heuristics.default_language"),
		ScriptThreshold: v.GetFloat64("heuristics.script_threshold"),
		Version:         v.GetString("heuristics.version"),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		Temperature:  v.GetFloat64(prefix + ".temperature"),
		MaxTokens:    v.GetInt(prefix + ".max_tokens"),
	}
}
