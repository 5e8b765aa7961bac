package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultGeminiTemp       = 0.4
	defaultGroqModel        = "llama-3.3-70b-versatile"
	defaultGroqTemp         = 0.8
	defaultGroqRegenTemp    = 1.0
	defaultGroqMaxTokens    = 2048
	defaultRequestTimeout   = 60 * time.Second
	defaultServerAddr       = ":8080"
	defaultRequestsPerMin   = 30
	defaultMaxUploadMB      = 10
	defaultSourceTimeout    = 30 * time.Second
	defaultSourceMaxBytes   = 20 << 20
	defaultGeminiSecretName = "gemini-api-key"
	defaultGroqSecretName   = "groq-api-key"
	defaultLogLevel         = "info"
)

type Config struct {
	GeminiAPIKey string `yaml:"-"`
	GroqAPIKey   string `yaml:"-"`
	GCPProject   string `yaml:"-"`

	Gemini  GeminiConfig  `yaml:"gemini"`
	Groq    GroqConfig    `yaml:"groq"`
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Secrets SecretsConfig `yaml:"secrets"`
	Log     LogConfig     `yaml:"log"`
}

type GeminiConfig struct {
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type GroqConfig struct {
	Model                 string        `yaml:"model"`
	Temperature           float64       `yaml:"temperature"`
	RegenerateTemperature float64       `yaml:"regenerate_temperature"`
	MaxTokens             int           `yaml:"max_tokens"`
	Timeout               time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	MaxUploadMB       int      `yaml:"max_upload_mb"`
}

type SourceConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	MaxBytes        int64         `yaml:"max_bytes"`
	StorageEndpoint string        `yaml:"storage_endpoint"`
}

// SecretsConfig names Secret Manager secrets holding API keys. They are read
// only when the matching env var is empty and a GCP project is set.
type SecretsConfig struct {
	GeminiSecret string `yaml:"gemini_secret"`
	GroqSecret   string `yaml:"groq_secret"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GCPProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}

	if err := loadYAMLConfig(cfg, defaultConfigPath); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := loadSecrets(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("No config.yaml found, using defaults")
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyGeminiDefaults(cfg)
	applyGroqDefaults(cfg)
	applyServerDefaults(cfg)
	applySourceDefaults(cfg)
	applySecretsDefaults(cfg)
	if cfg.Log.Level == "" {
		cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	}
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = getEnvOrDefault("GEMINI_MODEL", defaultGeminiModel)
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = defaultGeminiTemp
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = defaultRequestTimeout
	}
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = getEnvOrDefault("GROQ_MODEL", defaultGroqModel)
	}
	if cfg.Groq.Temperature == 0 {
		cfg.Groq.Temperature = defaultGroqTemp
	}
	if cfg.Groq.RegenerateTemperature == 0 {
		cfg.Groq.RegenerateTemperature = defaultGroqRegenTemp
	}
	if cfg.Groq.MaxTokens == 0 {
		cfg.Groq.MaxTokens = defaultGroqMaxTokens
	}
	if cfg.Groq.Timeout == 0 {
		cfg.Groq.Timeout = defaultRequestTimeout
	}
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = getEnvOrDefault("ADDR", defaultServerAddr)
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"https://new.express.adobe.com", "https://localhost:5241"}
	}
	if cfg.Server.RequestsPerMinute == 0 {
		cfg.Server.RequestsPerMinute = defaultRequestsPerMin
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = defaultMaxUploadMB
	}
}

func applySourceDefaults(cfg *Config) {
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = defaultSourceTimeout
	}
	if cfg.Source.MaxBytes == 0 {
		cfg.Source.MaxBytes = defaultSourceMaxBytes
	}
	if cfg.Source.StorageEndpoint == "" {
		cfg.Source.StorageEndpoint = os.Getenv("STORAGE_EMULATOR_ENDPOINT")
	}
}

func applySecretsDefaults(cfg *Config) {
	if cfg.Secrets.GeminiSecret == "" {
		cfg.Secrets.GeminiSecret = defaultGeminiSecretName
	}
	if cfg.Secrets.GroqSecret == "" {
		cfg.Secrets.GroqSecret = defaultGroqSecretName
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
