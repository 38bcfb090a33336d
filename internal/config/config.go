package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the hopdong API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// AcquisitionConfig selects and tunes the text recognition engine.
type AcquisitionConfig struct {
	Engine    string          `yaml:"engine"` // tesseract, openai (default: tesseract)
	Tesseract TesseractConfig `yaml:"tesseract"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
}

// TesseractConfig holds settings for the local CLI recognition engine.
type TesseractConfig struct {
	TesseractBin string `yaml:"tesseract_bin"`
	PdftotextBin string `yaml:"pdftotext_bin"`
	PdftoppmBin  string `yaml:"pdftoppm_bin"`
	Languages    string `yaml:"languages"`
	DPI          int    `yaml:"dpi"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

// OpenAIConfig holds settings for the vision-model recognition engine.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// StorageConfig holds file and key-value storage settings.
type StorageConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	KeyPrefix   string `yaml:"key_prefix"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Acquisition.Engine == "" {
		c.Acquisition.Engine = "tesseract"
	}
	if c.Acquisition.Tesseract.TesseractBin == "" {
		c.Acquisition.Tesseract.TesseractBin = "tesseract"
	}
	if c.Acquisition.Tesseract.PdftotextBin == "" {
		c.Acquisition.Tesseract.PdftotextBin = "pdftotext"
	}
	if c.Acquisition.Tesseract.PdftoppmBin == "" {
		c.Acquisition.Tesseract.PdftoppmBin = "pdftoppm"
	}
	if c.Acquisition.Tesseract.Languages == "" {
		c.Acquisition.Tesseract.Languages = "vie+eng"
	}
	if c.Acquisition.Tesseract.DPI <= 0 {
		c.Acquisition.Tesseract.DPI = 300
	}
	if c.Acquisition.Tesseract.TimeoutSec <= 0 {
		c.Acquisition.Tesseract.TimeoutSec = 120
	}
	if c.Acquisition.OpenAI.Model == "" {
		c.Acquisition.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "uploads"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "hopdong:"
	}
	if c.Storage.MaxUploadMB <= 0 {
		c.Storage.MaxUploadMB = 25
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Acquisition.Engine {
	case "tesseract":
		// local CLI engine, no credentials needed
	case "openai":
		if c.Acquisition.OpenAI.APIKey == "" {
			return fmt.Errorf("acquisition.openai.api_key is required for the openai engine")
		}
	default:
		return fmt.Errorf(
			"acquisition.engine must be \"tesseract\" or \"openai\", got %q",
			c.Acquisition.Engine,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
