package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. SHAMELADOCX_HOST.
const EnvPrefix = "SHAMELADOCX"

// EnvConfig holds the environment overrides. Unset variables leave the
// loaded configuration untouched.
type EnvConfig struct {
	// Env: SHAMELADOCX_HOST
	Host string `envconfig:"HOST"`
	// Env: SHAMELADOCX_USER_AGENT
	UserAgent string `envconfig:"USER_AGENT"`
	// Env: SHAMELADOCX_TIMEOUT (e.g. 45s)
	Timeout time.Duration `envconfig:"TIMEOUT"`
	// Env: SHAMELADOCX_FONT
	Font string `envconfig:"FONT"`
	// Env: SHAMELADOCX_OUTPUT_DIR
	OutputDir string `envconfig:"OUTPUT_DIR"`
	// Env: SHAMELADOCX_OUTPUT_NAME
	OutputName string `envconfig:"OUTPUT_NAME"`
	// Env: SHAMELADOCX_FORMAT
	Format string `envconfig:"FORMAT"`
	// Env: SHAMELADOCX_PDF_FONT
	PDFFont string `envconfig:"PDF_FONT"`
	// Env: SHAMELADOCX_ADDR
	Addr string `envconfig:"ADDR"`
	// Env: SHAMELADOCX_LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`
	// Env: SHAMELADOCX_LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// LoadFromEnv reads the SHAMELADOCX_* environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// A missing file is not an error. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func (e EnvConfig) apply(cfg *Config) {
	if e.Host != "" {
		cfg.Source.Host = e.Host
	}
	if e.UserAgent != "" {
		cfg.Fetch.UserAgent = e.UserAgent
	}
	if e.Timeout > 0 {
		cfg.Fetch.Timeout = DurationFrom(e.Timeout)
	}
	if e.Font != "" {
		cfg.Document.Font = e.Font
	}
	if e.OutputDir != "" {
		cfg.Output.Dir = e.OutputDir
	}
	if e.OutputName != "" {
		cfg.Output.Name = e.OutputName
	}
	if e.Format != "" {
		cfg.Output.Format = e.Format
	}
	if e.PDFFont != "" {
		cfg.PDF.FontPath = e.PDFFont
	}
	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
	if e.LogLevel != "" {
		cfg.Logging.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.Logging.Format = e.LogFormat
	}
}
