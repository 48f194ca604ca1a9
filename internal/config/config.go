// Package config loads the application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then SHAMELADOCX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// Output formats.
const (
	FormatDOCX     = "docx"
	FormatPDF      = "pdf"
	FormatEPUB     = "epub"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatDOCX, FormatPDF, FormatEPUB, FormatMarkdown, FormatJSON}

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Layout   core.Layout    `yaml:"layout"`
	Document DocumentConfig `yaml:"document"`
	Output   OutputConfig   `yaml:"output"`
	PDF      PDFConfig      `yaml:"pdf"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig names the site books are downloaded from.
type SourceConfig struct {
	Host string `yaml:"host"`
}

// FetchConfig controls outbound HTTP requests.
type FetchConfig struct {
	UserAgent    string            `yaml:"user_agent"`
	Headers      map[string]string `yaml:"headers"`
	Timeout      Duration          `yaml:"timeout"`
	MaxBodyBytes int64             `yaml:"max_body_bytes"`
}

// DocumentConfig holds the typography of the assembled document.
type DocumentConfig struct {
	Font      string  `yaml:"font"`
	TitleSize float64 `yaml:"title_size"`
	BodySize  float64 `yaml:"body_size"`
	Separator string  `yaml:"separator"`
	Language  string  `yaml:"language"`
	Author    string  `yaml:"author"`
}

// OutputConfig selects where and how books are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
}

// PDFConfig configures the PDF renderer.
type PDFConfig struct {
	FontPath string `yaml:"font_path"`
}

// ServerConfig configures the web front end.
type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	RunTimeout        Duration `yaml:"run_timeout"`
	DownloadTTL       Duration `yaml:"download_ttl"`
	MaxDownloads      int      `yaml:"max_downloads"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Source: SourceConfig{Host: core.DefaultHost},
		Fetch: FetchConfig{
			UserAgent:    "shameladocx/1.0",
			Headers:      map[string]string{},
			Timeout:      DurationFrom(30 * time.Second),
			MaxBodyBytes: 8 * 1024 * 1024,
		},
		Layout: core.DefaultLayout(),
		Document: DocumentConfig{
			Font:      "Calibri",
			TitleSize: 21,
			BodySize:  15,
			Separator: "-------------",
			Language:  "ar",
		},
		Output: OutputConfig{
			Name:   "combined-output",
			Format: FormatDOCX,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: DurationFrom(10 * time.Second),
			RunTimeout:        DurationFrom(10 * time.Minute),
			DownloadTTL:       DurationFrom(time.Hour),
			MaxDownloads:      100,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: LogFormatText,
		},
	}
}

// Load builds the configuration. path is an optional YAML file; envFile is an
// optional .env file (".env" when empty, skipped when missing).
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer fh.Close()
		if err := decodeYAML(fh, &cfg); err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	env, err := LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	env.apply(&cfg)

	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromReader decodes a YAML configuration on top of the defaults.
// The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeYAML(r, &cfg); err != nil {
		return nil, err
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate enforces the invariants the pipeline relies on.
func (c Config) Validate() error {
	if c.Source.Host == "" {
		return errors.New("source.host must be set")
	}
	if strings.Contains(c.Source.Host, "/") {
		return fmt.Errorf("source.host must be a bare host name (got %q)", c.Source.Host)
	}
	if c.Fetch.Timeout.Duration <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0 (got %s)", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be > 0 (got %d)", c.Fetch.MaxBodyBytes)
	}
	if c.Fetch.UserAgent == "" {
		return errors.New("fetch.user_agent must be set")
	}
	if c.Layout.PaginationBlock < 0 {
		return fmt.Errorf("layout.pagination_block must be >= 0 (got %d)", c.Layout.PaginationBlock)
	}
	if c.Document.TitleSize <= 0 || c.Document.BodySize <= 0 {
		return fmt.Errorf("document sizes must be > 0 (got title %v, body %v)", c.Document.TitleSize, c.Document.BodySize)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s (got %q)", strings.Join(Formats, ", "), c.Output.Format)
	}
	if c.Output.Format == FormatPDF && c.PDF.FontPath == "" {
		return errors.New("pdf.font_path must be set when output.format is pdf")
	}
	if c.Server.RunTimeout.Duration <= 0 {
		return fmt.Errorf("server.run_timeout must be > 0 (got %s)", c.Server.RunTimeout)
	}
	if c.Server.MaxDownloads <= 0 {
		return fmt.Errorf("server.max_downloads must be > 0 (got %d)", c.Server.MaxDownloads)
	}
	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q (got %q)", LogFormatText, LogFormatJSON, c.Logging.Format)
	}
	return nil
}

func (c *Config) normalise() {
	c.Source.Host = strings.ToLower(strings.TrimSpace(c.Source.Host))
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.Headers == nil {
		c.Fetch.Headers = map[string]string{}
	}
	c.Output.Dir = strings.TrimSpace(c.Output.Dir)
	c.Output.Name = strings.TrimSpace(c.Output.Name)
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "md" {
		c.Output.Format = FormatMarkdown
	}
	c.PDF.FontPath = strings.TrimSpace(c.PDF.FontPath)
	c.Logging.Level = strings.ToUpper(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

// Normalise re-applies normalisation and validation after callers override
// fields (for example from command-line flags).
func (c *Config) Normalise() error {
	c.normalise()
	return c.Validate()
}
