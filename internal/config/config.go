package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"histpattern/internal/client"
	"histpattern/internal/logging"
)

// DefaultPath is the config file read when none is given
const DefaultPath = "histpattern.yaml"

// Config represents the application configuration
type Config struct {
	API     APIConfig      `yaml:"api"`
	Suggest SuggestConfig  `yaml:"suggest"`
	Results ResultsConfig  `yaml:"results"`
	Log     logging.Config `yaml:"log"`
	Server  ServerConfig   `yaml:"server"`
}

// APIConfig holds analytics service settings
type APIConfig struct {
	BaseURL    string          `yaml:"base_url" default:"http://localhost:8000" validate:"required,url"`
	Key        string          `yaml:"api_key"`
	Timeout    time.Duration   `yaml:"timeout" default:"30s" validate:"gt=0"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
}

// RateLimitConfig holds client-side limits in requests per minute; 0 disables
type RateLimitConfig struct {
	Query   int `yaml:"query" default:"30" validate:"gte=0"`
	Suggest int `yaml:"suggest" default:"120" validate:"gte=0"`
	Tickers int `yaml:"tickers" default:"30" validate:"gte=0"`
	ETF     int `yaml:"etf" default:"30" validate:"gte=0"`
	Prices  int `yaml:"prices" default:"60" validate:"gte=0"`
	Health  int `yaml:"health" validate:"gte=0"`
}

// PerOperation keys the limits by client operation
func (r RateLimitConfig) PerOperation() map[string]int {
	return map[string]int{
		client.OpQuery:   r.Query,
		client.OpSuggest: r.Suggest,
		client.OpTickers: r.Tickers,
		client.OpETF:     r.ETF,
		client.OpPrices:  r.Prices,
		client.OpHealth:  r.Health,
	}
}

// SuggestConfig holds autocomplete settings
type SuggestConfig struct {
	Debounce time.Duration `yaml:"debounce" default:"300ms" validate:"gt=0"`
	MinChars int           `yaml:"min_chars" default:"1" validate:"gte=1"`
}

// ResultsConfig holds presentation settings
type ResultsConfig struct {
	PageSize    int `yaml:"page_size" default:"25" validate:"oneof=10 25 50 100"`
	ChartWindow int `yaml:"chart_window" default:"504" validate:"gt=0"`
}

// ServerConfig holds the local view server settings
type ServerConfig struct {
	Port         int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"60s"`
	CORSOrigins  []string      `yaml:"cors_origins" default:"[\"*\"]"`
	Metrics      bool          `yaml:"metrics" default:"true"`
}

// DefaultConfig returns the default configuration with env overrides applied
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	cfg.applyEnv()
	return cfg
}

// LoadEnv loads .env style files into the process environment.
// Missing files are ignored; existing variables are not overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("setting defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables if set
func (c *Config) applyEnv() {
	if url := os.Getenv("VITE_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if url := os.Getenv("PATTERN_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if key := os.Getenv("PATTERN_API_KEY"); key != "" {
		c.API.Key = key
	}
	if level := os.Getenv("PATTERN_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
