package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nightlife/listings/internal/domain/bucket"
)

// Database drivers.
const (
	DriverMongo  = "mongodb"
	DriverMemory = "memory"
)

// Bucket table sources.
const (
	BucketSourceConfig = "config"
	BucketSourceValkey = "valkey"
)

// Config holds the listings API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Buckets   BucketsConfig   `yaml:"buckets"`
	Search    SearchConfig    `yaml:"search"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"` // default: determined by env
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys" validate:"dive,required"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store settings.
type DatabaseConfig struct {
	Driver            string `yaml:"driver" validate:"oneof=mongodb memory"` // default: mongodb
	URI               string `yaml:"uri" validate:"required_if=Driver mongodb"`
	Name              string `yaml:"name" validate:"required_if=Driver mongodb"`
	SeedFile          string `yaml:"seed_file"` // memory driver only
	ConnectTimeoutSec int    `yaml:"connect_timeout_sec"`
	QueryTimeoutSec   int    `yaml:"query_timeout_sec"`
	ReadinessTimeout  int    `yaml:"readiness_timeout_sec"`
}

// BucketsConfig holds the bucket breakpoint tables.
type BucketsConfig struct {
	Source   string       `yaml:"source" validate:"oneof=config valkey"` // default: config
	Capacity []float64    `yaml:"capacity"`
	Cities   []CityConfig `yaml:"cities" validate:"dive"`
	Valkey   ValkeyConfig `yaml:"valkey"`
}

// CityConfig is the bucket table of one city.
type CityConfig struct {
	Country      string    `yaml:"country" validate:"required"`
	City         string    `yaml:"city" validate:"required"`
	Currency     string    `yaml:"currency" validate:"omitempty,len=3"`
	Timezone     string    `yaml:"timezone" validate:"omitempty,timezone"`
	CokePrices   []float64 `yaml:"coke_prices"`
	BeerPrices   []float64 `yaml:"beer_prices"`
	EntranceFees []float64 `yaml:"entrance_fees"`
}

// ValkeyConfig holds the key-value store used as a bucket table source.
type ValkeyConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds pagination settings.
type SearchConfig struct {
	DefaultPageSize int `yaml:"default_page_size" validate:"min=1"`
	MaxPageSize     int `yaml:"max_page_size" validate:"min=1,max=1000,gtefield=DefaultPageSize"`
}

// CORSConfig holds cross-origin settings. No origins disables CORS headers.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig holds the per-client request limit. Zero disables it.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"min=0"`
}

// Tables converts the configured cities into bucket tables.
func (b BucketsConfig) Tables() []bucket.Table {
	out := make([]bucket.Table, 0, len(b.Cities))
	for _, c := range b.Cities {
		out = append(out, bucket.Table{
			Country:      c.Country,
			City:         c.City,
			Currency:     c.Currency,
			Timezone:     c.Timezone,
			CokePrices:   c.CokePrices,
			BeerPrices:   c.BeerPrices,
			EntranceFees: c.EntranceFees,
		})
	}
	return out
}

// Lookup builds the bucket lookup from the configured tables.
func (b BucketsConfig) Lookup() (*bucket.Lookup, error) {
	l, err := bucket.NewLookup(b.Capacity, b.Tables())
	if err != nil {
		return nil, fmt.Errorf("buckets: %w", err)
	}
	return l, nil
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, applying
// defaults and validating the result.
func Parse(data []byte) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Database.ConnectTimeoutSec <= 0 {
		c.Database.ConnectTimeoutSec = 10
	}
	if c.Database.QueryTimeoutSec <= 0 {
		c.Database.QueryTimeoutSec = 5
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Buckets.Source == "" {
		c.Buckets.Source = BucketSourceConfig
	}
	if c.Buckets.Valkey.KeyPrefix == "" {
		c.Buckets.Valkey.KeyPrefix = "listings:buckets:"
	}
	if c.Buckets.Valkey.ReadinessTimeout <= 0 {
		c.Buckets.Valkey.ReadinessTimeout = 10
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation (value %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("validate: %w", err)
	}
	if c.Buckets.Source == BucketSourceValkey && len(c.Buckets.Valkey.Addrs) == 0 {
		return fmt.Errorf("buckets.valkey.addrs is required when buckets.source is %q", BucketSourceValkey)
	}
	if _, err := c.Buckets.Lookup(); err != nil {
		return err
	}
	return nil
}

// fieldPath turns a validator namespace ("Config.HTTP.Port") into the
// lower-cased path a reader finds in the YAML file.
func fieldPath(namespace string) string {
	_, rest, ok := strings.Cut(namespace, ".")
	if !ok {
		return strings.ToLower(namespace)
	}
	return strings.ToLower(rest)
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
