package listings

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverMongo  = "mongodb"
	driverMemory = "memory"
)

type clientConfig struct {
	driver   string // "mongodb" or "memory"
	uri      string
	database string
	seed     io.Reader

	capacity []float64
	tables   []CityBuckets

	valkeyAddr     string
	valkeyPassword string
	valkeyPrefix   string

	defaultLimit int
	maxLimit     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMongo configures the client to read listings from a MongoDB database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMongo
		c.uri = uri
		c.database = database
	})
}

// WithMemory configures an in-memory store seeded from Extended JSON shaped as
// {"venues": [...], "events": [...]}. A nil seed starts empty.
func WithMemory(seed io.Reader) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.seed = seed
	})
}

// WithBuckets sets the capacity breakpoints and the per-city bucket tables.
func WithBuckets(capacity []float64, cities ...CityBuckets) Option {
	return optionFunc(func(c *clientConfig) {
		c.capacity = capacity
		c.tables = cities
	})
}

// WithValkeyBuckets loads bucket tables from Valkey keys under prefix instead.
// Capacity breakpoints set by WithBuckets are used when Valkey has none.
func WithValkeyBuckets(addr, password, prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.valkeyAddr = addr
		c.valkeyPassword = password
		c.valkeyPrefix = prefix
	})
}

// WithPageSize sets the default and the maximum page size.
// Defaults: 20 and 100.
func WithPageSize(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
