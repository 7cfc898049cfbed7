// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/grocery"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/nutrition"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/planning"
)

// EnvPrefix is prepended to every environment override, e.g. FOODI_SERVER_PORT
const EnvPrefix = "FOODI"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Grocery    GroceryConfig    `mapstructure:"grocery"`

	v *viper.Viper
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// H2C serves HTTP/2 without TLS, for deployments behind a proxy
	H2C bool `mapstructure:"h2c"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	// Driver is sqlite or postgres
	Driver string `mapstructure:"driver"`
	// Path is the sqlite file; empty means in-memory
	Path string `mapstructure:"path"`

	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Database           string        `mapstructure:"database"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel           string        `mapstructure:"log_level"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	ReadReplicas       []string      `mapstructure:"read_replicas"`
	LoadBalancePolicy  string        `mapstructure:"load_balance_policy"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
	Seed               bool          `mapstructure:"seed"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig sizes the in-process caches and preference TTL
type CacheConfig struct {
	PreferenceTTL   time.Duration `mapstructure:"preference_ttl"`
	RecipeLRUSize   int           `mapstructure:"recipe_lru_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool    `mapstructure:"enable_metrics"`
	MetricsPath     string  `mapstructure:"metrics_path"`
	EnableTracing   bool    `mapstructure:"enable_tracing"`
	JaegerEndpoint  string  `mapstructure:"jaeger_endpoint"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
	HealthCheckPath string  `mapstructure:"health_check_path"`
}

// RateLimitConfig contains rate limiting configuration for feedback writes
type RateLimitConfig struct {
	Enable          bool          `mapstructure:"enable"`
	RequestsPerMin  int           `mapstructure:"requests_per_min"`
	BurstSize       int           `mapstructure:"burst_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// PlannerConfig holds the engine tables plus the calorie defaults of the target calculator
type PlannerConfig struct {
	Engine          planning.Config `mapstructure:",squash"`
	DefaultCalories float64         `mapstructure:"default_calories"`
	MinCalories     float64         `mapstructure:"min_calories"`
}

// GroceryConfig prices shopping lines
type GroceryConfig struct {
	DefaultCost float64                  `mapstructure:"default_cost"`
	Prices      map[string]grocery.Price `mapstructure:"prices"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/foodi")
	}

	// Enable environment variable override
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.v = v
	return &config, nil
}

// Watch reloads the file on change and hands every valid new configuration
// to onChange. Invalid edits are logged and ignored. It is a no-op when no
// config file was read.
func (c *Config) Watch(logger *zap.Logger, onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		logger.Debug("No config file in use, hot reload disabled")
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			logger.Warn("Ignoring invalid configuration change",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}
		logger.Info("Configuration reloaded", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		onChange(next)
	})
	c.v.WatchConfig()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Foodi")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_header_bytes", 1<<20) // 1MB
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.h2c", false)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "foodi.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "foodi")
	v.SetDefault("database.username", "foodi")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_query_threshold", "100ms")
	v.SetDefault("database.load_balance_policy", "round_robin")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed", true)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.key_prefix", "foodi:")

	// Cache defaults
	v.SetDefault("cache.preference_ttl", "10m")
	v.SetDefault("cache.recipe_lru_size", 1024)
	v.SetDefault("cache.cleanup_interval", "1m")

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.health_check_path", "/health")

	// Rate limit defaults
	v.SetDefault("rate_limit.enable", true)
	v.SetDefault("rate_limit.requests_per_min", 60)
	v.SetDefault("rate_limit.burst_size", 10)
	v.SetDefault("rate_limit.cleanup_interval", "5m")

	setPlannerDefaults(v)

	// Grocery defaults
	v.SetDefault("grocery.default_cost", 1.5)
}

func setPlannerDefaults(v *viper.Viper) {
	d := planning.DefaultConfig()
	n := nutrition.DefaultConfig()

	v.SetDefault("planner.weights.nutrition", d.Weights.Nutrition)
	v.SetDefault("planner.weights.cost", d.Weights.Cost)
	v.SetDefault("planner.weights.preference", d.Weights.Preference)
	v.SetDefault("planner.weights.variety", d.Weights.Variety)

	v.SetDefault("planner.preference.swipe_weight", d.Preference.SwipeWeight)
	v.SetDefault("planner.preference.rating_weight", d.Preference.RatingWeight)
	v.SetDefault("planner.preference.ingredient", d.Preference.Ingredient)
	v.SetDefault("planner.preference.cuisine", d.Preference.Cuisine)
	v.SetDefault("planner.preference.prep_time", d.Preference.PrepTime)

	shares := make(map[string]float64, len(d.MealShares))
	for mt, share := range d.MealShares {
		shares[string(mt)] = share
	}
	v.SetDefault("planner.meal_shares", shares)

	v.SetDefault("planner.variety_mode", string(d.VarietyMode))
	v.SetDefault("planner.variety_days", d.VarietyDays)
	v.SetDefault("planner.nutrition_tolerance", d.NutritionTolerance)
	v.SetDefault("planner.budget_tolerance", d.BudgetTolerance)
	v.SetDefault("planner.max_passes", d.MaxPasses)
	v.SetDefault("planner.relax_step", d.RelaxStep)
	v.SetDefault("planner.slot_relax_steps", d.SlotRelaxSteps)
	v.SetDefault("planner.ceiling_factor", d.CeilingFactor)

	s := d.Substitution
	v.SetDefault("planner.substitution.weights.similarity", s.Weights.Similarity)
	v.SetDefault("planner.substitution.weights.preference", s.Weights.Preference)
	v.SetDefault("planner.substitution.weights.cost", s.Weights.Cost)
	v.SetDefault("planner.substitution.weights.prep_time", s.Weights.PrepTime)
	v.SetDefault("planner.substitution.calorie_tolerance", s.CalorieTolerance)
	v.SetDefault("planner.substitution.max_results", s.MaxResults)
	v.SetDefault("planner.substitution.skip_planned", s.SkipPlanned)
	v.SetDefault("planner.substitution.minimal_impact", s.MinimalImpact)
	v.SetDefault("planner.substitution.moderate_impact", s.ModerateImpact)

	v.SetDefault("planner.concurrency", d.Concurrency)
	v.SetDefault("planner.generation_timeout", d.GenerationTimeout.String())
	v.SetDefault("planner.default_calories", n.DefaultCalories)
	v.SetDefault("planner.min_calories", n.MinCalories)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate required fields
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	// Validate port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.Database == "" {
			return fmt.Errorf("database.database is required for postgres")
		}
		if c.Database.Password == "" && c.IsProduction() {
			return fmt.Errorf("database.password is required in production")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.Redis.Enabled && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("redis.port must be between 1 and 65535")
	}

	if c.Monitoring.SamplingRate < 0 || c.Monitoring.SamplingRate > 1 {
		return fmt.Errorf("monitoring.sampling_rate must be between 0 and 1")
	}

	if c.RateLimit.Enable && c.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate_limit.requests_per_min must be positive")
	}

	if err := c.Planner.Engine.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if c.Planner.MinCalories < 0 || c.Planner.DefaultCalories < c.Planner.MinCalories {
		return fmt.Errorf("planner.default_calories must be at least planner.min_calories")
	}

	if c.Grocery.DefaultCost < 0 {
		return fmt.Errorf("grocery.default_cost cannot be negative")
	}
	for key, price := range c.Grocery.Prices {
		if price.Amount < 0 {
			return fmt.Errorf("grocery.prices.%s cannot be negative", key)
		}
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// DSN returns the postgres connection string for host using the shared credentials
func (d DatabaseConfig) DSN(host string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		d.Port,
		d.Username,
		d.Password,
		d.Database,
		d.SSLMode,
	)
}

// URL returns the postgres URL form used by migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

// Addr returns the host:port of the Redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// PlanningConfig returns the engine tables
func (c *Config) PlanningConfig() planning.Config {
	return c.Planner.Engine
}

// NutritionConfig returns the target calculator tables with the configured calorie defaults
func (c *Config) NutritionConfig() nutrition.Config {
	n := nutrition.DefaultConfig()
	if c.Planner.DefaultCalories > 0 {
		n.DefaultCalories = c.Planner.DefaultCalories
	}
	if c.Planner.MinCalories > 0 {
		n.MinCalories = c.Planner.MinCalories
	}
	return n
}

// CostTable returns the grocery price table. Keys are normalized so the
// file can use display names.
func (c *Config) CostTable() grocery.CostTable {
	prices := make(map[string]grocery.Price, len(c.Grocery.Prices))
	for name, price := range c.Grocery.Prices {
		prices[grocery.Normalize(name)] = price
	}
	return grocery.CostTable{Prices: prices, Default: c.Grocery.DefaultCost}
}

// Engine builds a planning engine from the configuration
func (c *Config) Engine() *planning.Engine {
	return planning.NewEngine(c.PlanningConfig(), c.NutritionConfig(), grocery.DefaultTables())
}
