package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Engine     EngineConfig
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Sentry     SentryConfig
	Pyroscope  PyroscopeConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	ConnectRetryMaxSeconds int    `mapstructure:"connect_retry_max_seconds"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled bool
	Backend types.CacheBackend
	// RecommendationTTL bounds how long a session's recommendation result is reused
	RecommendationTTL time.Duration `mapstructure:"recommendation_ttl"`
}

// EngineConfig holds the pricing/matching knobs. Zero values fall back to the
// documented defaults through the resolver methods below.
type EngineConfig struct {
	AddonStackingPolicy         types.StackingPolicy `mapstructure:"addon_stacking_policy"`
	DefaultBenefitPointWeight   float64              `mapstructure:"default_benefit_point_weight"`
	FreeLensDefaultPercentLimit float64              `mapstructure:"free_lens_default_percent_limit"`
	SecondPairDefaultPercent    float64              `mapstructure:"second_pair_default_percent"`
	AntiWalkoutMinMatchPercent  int                  `mapstructure:"anti_walkout_min_match_percent"`
	PremiumMatchWindow          int                  `mapstructure:"premium_match_window"`
	CurrencySymbol              string               `mapstructure:"currency_symbol"`
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only meant for local runs
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lensprice")

	v.SetEnvPrefix("LENSPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Printf("No config file found, using defaults and environment\n")
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("postgres.connect_retry_max_seconds", 30)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", string(types.CacheBackendInMemory))
	v.SetDefault("cache.recommendation_ttl", DefaultRecommendationTTL)
	v.SetDefault("engine.addon_stacking_policy", string(types.StackingPolicyHighestOnly))
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Engine.AddonStackingPolicy != "" {
		if err := c.Engine.AddonStackingPolicy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development,
// scripts and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache: CacheConfig{
			Enabled:           true,
			Backend:           types.CacheBackendInMemory,
			RecommendationTTL: DefaultRecommendationTTL,
		},
		Engine: EngineConfig{
			AddonStackingPolicy: types.StackingPolicyHighestOnly,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// GetURL returns the postgres:// form used by golang-migrate
func (c PostgresConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

const (
	DefaultRecommendationTTL          = 2 * time.Minute
	DefaultBenefitPointWeight         = 1.0
	DefaultFreeLensPercentLimit       = 40.0
	DefaultSecondPairPercent          = 50.0
	DefaultAntiWalkoutMinMatchPercent = 40
	DefaultPremiumMatchWindow         = 10
	DefaultCurrencySymbol             = "₹"
)

// StackingPolicy resolves the RX add-on stacking policy, HIGHEST_ONLY when unset
func (e EngineConfig) StackingPolicy() types.StackingPolicy {
	if e.AddonStackingPolicy == "" {
		return types.StackingPolicyHighestOnly
	}
	return e.AddonStackingPolicy
}

// BenefitPointWeight resolves the multiplier for benefits without their own point weight
func (e EngineConfig) BenefitPointWeight() float64 {
	if e.DefaultBenefitPointWeight <= 0 {
		return DefaultBenefitPointWeight
	}
	return e.DefaultBenefitPointWeight
}

// FreeLensPercentLimit resolves the frame-MRP share a PERCENT_OF_FRAME free lens may cover
func (e EngineConfig) FreeLensPercentLimit() decimal.Decimal {
	if e.FreeLensDefaultPercentLimit <= 0 {
		return decimal.NewFromFloat(DefaultFreeLensPercentLimit)
	}
	return decimal.NewFromFloat(e.FreeLensDefaultPercentLimit)
}

// SecondPairPercent resolves the BOG50 discount percent when a rule leaves it unset
func (e EngineConfig) SecondPairPercent() decimal.Decimal {
	if e.SecondPairDefaultPercent <= 0 {
		return decimal.NewFromFloat(DefaultSecondPairPercent)
	}
	return decimal.NewFromFloat(e.SecondPairDefaultPercent)
}

// AntiWalkoutMinMatch resolves the minimum match percent for the anti-walkout lens
func (e EngineConfig) AntiWalkoutMinMatch() int {
	if e.AntiWalkoutMinMatchPercent <= 0 {
		return DefaultAntiWalkoutMinMatchPercent
	}
	return e.AntiWalkoutMinMatchPercent
}

// PremiumWindow resolves how many match points below the best match a premium lens may be
func (e EngineConfig) PremiumWindow() int {
	if e.PremiumMatchWindow <= 0 {
		return DefaultPremiumMatchWindow
	}
	return e.PremiumMatchWindow
}

// Currency resolves the symbol used in upsell messages
func (e EngineConfig) Currency() string {
	if e.CurrencySymbol == "" {
		return DefaultCurrencySymbol
	}
	return e.CurrencySymbol
}

// TTL resolves the recommendation cache lifetime
func (c CacheConfig) TTL() time.Duration {
	if c.RecommendationTTL <= 0 {
		return DefaultRecommendationTTL
	}
	return c.RecommendationTTL
}
