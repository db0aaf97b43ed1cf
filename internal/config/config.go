// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/stockcast/internal/forecast"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ForecastConfig carries the engine tunables read from the environment. The
// engine itself only ever sees the explicit forecast.Config value built from
// this, never viper or globals.
type ForecastConfig struct {
	SafetyStockDays          int
	LeadTimeDays             int
	FBATargetDays            int
	FBACapacity              int
	RoundToNearest           int
	UrgencyThresholdDays     float64
	SeasonalityLookaheadDays int
	BaselineWindow           int
	RisingThreshold          float64
	DecliningThreshold       float64
	AllocationPolicy         string
	Workers                  int
}

// Engine converts the env-backed tunables into the engine's config value.
func (f ForecastConfig) Engine() forecast.Config {
	cfg := forecast.DefaultConfig()
	cfg.SafetyStockDays = f.SafetyStockDays
	cfg.LeadTimeDays = f.LeadTimeDays
	cfg.FBATargetDays = f.FBATargetDays
	cfg.FBACapacity = f.FBACapacity
	cfg.RoundToNearest = f.RoundToNearest
	cfg.UrgencyThresholdDays = f.UrgencyThresholdDays
	cfg.SeasonalityLookaheadDays = f.SeasonalityLookaheadDays
	cfg.BaselineWindow = forecast.Window(f.BaselineWindow)
	cfg.RisingThreshold = f.RisingThreshold
	cfg.DecliningThreshold = f.DecliningThreshold
	cfg.Allocation = forecast.AllocationPolicy(f.AllocationPolicy)
	cfg.Workers = f.Workers
	return cfg
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		defaults := forecast.DefaultConfig()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stockcast")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "stockcast-exports")
		viper.SetDefault("STORAGE_REGION", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("FORECAST_SAFETY_STOCK_DAYS", defaults.SafetyStockDays)
		viper.SetDefault("FORECAST_LEAD_TIME_DAYS", defaults.LeadTimeDays)
		viper.SetDefault("FORECAST_FBA_TARGET_DAYS", defaults.FBATargetDays)
		viper.SetDefault("FORECAST_FBA_CAPACITY", defaults.FBACapacity)
		viper.SetDefault("FORECAST_ROUND_TO_NEAREST", defaults.RoundToNearest)
		viper.SetDefault("FORECAST_URGENCY_THRESHOLD_DAYS", defaults.UrgencyThresholdDays)
		viper.SetDefault("FORECAST_SEASONALITY_LOOKAHEAD_DAYS", defaults.SeasonalityLookaheadDays)
		viper.SetDefault("FORECAST_BASELINE_WINDOW", int(defaults.BaselineWindow))
		viper.SetDefault("FORECAST_RISING_THRESHOLD", defaults.RisingThreshold)
		viper.SetDefault("FORECAST_DECLINING_THRESHOLD", defaults.DecliningThreshold)
		viper.SetDefault("FORECAST_ALLOCATION_POLICY", string(defaults.Allocation))
		viper.SetDefault("FORECAST_WORKERS", 0)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Forecast: ForecastConfig{
				SafetyStockDays:          viper.GetInt("FORECAST_SAFETY_STOCK_DAYS"),
				LeadTimeDays:             viper.GetInt("FORECAST_LEAD_TIME_DAYS"),
				FBATargetDays:            viper.GetInt("FORECAST_FBA_TARGET_DAYS"),
				FBACapacity:              viper.GetInt("FORECAST_FBA_CAPACITY"),
				RoundToNearest:           viper.GetInt("FORECAST_ROUND_TO_NEAREST"),
				UrgencyThresholdDays:     viper.GetFloat64("FORECAST_URGENCY_THRESHOLD_DAYS"),
				SeasonalityLookaheadDays: viper.GetInt("FORECAST_SEASONALITY_LOOKAHEAD_DAYS"),
				BaselineWindow:           viper.GetInt("FORECAST_BASELINE_WINDOW"),
				RisingThreshold:          viper.GetFloat64("FORECAST_RISING_THRESHOLD"),
				DecliningThreshold:       viper.GetFloat64("FORECAST_DECLINING_THRESHOLD"),
				AllocationPolicy:         viper.GetString("FORECAST_ALLOCATION_POLICY"),
				Workers:                  viper.GetInt("FORECAST_WORKERS"),
			},
		}
	})

	return instance
}
