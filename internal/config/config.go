// Package config loads application configuration and initializes logging.
package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Images    ImagesConfig    `yaml:"images" mapstructure:"images"`
	Documents DocumentsConfig `yaml:"documents" mapstructure:"documents"`
	Anomaly   AnomalyConfig   `yaml:"anomaly" mapstructure:"anomaly"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`             // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // DSN or sqlite path
	RunTTLHours int    `yaml:"run_ttl_hours" mapstructure:"run_ttl_hours"`
}

// CatalogConfig locates the reference data consumed by the detectors.
type CatalogConfig struct {
	ExportPath       string `yaml:"export_path" mapstructure:"export_path"`             // export catalog CSV
	DescriptionsPath string `yaml:"descriptions_path" mapstructure:"descriptions_path"` // reference document descriptions CSV
	MarketDataPath   string `yaml:"market_path" mapstructure:"market_path"`             // historical shipment volume CSV, optional
}

// ImagesConfig configures the image risk detector.
type ImagesConfig struct {
	BrandDir            string  `yaml:"brand_dir" mapstructure:"brand_dir"`
	HighCorrelation     float64 `yaml:"high_correlation" mapstructure:"high_correlation"`
	HighSSIM            float64 `yaml:"high_ssim" mapstructure:"high_ssim"`
	ModerateCorrelation float64 `yaml:"moderate_correlation" mapstructure:"moderate_correlation"`
	ModerateSSIM        float64 `yaml:"moderate_ssim" mapstructure:"moderate_ssim"`
	MaxParallel         int     `yaml:"max_parallel" mapstructure:"max_parallel"`
}

// DocumentsConfig configures the document risk detector thresholds.
type DocumentsConfig struct {
	HighThreshold     float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	ModerateThreshold float64 `yaml:"moderate_threshold" mapstructure:"moderate_threshold"`
	TopN              int     `yaml:"top_n" mapstructure:"top_n"`
}

// AnomalyConfig configures the shipment outlier score.
type AnomalyConfig struct {
	MinMarketRows int     `yaml:"min_market_rows" mapstructure:"min_market_rows"`
	MADThreshold  float64 `yaml:"mad_threshold" mapstructure:"mad_threshold"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	AnalyzePerSec  float64 `yaml:"analyze_per_sec" mapstructure:"analyze_per_sec"`
	AnalyzeBurst   int     `yaml:"analyze_burst" mapstructure:"analyze_burst"`
	MaxUploadBytes int64   `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("IPSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ipscreen.db")
	v.SetDefault("store.run_ttl_hours", 24)
	v.SetDefault("catalog.export_path", "data/export_catalog.csv")
	v.SetDefault("catalog.descriptions_path", "data/product_descriptions.csv")
	v.SetDefault("catalog.market_path", "")
	v.SetDefault("images.brand_dir", "data/images")
	v.SetDefault("images.high_correlation", 0.85)
	v.SetDefault("images.high_ssim", 0.80)
	v.SetDefault("images.moderate_correlation", 0.65)
	v.SetDefault("images.moderate_ssim", 0.60)
	v.SetDefault("images.max_parallel", 8)
	v.SetDefault("documents.high_threshold", 0.85)
	v.SetDefault("documents.moderate_threshold", 0.60)
	v.SetDefault("documents.top_n", 10)
	v.SetDefault("anomaly.min_market_rows", 10)
	v.SetDefault("anomaly.mad_threshold", 3.5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.analyze_per_sec", 2)
	v.SetDefault("server.analyze_burst", 5)
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that threshold configuration is internally consistent.
func Validate(cfg *Config) error {
	var errs []string

	cuts := map[string]float64{
		"images.high_ssim":             cfg.Images.HighSSIM,
		"images.moderate_ssim":         cfg.Images.ModerateSSIM,
		"documents.high_threshold":     cfg.Documents.HighThreshold,
		"documents.moderate_threshold": cfg.Documents.ModerateThreshold,
	}
	for name, c := range cuts {
		if c <= 0 || c > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in (0,1]", name))
		}
	}
	// Correlation is in [-1,1].
	for name, c := range map[string]float64{
		"images.high_correlation":     cfg.Images.HighCorrelation,
		"images.moderate_correlation": cfg.Images.ModerateCorrelation,
	} {
		if c < -1 || c > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in [-1,1]", name))
		}
	}

	if cfg.Images.ModerateCorrelation >= cfg.Images.HighCorrelation {
		errs = append(errs, "images.moderate_correlation must be below images.high_correlation")
	}
	if cfg.Images.ModerateSSIM >= cfg.Images.HighSSIM {
		errs = append(errs, "images.moderate_ssim must be below images.high_ssim")
	}
	if cfg.Documents.ModerateThreshold >= cfg.Documents.HighThreshold {
		errs = append(errs, "documents.moderate_threshold must be below documents.high_threshold")
	}
	if cfg.Store.RunTTLHours <= 0 {
		errs = append(errs, "store.run_ttl_hours must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
