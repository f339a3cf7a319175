package engine

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/tradewatch/ipscreen/internal/config"
)

// Profile holds per-run threshold overrides loaded from a YAML file.
// Only the fields present in the file are applied.
type Profile struct {
	Images    ImagesProfile    `yaml:"images"`
	Documents DocumentsProfile `yaml:"documents"`
	Anomaly   AnomalyProfile   `yaml:"anomaly"`
}

// ImagesProfile overrides image detector thresholds.
type ImagesProfile struct {
	HighCorrelation     *float64 `yaml:"high_correlation"`
	HighSSIM            *float64 `yaml:"high_ssim"`
	ModerateCorrelation *float64 `yaml:"moderate_correlation"`
	ModerateSSIM        *float64 `yaml:"moderate_ssim"`
}

// DocumentsProfile overrides document detector thresholds.
type DocumentsProfile struct {
	HighThreshold     *float64 `yaml:"high_threshold"`
	ModerateThreshold *float64 `yaml:"moderate_threshold"`
	TopN              *int     `yaml:"top_n"`
}

// AnomalyProfile overrides shipment outlier parameters.
type AnomalyProfile struct {
	MinMarketRows *int     `yaml:"min_market_rows"`
	MADThreshold  *float64 `yaml:"mad_threshold"`
}

// LoadProfile reads a threshold profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "engine: read profile %s", path)
	}

	// The YAML has a top-level "profile" key.
	var wrapper struct {
		Profile Profile `yaml:"profile"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "engine: parse profile")
	}
	return &wrapper.Profile, nil
}

// Apply overlays the profile onto a copy of cfg and validates the result.
func (p *Profile) Apply(cfg config.Config) (*config.Config, error) {
	if v := p.Images.HighCorrelation; v != nil {
		cfg.Images.HighCorrelation = *v
	}
	if v := p.Images.HighSSIM; v != nil {
		cfg.Images.HighSSIM = *v
	}
	if v := p.Images.ModerateCorrelation; v != nil {
		cfg.Images.ModerateCorrelation = *v
	}
	if v := p.Images.ModerateSSIM; v != nil {
		cfg.Images.ModerateSSIM = *v
	}
	if v := p.Documents.HighThreshold; v != nil {
		cfg.Documents.HighThreshold = *v
	}
	if v := p.Documents.ModerateThreshold; v != nil {
		cfg.Documents.ModerateThreshold = *v
	}
	if v := p.Documents.TopN; v != nil {
		cfg.Documents.TopN = *v
	}
	if v := p.Anomaly.MinMarketRows; v != nil {
		cfg.Anomaly.MinMarketRows = *v
	}
	if v := p.Anomaly.MADThreshold; v != nil {
		cfg.Anomaly.MADThreshold = *v
	}

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
