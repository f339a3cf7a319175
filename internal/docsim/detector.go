package docsim

import (
	"fmt"

	"github.com/tradewatch/ipscreen/internal/config"
	"github.com/tradewatch/ipscreen/internal/model"
)

// Detector applies the document risk thresholds to provider scores. The
// similarity computation itself is the provider's concern; only the
// threshold policy lives here.
type Detector struct {
	cfg config.DocumentsConfig
}

// NewDetector creates a Detector with the given threshold configuration.
func NewDetector(cfg config.DocumentsConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Classify converts ranked scores into findings. Both cuts are strict, like
// the image detector's: a score exactly at a threshold stays in the lower
// tier. Low-scoring references yield no finding; an empty score list yields
// zero findings, never an error.
func (d *Detector) Classify(subject string, scores []Score) []model.Finding {
	var findings []model.Finding
	for _, s := range scores {
		var level model.RiskLevel
		switch {
		case s.Score > d.cfg.HighThreshold:
			level = model.RiskHigh
		case s.Score > d.cfg.ModerateThreshold:
			level = model.RiskModerate
		default:
			continue
		}
		f := model.NewFinding(model.TypeDocument, level, s.Category, subject)
		f.Evidence = s.RefID
		f.Explanation = fmt.Sprintf("%s textual similarity to %s (Score: %.2f)", level, s.RefID, s.Score)
		findings = append(findings, f)
	}
	return findings
}
