package imagesim

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Decoders for the corpus formats.
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tradewatch/ipscreen/internal/config"
	"github.com/tradewatch/ipscreen/internal/model"
)

// Detector classifies an uploaded image against brand reference candidates.
type Detector struct {
	cfg config.ImagesConfig
}

// NewDetector creates a Detector with the given thresholds.
func NewDetector(cfg config.ImagesConfig) *Detector {
	return &Detector{cfg: cfg}
}

// comparison holds one candidate's scores, kept in candidate order so that
// emission is deterministic regardless of comparison scheduling.
type comparison struct {
	candidate   Candidate
	correlation float64
	ssim        float64
	ok          bool
}

// Classify compares the uploaded image bytes against every candidate and
// returns one finding per non-Low candidate. If no candidate scores above
// Low, exactly one synthetic Low finding is returned. An undecodable upload
// or candidate degrades to no comparison rather than an error.
func (d *Detector) Classify(ctx context.Context, uploadedName string, uploaded []byte, candidates []Candidate) []model.Finding {
	uploadedImg, _, err := image.Decode(bytes.NewReader(uploaded))
	if err != nil {
		zap.L().Warn("imagesim: uploaded image not decodable",
			zap.String("file", uploadedName),
			zap.Error(err),
		)
		return nil
	}

	uploadedHist := ComputeHistogram(uploadedImg)
	subject := displayName(uploadedName)

	results := make([]comparison, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	limit := d.cfg.MaxParallel
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, cand := range candidates {
		g.Go(func() error {
			img, _, err := image.Decode(bytes.NewReader(cand.Data))
			if err != nil {
				// Malformed reference images are excluded silently.
				zap.L().Debug("imagesim: skipping undecodable candidate",
					zap.String("brand", cand.Brand),
					zap.String("file", cand.Name),
				)
				return nil
			}
			results[i] = comparison{
				candidate:   cand,
				correlation: Correlation(uploadedHist, ComputeHistogram(img)),
				ssim:        SSIM(uploadedImg, img),
				ok:          true,
			}
			return nil
		})
	}
	// Workers only record into their own slot; the error is always nil.
	_ = g.Wait()

	var findings []model.Finding
	for _, r := range results {
		if !r.ok {
			continue
		}
		level := d.classify(r.correlation, r.ssim)
		if level == model.RiskLow {
			continue
		}
		f := model.NewFinding(model.TypeImage, level, r.candidate.Brand, subject)
		f.Company = displayName(r.candidate.Name)
		f.Evidence = r.candidate.Name
		f.Explanation = fmt.Sprintf("%s visual similarity (Correlation: %.2f, SSIM: %.2f)",
			level, r.correlation, r.ssim)
		findings = append(findings, f)
	}

	if len(findings) == 0 {
		f := model.NewFinding(model.TypeImage, model.RiskLow, "", subject)
		f.Explanation = "No significant visual similarity."
		findings = append(findings, f)
	}
	return findings
}

// classify applies the two-tier thresholds. Both cuts are strict: a score
// exactly at a threshold stays in the lower tier.
func (d *Detector) classify(correlation, ssim float64) model.RiskLevel {
	switch {
	case correlation > d.cfg.HighCorrelation || ssim > d.cfg.HighSSIM:
		return model.RiskHigh
	case correlation > d.cfg.ModerateCorrelation || ssim > d.cfg.ModerateSSIM:
		return model.RiskModerate
	default:
		return model.RiskLow
	}
}

// displayName strips the extension and replaces underscores for display.
func displayName(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.TrimSpace(strings.ReplaceAll(stem, "_", " "))
}
