// Package engine orchestrates the detectors, cross-validation, and run
// persistence behind a single analysis entry point.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tradewatch/ipscreen/internal/anomaly"
	"github.com/tradewatch/ipscreen/internal/bom"
	"github.com/tradewatch/ipscreen/internal/catalog"
	"github.com/tradewatch/ipscreen/internal/config"
	"github.com/tradewatch/ipscreen/internal/crossval"
	"github.com/tradewatch/ipscreen/internal/docsim"
	"github.com/tradewatch/ipscreen/internal/imagesim"
	"github.com/tradewatch/ipscreen/internal/model"
	"github.com/tradewatch/ipscreen/internal/store"
)

// ImageUpload is a product image submitted for comparison.
type ImageUpload struct {
	Name string
	Data []byte
}

// Input collects everything a single analysis can act on. All sections are
// optional; detectors without input are skipped.
type Input struct {
	BOMPath      string
	Images       []ImageUpload
	BrandScope   string // brand folder to compare against, or "all"
	DocumentName string
	DocumentText string
}

// Empty reports whether the input would exercise no detector.
func (in Input) Empty() bool {
	return in.BOMPath == "" && len(in.Images) == 0 && in.DocumentText == ""
}

// Subject names the run after its primary input.
func (in Input) Subject() string {
	switch {
	case in.BOMPath != "":
		return filepath.Base(in.BOMPath)
	case len(in.Images) > 0:
		return in.Images[0].Name
	case in.DocumentName != "":
		return in.DocumentName
	default:
		return "document"
	}
}

// Analyzer runs the full classification pipeline.
type Analyzer struct {
	cfg   *config.Config
	store store.Store
}

// New returns an analyzer. The store may be nil when results are not persisted.
func New(cfg *config.Config, st store.Store) *Analyzer {
	return &Analyzer{cfg: cfg, store: st}
}

// Analyze runs every detector the input provides data for, cross-validates
// the findings, and returns the consolidated result set.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*model.ResultSet, error) {
	if in.Empty() {
		return nil, eris.New("engine: no input provided")
	}

	rs := model.NewResultSet()

	if in.BOMPath != "" {
		a.analyzeBOM(rs, in.BOMPath)
	}
	if len(in.Images) > 0 {
		a.analyzeImages(ctx, rs, in)
	}
	if in.DocumentText != "" {
		a.analyzeDocument(ctx, rs, in)
	}

	crossed := crossval.Consolidate(rs)
	zap.L().Info("analysis complete",
		zap.String("subject", in.Subject()),
		zap.Int("findings", rs.Total()),
		zap.Int("cross_validated", crossed),
	)
	return rs, nil
}

// Run persists the analysis as a stored run and returns it.
func (a *Analyzer) Run(ctx context.Context, in Input) (*model.Run, error) {
	if a.store == nil {
		return nil, eris.New("engine: no store configured")
	}

	ttl := time.Duration(a.cfg.Store.RunTTLHours) * time.Hour
	run, err := a.store.CreateRun(ctx, in.Subject(), ttl)
	if err != nil {
		return nil, err
	}
	if err := a.store.UpdateRunStatus(ctx, run.ID, model.RunStatusAnalyzing); err != nil {
		return nil, err
	}

	rs, err := a.Analyze(ctx, in)
	if err != nil {
		if failErr := a.store.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(failErr))
		}
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		return run, err
	}

	if err := a.store.SetRunResult(ctx, run.ID, rs); err != nil {
		return nil, err
	}
	run.Status = model.RunStatusComplete
	run.Result = rs
	return run, nil
}

// analyzeBOM degrades to zero findings when the BOM file cannot be read or
// parsed; the other detectors' results from the same request still stand.
func (a *Analyzer) analyzeBOM(rs *model.ResultSet, path string) {
	items, err := bom.Parse(path)
	if err != nil {
		zap.L().Warn("bom file unreadable", zap.String("path", path), zap.Error(err))
		return
	}

	export, err := catalog.LoadExport(a.cfg.Catalog.ExportPath)
	if err != nil {
		zap.L().Warn("export catalog unavailable", zap.String("path", a.cfg.Catalog.ExportPath), zap.Error(err))
		export = nil
	}

	rs.AddAll(bom.Classify(items, export))
	a.scoreShipmentVolumes(rs, items)
}

// scoreShipmentVolumes appends an advisory Low finding for each volume-complete
// item whose shipment volume is an outlier against the market rows. Skipped
// entirely when no market data is configured.
func (a *Analyzer) scoreShipmentVolumes(rs *model.ResultSet, items []bom.Item) {
	if a.cfg.Catalog.MarketDataPath == "" {
		return
	}
	market, err := anomaly.LoadMarket(a.cfg.Catalog.MarketDataPath)
	if err != nil {
		zap.L().Warn("market data unavailable", zap.String("path", a.cfg.Catalog.MarketDataPath), zap.Error(err))
		return
	}

	for _, item := range items {
		if !item.VolumeComplete {
			continue
		}
		result := anomaly.Score(market, anomaly.Point{
			Quantity:      item.Quantity,
			NetWeightKg:   item.NetWeightKg,
			TotalValueUSD: item.TotalValueUSD,
		}, a.cfg.Anomaly)
		if result == nil || !result.Anomalous {
			continue
		}
		f := model.NewFinding(model.TypeBOM, model.RiskLow, item.Category, item.Product)
		f.Company = item.Company
		f.Explanation = fmt.Sprintf("Shipment volume is an outlier against market data (risk score %.2f).", result.RiskScore)
		rs.Add(f)
	}
}

// analyzeImages degrades to zero findings when the brand corpus cannot be
// read; an unreadable corpus must not suppress the other detectors' results.
func (a *Analyzer) analyzeImages(ctx context.Context, rs *model.ResultSet, in Input) {
	candidates, err := imagesim.LoadCorpus(a.cfg.Images.BrandDir, in.BrandScope)
	if err != nil {
		zap.L().Warn("brand corpus unavailable",
			zap.String("dir", a.cfg.Images.BrandDir), zap.Error(err))
		return
	}

	detector := imagesim.NewDetector(a.cfg.Images)
	for _, upload := range in.Images {
		rs.AddAll(detector.Classify(ctx, upload.Name, upload.Data, candidates))
	}
}

// analyzeDocument degrades to zero findings when the reference descriptions
// or the provider are unavailable; detector failures never abort the run.
func (a *Analyzer) analyzeDocument(ctx context.Context, rs *model.ResultSet, in Input) {
	refs, err := catalog.LoadDescriptions(a.cfg.Catalog.DescriptionsPath)
	if err != nil {
		zap.L().Warn("reference descriptions unavailable",
			zap.String("path", a.cfg.Catalog.DescriptionsPath), zap.Error(err))
		return
	}

	provider := docsim.NewTFIDFProvider(refs)
	scores, err := provider.Rank(ctx, in.DocumentText, a.cfg.Documents.TopN)
	if err != nil {
		zap.L().Warn("document ranking failed", zap.Error(err))
		return
	}

	subject := in.DocumentName
	if subject == "" {
		subject = "document"
	}
	detector := docsim.NewDetector(a.cfg.Documents)
	rs.AddAll(detector.Classify(subject, scores))
}
