package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradewatch/ipscreen/internal/engine"
	"github.com/tradewatch/ipscreen/internal/model"
	"github.com/tradewatch/ipscreen/internal/report"
)

var (
	analyzeBOM     string
	analyzeImages  []string
	analyzeBrand   string
	analyzeDoc     string
	analyzeDocText string
	analyzeProfile string
	analyzeOutput  string
	analyzeNoStore bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run risk analysis over a BOM, images, and/or listing text",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		runCfg := cfg
		if analyzeProfile != "" {
			p, err := engine.LoadProfile(analyzeProfile)
			if err != nil {
				return err
			}
			runCfg, err = p.Apply(*cfg)
			if err != nil {
				return err
			}
		}

		in := engine.Input{
			BOMPath:    analyzeBOM,
			BrandScope: analyzeBrand,
		}
		for _, path := range analyzeImages {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read image %s", path)
			}
			in.Images = append(in.Images, engine.ImageUpload{Name: filepath.Base(path), Data: data})
		}
		switch {
		case analyzeDocText != "":
			in.DocumentText = analyzeDocText
		case analyzeDoc != "":
			data, err := os.ReadFile(analyzeDoc)
			if err != nil {
				return eris.Wrapf(err, "read document %s", analyzeDoc)
			}
			in.DocumentName = filepath.Base(analyzeDoc)
			in.DocumentText = string(data)
		}
		if in.Empty() {
			return eris.New("nothing to analyze: pass --bom, --image, or --doc/--doc-text")
		}

		var rs *model.ResultSet
		if analyzeNoStore {
			var err error
			rs, err = engine.New(runCfg, nil).Analyze(ctx, in)
			if err != nil {
				return err
			}
		} else {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}

			run, err := engine.New(runCfg, st).Run(ctx, in)
			if err != nil {
				return err
			}
			rs = run.Result
			fmt.Printf("Run ID: %s\n", run.ID)
		}

		path, err := report.Write(rs, analyzeOutput, time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Findings: %d (%d cross-validated)\n", rs.Total(), len(rs.Cross))
		fmt.Printf("Report: %s\n", path)
		zap.L().Info("analyze complete", zap.String("report", path))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeBOM, "bom", "", "path to BOM CSV file")
	analyzeCmd.Flags().StringSliceVar(&analyzeImages, "image", nil, "product image file (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeBrand, "brand", "all", "brand folder to compare images against")
	analyzeCmd.Flags().StringVar(&analyzeDoc, "doc", "", "path to listing text file")
	analyzeCmd.Flags().StringVar(&analyzeDocText, "doc-text", "", "listing text inline")
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "threshold profile YAML file")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", ".", "directory for the xlsx report")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "skip persisting the run")
	rootCmd.AddCommand(analyzeCmd)
}
