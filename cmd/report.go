package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tradewatch/ipscreen/internal/model"
	"github.com/tradewatch/ipscreen/internal/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Regenerate the xlsx report for a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		if run.Status != model.RunStatusComplete || run.Result == nil {
			return eris.Errorf("run %s has no result (status: %s)", run.ID, run.Status)
		}

		path, err := report.Write(run.Result, reportOutput, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Report: %s\n", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOutput, "output", ".", "directory for the xlsx report")
	rootCmd.AddCommand(reportCmd)
}
