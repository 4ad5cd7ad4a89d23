package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/report"
	"github.com/greyamp/alignops/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Plan health and funnel performance reports",
}

var reportAsOf string

// reportDate resolves the --as-of flag, defaulting to today.
func reportDate() (model.Date, error) {
	if reportAsOf == "" {
		return model.NewDate(time.Now().UTC()), nil
	}
	return model.ParseDate(reportAsOf)
}

var reportRoleCmd = &cobra.Command{
	Use:   "role <plan-id> <role>",
	Short: "Health report for one plan role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := reportDate()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		rr, err := report.NewBuilder(st).RoleReport(cmd.Context(), args[0], args[1], today)
		if err != nil {
			return err
		}
		return printJSON(rr)
	},
}

var reportPlanCmd = &cobra.Command{
	Use:   "plan <plan-id>",
	Short: "Health report for every role of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := reportDate()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := report.NewBuilder(st).PlanReport(cmd.Context(), args[0], today)
		if err != nil {
			return err
		}
		return printJSON(reports)
	},
}

var reportSummaryPipeline int64

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Funnel-wide performance summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		stages, err := st.ListStages(cmd.Context(), reportSummaryPipeline, true)
		if err != nil {
			return err
		}
		cands, err := st.ListCandidates(cmd.Context(), store.CandidateFilter{})
		if err != nil {
			return err
		}
		return printJSON(report.Summarize(stages, cands, time.Now().UTC()))
	},
}

var reportExportFlags struct {
	out      string
	pipeline int64
}

var reportExportCmd = &cobra.Command{
	Use:   "export <plan-id>",
	Short: "Export a plan's health report as an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		today, err := reportDate()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := report.NewBuilder(st).PlanReport(cmd.Context(), args[0], today)
		if err != nil {
			return err
		}

		var summary *report.PerformanceSummary
		if reportExportFlags.pipeline != 0 {
			stages, err := st.ListStages(cmd.Context(), reportExportFlags.pipeline, true)
			if err != nil {
				return err
			}
			cands, err := st.ListCandidates(cmd.Context(), store.CandidateFilter{})
			if err != nil {
				return err
			}
			s := report.Summarize(stages, cands, time.Now().UTC())
			summary = &s
		}

		if err := report.WriteWorkbook(reportExportFlags.out, reports, summary); err != nil {
			return err
		}
		zap.L().Info("report exported",
			zap.String("plan_id", args[0]),
			zap.String("path", reportExportFlags.out),
			zap.Int("roles", len(reports)),
		)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{reportRoleCmd, reportPlanCmd, reportExportCmd} {
		cmd.Flags().StringVar(&reportAsOf, "as-of", "", "grade against this date instead of today (2006-01-02)")
	}
	reportSummaryCmd.Flags().Int64Var(&reportSummaryPipeline, "pipeline", 0, "pipeline id defining the stages")
	reportSummaryCmd.MarkFlagRequired("pipeline") //nolint:errcheck

	reportExportCmd.Flags().StringVar(&reportExportFlags.out, "out", "alignops-report.xlsx", "output path")
	reportExportCmd.Flags().Int64Var(&reportExportFlags.pipeline, "pipeline", 0, "include a summary sheet for this pipeline")

	reportCmd.AddCommand(reportRoleCmd, reportPlanCmd, reportSummaryCmd, reportExportCmd)
	rootCmd.AddCommand(reportCmd)
}
