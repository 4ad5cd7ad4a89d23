package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/greyamp/alignops/internal/funnel"
	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

var funnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Count live candidates against pipeline stages",
}

var funnelFlags struct {
	client     string
	plan       string
	role       string
	owner      string
	pipelineID int64
	cumulative bool
	planID     string
}

func addFunnelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&funnelFlags.client, "client", "", "client name")
	cmd.Flags().StringVar(&funnelFlags.plan, "plan", "", "staffing plan name")
	cmd.Flags().StringVar(&funnelFlags.role, "role", "", "role title")
	cmd.Flags().StringVar(&funnelFlags.owner, "owner", "", "plan owner, for the owner match tier")
	cmd.Flags().Int64Var(&funnelFlags.pipelineID, "pipeline", 0, "pipeline id defining the stages")
	cmd.MarkFlagRequired("client")   //nolint:errcheck
	cmd.MarkFlagRequired("role")     //nolint:errcheck
	cmd.MarkFlagRequired("pipeline") //nolint:errcheck
}

// loadFunnel builds an aggregator and the candidate set for the flagged
// client.
func loadFunnel(ctx context.Context, st store.Store) (*funnel.Aggregator, []model.CandidateRecord, error) {
	stages, err := st.ListStages(ctx, funnelFlags.pipelineID, true)
	if err != nil {
		return nil, nil, err
	}
	cands, err := st.ListCandidates(ctx, store.CandidateFilter{Client: funnelFlags.client})
	if err != nil {
		return nil, nil, err
	}
	return funnel.NewAggregator(stages), cands, nil
}

func funnelQuery() funnel.Query {
	return funnel.Query{
		Client:    funnelFlags.client,
		Plan:      funnelFlags.plan,
		Role:      funnelFlags.role,
		PlanOwner: funnelFlags.owner,
	}
}

var funnelCountCmd = &cobra.Command{
	Use:   "count <stage>",
	Short: "Count candidates at a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		agg, cands, err := loadFunnel(cmd.Context(), st)
		if err != nil {
			return err
		}

		var override *int
		if funnelFlags.planID != "" {
			override, err = st.GetOverride(cmd.Context(), funnelFlags.planID, funnelFlags.role, args[0])
			if err != nil {
				return err
			}
		}

		occ := agg.CountAtStage(cands, funnelQuery(), args[0], funnelFlags.cumulative, override)
		return printJSON(occ)
	},
}

var funnelExitedCmd = &cobra.Command{
	Use:   "exited",
	Short: "Count candidates that left the funnel permanently",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		agg, cands, err := loadFunnel(cmd.Context(), st)
		if err != nil {
			return err
		}
		return printJSON(agg.ExitedCount(cands, funnelQuery()))
	},
}

var funnelQualityPipeline int64

var funnelQualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Report candidate data mapping gaps for a pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		stages, err := st.ListStages(cmd.Context(), funnelQualityPipeline, true)
		if err != nil {
			return err
		}
		cands, err := st.ListCandidates(cmd.Context(), store.CandidateFilter{})
		if err != nil {
			return err
		}
		return printJSON(funnel.NewAggregator(stages).Quality(cands))
	},
}

func init() {
	addFunnelFlags(funnelCountCmd)
	addFunnelFlags(funnelExitedCmd)
	funnelCountCmd.Flags().BoolVar(&funnelFlags.cumulative, "cumulative", true, "count the stage and everything past it")
	funnelCountCmd.Flags().StringVar(&funnelFlags.planID, "plan-id", "", "plan id, to apply manual overrides")

	funnelQualityCmd.Flags().Int64Var(&funnelQualityPipeline, "pipeline", 0, "pipeline id defining the stages")
	funnelQualityCmd.MarkFlagRequired("pipeline") //nolint:errcheck

	funnelCmd.AddCommand(funnelCountCmd, funnelExitedCmd, funnelQualityCmd)
	rootCmd.AddCommand(funnelCmd)
}
