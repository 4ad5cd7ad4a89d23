package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/greyamp/alignops/internal/cycletime"
	"github.com/greyamp/alignops/internal/store"
)

var cycletimeCmd = &cobra.Command{
	Use:   "cycletime",
	Short: "Stage transition and wait-time analysis",
}

var cycletimePipeline int64

var cycletimeTransitionsCmd = &cobra.Command{
	Use:   "transitions",
	Short: "Average and median days per stage transition",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		stages, err := st.ListStages(cmd.Context(), cycletimePipeline, true)
		if err != nil {
			return err
		}
		history, err := st.ListAllStatusHistory(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cycletime.New(stages).Transitions(history))
	},
}

var cycletimeBottlenecksCmd = &cobra.Command{
	Use:   "bottlenecks",
	Short: "Rank stages by how long active candidates have been waiting",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		stages, err := st.ListStages(cmd.Context(), cycletimePipeline, true)
		if err != nil {
			return err
		}
		cands, err := st.ListCandidates(cmd.Context(), store.CandidateFilter{})
		if err != nil {
			return err
		}

		analyzer := cycletime.New(stages)
		waits := analyzer.WaitTimes(cands, time.Now().UTC())
		return printJSON(analyzer.Bottlenecks(waits))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{cycletimeTransitionsCmd, cycletimeBottlenecksCmd} {
		cmd.Flags().Int64Var(&cycletimePipeline, "pipeline", 0, "pipeline id defining the stages")
		cmd.MarkFlagRequired("pipeline") //nolint:errcheck
		cycletimeCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(cycletimeCmd)
}
