package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/store"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage manual actual-count overrides",
	Long:  "An override pins the actual candidate count for a (plan, role, stage) key, superseding the computed occupancy until cleared.",
}

var overrideSetCmd = &cobra.Command{
	Use:   "set <plan-id> <role> <stage> <value>",
	Short: "Set an override",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[3])
		if err != nil || value < 0 {
			return eris.Errorf("value must be a non-negative integer, got %q", args[3])
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetOverride(cmd.Context(), store.Override{
			PlanID: args[0], Role: args[1], StageName: args[2], Value: value,
		}); err != nil {
			return err
		}
		zap.L().Info("override set",
			zap.String("plan_id", args[0]),
			zap.String("role", args[1]),
			zap.String("stage", args[2]),
			zap.Int("value", value),
		)
		return nil
	},
}

var overrideClearCmd = &cobra.Command{
	Use:   "clear <plan-id> <role> <stage>",
	Short: "Clear an override",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		return st.ClearOverride(cmd.Context(), args[0], args[1], args[2])
	},
}

var overrideListCmd = &cobra.Command{
	Use:   "list <plan-id>",
	Short: "List a plan's overrides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		overrides, err := st.ListOverrides(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(overrides)
	},
}

func init() {
	overrideCmd.AddCommand(overrideSetCmd, overrideClearCmd, overrideListCmd)
	rootCmd.AddCommand(overrideCmd)
}
