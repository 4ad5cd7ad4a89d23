package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/schedule"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage staffing plans and generate stage schedules",
}

var planCreateFlags struct {
	id     string
	client string
	owner  string
}

var planCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a staffing plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		id := planCreateFlags.id
		if id == "" {
			id = uuid.NewString()
		}
		plan := model.StaffingPlan{
			ID:     id,
			Name:   args[0],
			Client: planCreateFlags.client,
			Owner:  planCreateFlags.owner,
			Status: "active",
		}
		if err := st.CreatePlan(cmd.Context(), plan); err != nil {
			return err
		}
		return printJSON(plan)
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staffing plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		plans, err := st.ListPlans(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(plans)
	},
}

var planRoleFlags struct {
	positions  int
	staffedBy  string
	pipelineID int64
	skills     string
	owner      string
}

var planRoleCmd = &cobra.Command{
	Use:   "role <plan-id> <role>",
	Short: "Add or update a role on a plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		staffedBy, err := model.ParseDate(planRoleFlags.staffedBy)
		if err != nil {
			return model.NewValidation("staffed-by", "must be an ISO date (2006-01-02): %v", err)
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		role := model.PlanRole{
			PlanID:          args[0],
			Role:            args[1],
			Skills:          planRoleFlags.skills,
			TargetPositions: planRoleFlags.positions,
			StaffedByDate:   staffedBy,
			PipelineID:      planRoleFlags.pipelineID,
			Owner:           planRoleFlags.owner,
		}
		if err := st.UpsertPlanRole(cmd.Context(), role); err != nil {
			return err
		}
		return printJSON(role)
	},
}

var generateRole string

var planGenerateCmd = &cobra.Command{
	Use:   "generate <plan-id>",
	Short: "Run the reverse calculator and persist stage schedules",
	Long:  "Walks each role's pipeline backward from its staffed-by date and target headcount, computing how many candidates every stage needs and by when.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		planner := schedule.NewPlanner(st)
		planner.BufferPct = cfg.Schedule.BufferPct

		if generateRole != "" {
			targets, err := planner.Generate(cmd.Context(), args[0], generateRole)
			if err != nil {
				return err
			}
			if targets == nil {
				return printJSON(map[string]string{"warning": "pipeline has no stages configured"})
			}
			return printJSON(targets)
		}

		out, err := planner.GenerateAll(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id> <role>",
	Short: "Show the generated stage schedule for a role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		targets, err := st.GetGeneratedPlan(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if targets == nil {
			return printJSON(map[string]string{"warning": "no generated schedule; run plan generate first"})
		}
		return printJSON(targets)
	},
}

func init() {
	planCreateCmd.Flags().StringVar(&planCreateFlags.id, "id", "", "plan id (default: random uuid)")
	planCreateCmd.Flags().StringVar(&planCreateFlags.client, "client", "", "client name")
	planCreateCmd.Flags().StringVar(&planCreateFlags.owner, "owner", "", "plan owner")

	planRoleCmd.Flags().IntVar(&planRoleFlags.positions, "positions", 1, "target headcount")
	planRoleCmd.Flags().StringVar(&planRoleFlags.staffedBy, "staffed-by", "", "target date (2006-01-02)")
	planRoleCmd.Flags().Int64Var(&planRoleFlags.pipelineID, "pipeline", 0, "pipeline id driving the role")
	planRoleCmd.Flags().StringVar(&planRoleFlags.skills, "skills", "", "required skills")
	planRoleCmd.Flags().StringVar(&planRoleFlags.owner, "owner", "", "role owner")
	planRoleCmd.MarkFlagRequired("staffed-by") //nolint:errcheck
	planRoleCmd.MarkFlagRequired("pipeline")   //nolint:errcheck

	planGenerateCmd.Flags().StringVar(&generateRole, "role", "", "generate a single role (default: all roles)")

	planCmd.AddCommand(planCreateCmd, planListCmd, planRoleCmd, planGenerateCmd, planShowCmd)
	rootCmd.AddCommand(planCmd)
}
