package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/pipeline"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Manage pipelines and their stage definitions",
}

var pipelineCreateFlags struct {
	client      string
	description string
}

var pipelineCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := pipeline.NewService(st).CreatePipeline(cmd.Context(),
			args[0], pipelineCreateFlags.client, pipelineCreateFlags.description)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"id": id, "name": args[0]})
	},
}

var pipelineListAll bool

var pipelineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipelines",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		pipelines, err := st.ListPipelines(cmd.Context(), pipelineListAll)
		if err != nil {
			return err
		}
		return printJSON(pipelines)
	},
}

var pipelineShowSpecial bool

var pipelineShowCmd = &cobra.Command{
	Use:   "show <pipeline-id>",
	Short: "Show a pipeline and its stages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.GetPipeline(cmd.Context(), id)
		if err != nil {
			return err
		}
		stages, err := st.ListStages(cmd.Context(), id, pipelineShowSpecial)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"pipeline": p, "stages": stages})
	},
}

var pipelineDeactivateCmd = &cobra.Command{
	Use:   "deactivate <pipeline-id>",
	Short: "Soft-delete a pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		return pipeline.NewService(st).Deactivate(cmd.Context(), id)
	},
}

var pipelineImportCmd = &cobra.Command{
	Use:   "import <template.yaml>",
	Short: "Create pipelines from a YAML template file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		templates, err := pipeline.ParseTemplates(data)
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		svc := pipeline.NewService(st)
		created := make(map[string]int64, len(templates))
		for _, tmpl := range templates {
			id, err := svc.Import(cmd.Context(), tmpl)
			if err != nil {
				return err
			}
			created[tmpl.Name] = id
		}
		return printJSON(created)
	},
}

var stageFlags struct {
	order        int
	conversion   float64
	tatDays      int
	special      bool
	mapsToStatus string
	flag         string
}

func stageInput(name string) pipeline.StageInput {
	return pipeline.StageInput{
		Name:           name,
		Order:          model.StageOrder(stageFlags.order),
		ConversionRate: stageFlags.conversion,
		TATDays:        stageFlags.tatDays,
		IsSpecial:      stageFlags.special,
		MapsToStatus:   stageFlags.mapsToStatus,
		Flag:           model.StatusFlag(stageFlags.flag),
	}
}

func addStageFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&stageFlags.order, "order", int(model.OrderAny), "stage position (omit for special stages)")
	cmd.Flags().Float64Var(&stageFlags.conversion, "conversion", 0, "conversion rate percent (0-100)")
	cmd.Flags().IntVar(&stageFlags.tatDays, "tat", 0, "turnaround time in days")
	cmd.Flags().BoolVar(&stageFlags.special, "special", false, "terminal/suspended stage (Rejected, On-Hold)")
	cmd.Flags().StringVar(&stageFlags.mapsToStatus, "maps-to", "", "external candidate status mapped to this stage")
	cmd.Flags().StringVar(&stageFlags.flag, "flag", "", "status owner flag: Greyamp, Client or Both")
}

var stageAddCmd = &cobra.Command{
	Use:   "stage-add <pipeline-id> <name>",
	Short: "Add a stage to a pipeline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeID, err := parseID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := pipeline.NewService(st).AddStage(cmd.Context(), pipeID, stageInput(args[1]))
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"id": id, "name": args[1]})
	},
}

var stageUpdateCmd = &cobra.Command{
	Use:   "stage-update <stage-id> <name>",
	Short: "Rewrite a stage definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stageID, err := parseID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		return pipeline.NewService(st).UpdateStage(cmd.Context(), stageID, stageInput(args[1]))
	},
}

var stageDeleteCmd = &cobra.Command{
	Use:   "stage-delete <stage-id>",
	Short: "Remove a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stageID, err := parseID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		return pipeline.NewService(st).DeleteStage(cmd.Context(), stageID)
	},
}

func init() {
	pipelineCreateCmd.Flags().StringVar(&pipelineCreateFlags.client, "client", "", "client reference (empty for internal pipelines)")
	pipelineCreateCmd.Flags().StringVar(&pipelineCreateFlags.description, "description", "", "pipeline description")
	pipelineListCmd.Flags().BoolVar(&pipelineListAll, "all", false, "include deactivated pipelines")
	pipelineShowCmd.Flags().BoolVar(&pipelineShowSpecial, "special", true, "include special stages")
	addStageFlags(stageAddCmd)
	addStageFlags(stageUpdateCmd)

	pipelineCmd.AddCommand(pipelineCreateCmd, pipelineListCmd, pipelineShowCmd,
		pipelineDeactivateCmd, pipelineImportCmd, stageAddCmd, stageUpdateCmd, stageDeleteCmd)
	rootCmd.AddCommand(pipelineCmd)
}
