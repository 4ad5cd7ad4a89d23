package main

import (
	"github.com/spf13/cobra"

	"github.com/greyamp/alignops/internal/ingest"
	"github.com/greyamp/alignops/internal/store"
)

var candidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Import and inspect candidate records",
}

var importFlags struct {
	sheet    string
	skipRows int
}

var candidateImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Bulk-import candidates from a spreadsheet export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		sheet := importFlags.sheet
		if sheet == "" {
			sheet = cfg.Import.Sheet
		}
		skipRows := importFlags.skipRows
		if skipRows == 0 {
			skipRows = cfg.Import.SkipRows
		}
		records, err := ingest.ReadCandidates(args[0], ingest.XLSXOptions{
			SheetName: sheet,
			SkipRows:  skipRows,
		})
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		im := ingest.NewImporter(st)
		im.BatchSize = cfg.Import.BatchSize
		res, err := im.Import(cmd.Context(), records)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var candidateListFlags store.CandidateFilter

var candidateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		cands, err := st.ListCandidates(cmd.Context(), candidateListFlags)
		if err != nil {
			return err
		}
		return printJSON(cands)
	},
}

func init() {
	candidateImportCmd.Flags().StringVar(&importFlags.sheet, "sheet", "", "sheet name (default: first sheet)")
	candidateImportCmd.Flags().IntVar(&importFlags.skipRows, "skip-rows", 0, "header rows to skip")

	candidateListCmd.Flags().StringVar(&candidateListFlags.Client, "client", "", "filter by client")
	candidateListCmd.Flags().StringVar(&candidateListFlags.Plan, "plan", "", "filter by staffing plan")
	candidateListCmd.Flags().StringVar(&candidateListFlags.Role, "role", "", "filter by role")
	candidateListCmd.Flags().StringVar(&candidateListFlags.Owner, "owner", "", "filter by owner")
	candidateListCmd.Flags().StringVar(&candidateListFlags.Status, "status", "", "filter by status")
	candidateListCmd.Flags().IntVar(&candidateListFlags.Limit, "limit", 0, "max rows")

	candidateCmd.AddCommand(candidateImportCmd, candidateListCmd)
	rootCmd.AddCommand(candidateCmd)
}
