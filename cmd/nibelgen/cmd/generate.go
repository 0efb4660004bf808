package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateDryRun bool

func init() {
	generateCmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write entries for marked declarations",
		Long: `Generate loads the packages matching the given patterns (default: the
configured patterns, or ./...) and writes one entry file per marked
declaration plus one discovery file per destination. Files whose content
did not change are left untouched; generated files whose declaration
disappeared are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveConfig()
			if err != nil {
				return err
			}
			r, err := generate(cmd.Context(), res, args, generateDryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range r.Report.Written {
				fmt.Fprintf(out, "wrote %s\n", path)
			}
			for _, path := range r.Report.Removed {
				fmt.Fprintf(out, "removed %s\n", path)
			}
			printDiagnostics(cmd.ErrOrStderr(), res.Root, r.Diagnostics)
			return diagnosticsError(r.Diagnostics)
		},
	}
	generateCmd.Flags().BoolVarP(&generateDryRun, "dry-run", "n", false, "report changes without writing")
	RegisterCommand(generateCmd)
}
