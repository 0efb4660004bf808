package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/nibel/pkg/errors"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "check [patterns...]",
		Short: "Fail when generated files are out of date",
		Long: `Check runs generation without writing and fails when any declaration is
rejected or any generated file would be written or removed. Use it in CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveConfig()
			if err != nil {
				return err
			}
			r, err := generate(cmd.Context(), res, args, true)
			if err != nil {
				return err
			}
			printDiagnostics(cmd.ErrOrStderr(), res.Root, r.Diagnostics)
			if err := diagnosticsError(r.Diagnostics); err != nil {
				return err
			}
			if r.Report.Changed() {
				for _, path := range r.Report.Written {
					fmt.Fprintf(cmd.ErrOrStderr(), "out of date: %s\n", path)
				}
				for _, path := range r.Report.Removed {
					fmt.Fprintf(cmd.ErrOrStderr(), "stale: %s\n", path)
				}
				return errors.New("nibelgen.check", errors.KindGenerate,
					fmt.Errorf("%d generated file(s) out of date; run nibelgen generate",
						len(r.Report.Written)+len(r.Report.Removed)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "generated files are up to date")
			return nil
		},
	})
}
