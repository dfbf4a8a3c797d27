package cli

import (
	"fmt"
	"os"

	"github.com/jordanlanch/landing/pkg/export"
	"github.com/spf13/cobra"
)

func newSheetCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Export the sales price sheet",
		Example: `  sitectl sheet > prices.csv
  sitectl sheet --format xlsx -o prices.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			rows, err := export.BuildSheet(a.engine)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), f, rows)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			defer file.Close()

			if err := export.Write(file, f, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", len(rows), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
