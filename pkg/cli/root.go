// Package cli implements the sitectl command tree.
package cli

import (
	"fmt"

	"github.com/jordanlanch/landing/config"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand, filled in PersistentPreRunE.
type app struct {
	cfg          *config.Config
	engine       *pricing.Engine
	maxTeamCount int
}

// NewRootCmd builds the sitectl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sitectl",
		Short: "Landing site tooling: quotes, plans, price sheets and widget preview",
		Long: `sitectl prices team sizes against the plan catalog, exports the sales
price sheet and previews the animated landing page widgets in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if !cmd.Flags().Changed("max-team") {
				a.maxTeamCount = a.cfg.PricingMaxTeamCount
			}

			engine, err := pricing.NewEngine(pricing.DefaultCatalog(), a.maxTeamCount)
			if err != nil {
				return fmt.Errorf("failed to build pricing engine: %w", err)
			}
			a.engine = engine
			return nil
		},
	}

	root.PersistentFlags().IntVar(&a.maxTeamCount, "max-team", pricing.DefaultMaxTeamCount, "largest team size quoted automatically (default from PRICING_MAX_TEAM_COUNT)")

	root.AddCommand(
		newQuoteCmd(a),
		newPlansCmd(a),
		newSheetCmd(a),
		newPreviewCmd(a),
	)
	return root
}
