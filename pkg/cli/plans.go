package cli

import (
	"fmt"
	"strings"

	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/spf13/cobra"
)

func newPlansCmd(a *app) *cobra.Command {
	var includeFree bool

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List the plan catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans := []pricing.Plan(a.engine.Catalog())
			if includeFree {
				plans = append([]pricing.Plan{pricing.FreePlan()}, plans...)
			}

			out := cmd.OutOrStdout()
			for _, p := range plans {
				seats := "unlimited seats"
				if !p.IsUnbounded() {
					seats = fmt.Sprintf("up to %d seats", p.MaxTeamMembers)
				}
				fmt.Fprintf(out, "%s %s/mo + %s/user, %s\n",
					badgeStyle.Render(p.Name),
					pricing.FormatAmount(p.BasePrice),
					pricing.FormatAmount(p.AdditionalUserPrice),
					seats,
				)
				fmt.Fprintf(out, "  %s\n", dimStyle.Render(p.Description))
				fmt.Fprintf(out, "  %s\n", strings.Join(p.Features, " · "))
			}
			fmt.Fprintf(out, "\nYearly billing saves %d%%. Teams above %d seats: contact sales.\n",
				pricing.YearlyDiscountPercent, a.engine.MaxTeamCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeFree, "free", false, "include the free comparison plan")
	return cmd
}
