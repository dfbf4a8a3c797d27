package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/spf13/cobra"
)

func newQuoteCmd(a *app) *cobra.Command {
	var (
		team   int
		cycle  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a team size",
		Example: `  sitectl quote --team 8
  sitectl quote --team 5 --cycle yearly --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			billing, err := pricing.ParseBillingCycle(cycle)
			if err != nil {
				return err
			}

			svc := pricing.NewService(a.engine)
			quote, err := svc.Quote(cmd.Context(), pricing.Query{TeamCount: team, BillingCycle: billing})
			if err != nil {
				return fmt.Errorf("failed to quote: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(quote)
			}
			printQuote(out, quote)
			return nil
		},
	}

	cmd.Flags().IntVar(&team, "team", 1, "team size")
	cmd.Flags().StringVar(&cycle, "cycle", string(pricing.Monthly), "billing cycle: monthly or yearly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the quote as JSON")
	return cmd
}

func printQuote(w io.Writer, q *pricing.Quote) {
	res := q.Result
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%d seats, billed %s", res.TeamCount, res.BillingCycle)))

	if res.ContactSales {
		fmt.Fprintf(w, "%s %s\n", badgeStyle.Render(res.Plan.Name), "Contact sales for a custom quote")
		return
	}

	suffix := pricing.CycleSuffix(res.BillingCycle)
	fmt.Fprintf(w, "%s %s%s (%s/mo per user)\n",
		badgeStyle.Render(res.Plan.Name),
		priceStyle.Render(pricing.FormatAmount(res.TotalPrice)), suffix,
		pricing.FormatAmount(res.PricePerUser),
	)
	if res.BillingCycle == pricing.Yearly {
		fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("%s/mo equivalent, you save %s",
			pricing.FormatAmount(res.MonthlyEquivalent), pricing.FormatAmount(res.YearlySavings))))
	}

	fmt.Fprintln(w)
	for _, p := range q.Plans {
		marker := " "
		if p.Recommended {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-8s %10s%s\n", marker, p.Plan.Name, pricing.FormatAmount(p.TotalPrice), suffix)
	}
}
