package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vehicle-tax/domain"
	"vehicle-tax/service"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		category string
		cost     string
		age      string
		explain  bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print a tax estimate for one vehicle",
		Example: `  vehicle-tax estimate --category Car --cost 850000 --age 5
  vehicle-tax estimate --category two-wheeler --cost 1,20,000 --age 2 --explain`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := domain.ParseEstimateForm(category, cost, age)
			if err != nil {
				return err
			}

			svc, _, closeCache := a.newTaxService()
			defer closeCache()

			result, err := svc.EstimateTax(cmd.Context(), req, service.EstimateOptions{Explain: explain})
			if err != nil {
				return errors.New(domain.UserMessage(err))
			}
			printEstimate(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(domain.Car), "vehicle category (Car or Motorcycle)")
	cmd.Flags().StringVar(&cost, "cost", "", "original invoice price in INR")
	cmd.Flags().StringVar(&age, "age", "", "age in years since first registration")
	cmd.Flags().BoolVar(&explain, "explain", false, "add a prose explanation")
	_ = cmd.MarkFlagRequired("cost")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func printEstimate(w io.Writer, res domain.EstimateResult) {
	fmt.Fprintf(w, "Estimated lifetime tax: %s\n\n", service.FormatINR(res.EstimatedTax))
	fmt.Fprintln(w, "Calculation breakdown")
	fmt.Fprintln(w, strings.Repeat("-", 21))
	fmt.Fprintln(w, res.BreakdownText)
	if res.Explanation != "" {
		fmt.Fprintf(w, "\n%s\n", res.Explanation)
	}
	fmt.Fprintf(w, "\n%s\n", res.Disclaimer)
}
