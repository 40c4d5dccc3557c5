package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExampleCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example quote file",
		Long:  "Writes a commented example quote YAML file to use as a starting point.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.WriteFile(outFile, []byte(exampleQuoteFile), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			fmt.Printf("Example quote file written to %s\n", outFile)
			fmt.Println("Edit it and run: loan-quoter quote -i", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "example_quotes.yaml", "output path for the example file")
	return cmd
}

const exampleQuoteFile = `# Example quote file.
#
# Currency and percentage fields accept formatted values ("£1,250,000",
# "75%"). Omit market_rates to pick up STANDARD_BBR / STRESS_BBR /
# CURRENT_MVR from the environment or a local .env file.

market_rates:
  standard_bbr: 0.0425
  stress_bbr: 0.0525
  current_mvr: 0.0860

rate_table:
  - product_code: BTL-5Y-75
    rate: 5.99
    min_loan: 150000
    max_loan: 2000000
    min_ltv: 0
    max_ltv: 75
    min_icr: 125
    term_months: 24
    min_rolled_months: 0
    max_rolled_months: 9
    min_defer_int: 0
    max_defer_int: 1.5
    product_fee: 2
    admin_fee: 150
    erc_1: 4
    erc_2: 3
    erc_3: 2
    revert_index: BBR
    revert_margin: 4.59

btl_quotes:
  - col_key: Q1
    product_code: BTL-5Y-75
    property_value: "£500,000"
    monthly_rent: "£3,000"
    loan_type: max ltv
    max_ltv: 75
    product_type: specialist
    tier: 1
    proc_fee_pct: 1
    broker_fee_pct: 0.5

bridge_quotes:
  - kind: fusion
    gross_loan: "£1,000,000"
    property_value: "£1,600,000"
    sub_product: residential
    rent_pm: "£8,750"
    deferred_pct: "1%"
    rolled_months: 3
    proc_fee_pct: "1%"
`
