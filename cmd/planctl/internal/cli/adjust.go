package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	adjustAmount string
	adjustReason string
)

var adjustCmd = &cobra.Command{
	Use:   "adjust <plan-id>",
	Short: "Apply an adjustment to a plan",
	Long: `Append a signed adjustment to a plan's ledger. The amount may be
negative, zero, or fractional.

EXAMPLES:
  planctl adjust 3f2a... --amount 10
  planctl adjust 3f2a... --amount -2.5 --reason "damaged in transit"`,
	Args: cobra.ExactArgs(1),
	RunE: runAdjust,
}

func init() {
	adjustCmd.Flags().StringVar(&adjustAmount, "amount", "", "signed decimal delta to apply (required)")
	adjustCmd.Flags().StringVar(&adjustReason, "reason", "", "free-form reason for the adjustment")
	adjustCmd.MarkFlagRequired("amount")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(adjustAmount)
	if err != nil {
		return fmt.Errorf("--amount %q is not a decimal", adjustAmount)
	}

	applied, err := newClient().ApplyAdjustment(cmd.Context(), args[0], amount, adjustReason)
	if err != nil {
		return err
	}

	fmt.Printf("Applied adjustment #%d (%s)\n", applied.Adjustment.Seq, applied.Adjustment.Amount)
	fmt.Printf("Production: %s\n", applied.Production)
	return nil
}
