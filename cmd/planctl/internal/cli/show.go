package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a plan and its full adjustment ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	plan, err := newClient().GetPlan(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Plan: %s\n", plan.ID)
	fmt.Printf("Created: %s\n", plan.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", plan.UpdatedAt.Format("2006-01-02 15:04:05"))
	for key, value := range plan.Metadata {
		fmt.Printf("Meta: %s=%s\n", key, value)
	}
	fmt.Println()

	fmt.Printf("Initial production: %s\n", plan.InitialProduction)
	if len(plan.Adjustments) == 0 {
		fmt.Println("No adjustments recorded.")
	} else {
		fmt.Printf("Adjustments (%d):\n", len(plan.Adjustments))
		for _, a := range plan.Adjustments {
			line := fmt.Sprintf("  #%d  %s", a.Seq, a.Amount)
			if a.Reason != "" {
				line += "  (" + a.Reason + ")"
			}
			fmt.Println(line)
		}
	}
	fmt.Printf("Production: %s\n", plan.Production)
	return nil
}
