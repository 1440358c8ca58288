package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plans",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	summaries, err := newClient().ListPlans(cmd.Context())
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No plans.")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("%s  production=%s  adjustments=%d\n", s.ID, s.Production, s.AdjustmentCount)
	}
	return nil
}
