package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a plan and its adjustment ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := newClient().DeletePlan(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted plan %s\n", args[0])
	return nil
}
