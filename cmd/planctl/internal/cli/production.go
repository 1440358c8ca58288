package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var productionCmd = &cobra.Command{
	Use:   "production <plan-id>",
	Short: "Print a plan's current derived production figure",
	Args:  cobra.ExactArgs(1),
	RunE:  runProduction,
}

func runProduction(cmd *cobra.Command, args []string) error {
	production, err := newClient().Production(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(production)
	return nil
}
