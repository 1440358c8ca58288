package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/prodplan/client"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Manage production plans on a prodplan server",
	Long: `planctl manages production plans: ledgers of adjustments over an
initial baseline. The production figure is always derived server-side from
the adjustment history, never stored.

WORKFLOW:
  1. planctl create --initial 100
  2. planctl adjust <plan-id> --amount -3 --reason "scrap"
  3. planctl production <plan-id>
  4. planctl show <plan-id>

EXAMPLES:
  # Create a plan with a zero baseline
  planctl create

  # Create a plan with a baseline and metadata
  planctl create --initial 250.5 --meta line=assembly-1

  # Record a correction
  planctl adjust 3f2a... --amount -12 --reason "returned units"

  # Inspect the full ledger
  planctl show 3f2a...`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "prodplan server address")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(productionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

func newClient() *client.Client {
	return client.New(serverAddr)
}
