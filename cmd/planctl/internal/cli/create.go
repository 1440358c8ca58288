package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/example/prodplan/client"
)

var (
	createInitial string
	createMeta    []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new production plan",
	Long: `Create a new production plan with an optional initial baseline.

EXAMPLES:
  # Zero baseline
  planctl create

  # Explicit baseline and metadata
  planctl create --initial 100 --meta line=assembly-1 --meta shift=night`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createInitial, "initial", "", "initial production baseline (decimal, default 0)")
	createCmd.Flags().StringArrayVar(&createMeta, "meta", nil, "metadata entry as key=value (repeatable)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	opts := client.CreatePlanOptions{}

	if createInitial != "" {
		initial, err := decimal.NewFromString(createInitial)
		if err != nil {
			return fmt.Errorf("--initial %q is not a decimal", createInitial)
		}
		opts.InitialProduction = &initial
	}

	if len(createMeta) > 0 {
		opts.Metadata = make(map[string]string, len(createMeta))
		for _, kv := range createMeta {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("--meta %q is not key=value", kv)
			}
			opts.Metadata[key] = value
		}
	}

	plan, err := newClient().CreatePlan(cmd.Context(), opts)
	if err != nil {
		return err
	}

	fmt.Printf("Created plan %s\n", plan.ID)
	fmt.Printf("Initial production: %s\n", plan.InitialProduction)
	return nil
}
