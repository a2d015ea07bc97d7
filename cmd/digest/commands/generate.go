package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [TICKER] [DAYS]",
	Short: "Generate the document for one ticker",
	Long: `Fetch the daily table for TICKER, normalize the trailing DAYS valid rows
and write the document through the configured recorders.

TICKER defaults to AAPL and DAYS to the configured default (7).

Example:
  digest generate msft 30`,
	Args: cobra.MaximumNArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ticker := "AAPL"
	if len(args) > 0 {
		ticker = args[0]
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	days := a.cfg.DataSource.DefaultDays
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("days must be an integer: %w", err)
		}
		days = n
	}

	if !a.collector.Run(context.Background(), ticker, days) {
		return fmt.Errorf("generation failed for %s", ticker)
	}
	return nil
}
