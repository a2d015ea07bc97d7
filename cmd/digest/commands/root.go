package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "digest",
	Short: "PriceDigest - daily market data normalizer",
	Long: `PriceDigest turns raw daily price tables into a canonical JSON document
with the latest price, absolute change and percent change.

Examples:
  digest generate AAPL 7
  digest serve
  digest watch`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug|info|warn|error)")
}
