package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "optiond",
	Short: "optiond - collateralized put settlement daemon",
	Long: `optiond settles a single fully collateralized European put series.
Sellers lock strike-asset collateral to mint option tokens, holders
exercise before expiration to swap underlying for strike at the fixed
price, and sellers withdraw their pro-rata share of the pools after
expiration. The daemon exposes a JSON-RPC API and a websocket event
stream.`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}
