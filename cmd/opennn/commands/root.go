package commands

import (
	"fmt"
	"os"

	"github.com/Pe4enIks/OpenNN/internal/logging"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "opennn",
	Short: "OpenNN - training configuration toolkit",
	Long: `OpenNN validates, normalizes and inspects YAML training run
configurations before they are handed to the training pipeline.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Initialize(logLevel)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error, fatal)")

	// Add subcommands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(watchCmd)
}

// HandleError prints error and exits
func HandleError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}
