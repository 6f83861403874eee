package commands

import (
	"fmt"

	"github.com/Pe4enIks/OpenNN/internal/config"
	"github.com/spf13/cobra"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <config>",
	Short: "Rewrite a config file in the canonical sectioned layout",
	Long: `Load a training config file in either accepted layout and write it
back in the canonical sectioned layout with all defaults made explicit. The
output file is written atomically.`,
	Args: cobra.ExactArgs(1),
	Run:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"Destination path for the converted config (required)")
	_ = convertCmd.MarkFlagRequired("output")
}

func runConvert(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(args[0])
	HandleError(err, "invalid configuration")

	err = config.WriteFile(convertOutput, cfg)
	HandleError(err, "failed to write converted configuration")

	fmt.Printf("wrote %s\n", convertOutput)
}
