package commands

import (
	"os"

	"github.com/Pe4enIks/OpenNN/internal/config"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <config>",
	Short: "Print the effective config with all defaults applied",
	Long: `Load a training config file and print its effective form on stdout:
the canonical sectioned layout with every documented default substituted for
absent optional keys.`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(args[0])
	HandleError(err, "invalid configuration")

	data, err := config.Marshal(cfg)
	HandleError(err, "failed to render configuration")

	os.Stdout.Write(data)
}
