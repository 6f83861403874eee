package commands

import (
	"fmt"
	"strings"

	"github.com/Pe4enIks/OpenNN/internal/config"
	"github.com/spf13/cobra"
)

var transformsPath string

var validateCmd = &cobra.Command{
	Use:   "validate <config>",
	Short: "Validate a training config file",
	Long: `Validate a training config file and print a short run summary.
Exits non-zero with the structured error on stderr when the file is missing,
malformed, incomplete or breaks a cross-field rule.`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&transformsPath, "transforms", "",
		"Path to the transform config file to validate alongside the main config")
}

func runValidate(cmd *cobra.Command, args []string) {
	path := args[0]

	cfg, err := config.Load(path)
	HandleError(err, "invalid configuration")

	if transformsPath != "" {
		_, err := config.LoadTransform(transformsPath)
		HandleError(err, "invalid transform configuration")
	}

	decoder := cfg.Model.Decoder
	if decoder == "" {
		decoder = strings.Join(cfg.Model.Multidecoder, "+")
	}

	fmt.Printf("%s: OK\n", path)
	fmt.Printf("  model:     %s/%s (%d classes)\n", cfg.Model.Encoder, decoder, cfg.Model.NumberClasses)
	fmt.Printf("  run:       %s on %s, %d epochs, batch size %d\n",
		cfg.Run.Algorithm, cfg.Run.Device, cfg.Run.Epochs, cfg.Dataset.BatchSize)
	fmt.Printf("  dataset:   %s (train/valid/test = %g/%g/%g)\n",
		cfg.Dataset.Name, cfg.Dataset.TrainPart, cfg.Dataset.ValidPart, cfg.Dataset.TestPart)
	fmt.Printf("  optimizer: %s (lr=%g), scheduler: %s, loss: %s\n",
		cfg.Optimizer.Name, cfg.Optimizer.LearningRate, cfg.Scheduler.Name, cfg.Loss)
	fmt.Printf("  metrics:   %s\n", strings.Join(cfg.Metrics, ", "))
	if cfg.Wandb != nil {
		fmt.Printf("  tracking:  %s/%s\n", cfg.Wandb.Project, cfg.Wandb.RunName)
	}
}
