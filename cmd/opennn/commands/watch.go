package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pe4enIks/OpenNN/internal/config"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <config>",
	Short: "Revalidate a config file on every change",
	Long: `Watch a training config file and revalidate it after each edit until
interrupted. Validation failures are reported but watching continues with the
last valid state.`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"Quiet period before a change triggers revalidation")
}

func runWatch(cmd *cobra.Command, args []string) {
	path := args[0]

	watcher, err := config.NewWatcher(config.WatcherOptions{
		Path:     path,
		Debounce: watchDebounce,
	}, func(cfg *config.TrainingConfig) error {
		fmt.Printf("%s: OK (%s/%s, %d epochs)\n",
			path, cfg.Run.Algorithm, cfg.Dataset.Name, cfg.Run.Epochs)
		return nil
	})
	HandleError(err, "failed to create watcher")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = watcher.Start(ctx)
	HandleError(err, "failed to start watcher")

	<-ctx.Done()

	if err := watcher.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop watcher: %v\n", err)
	}
}
