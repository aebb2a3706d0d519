package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "placectl",
		Short:         "Preview, ingest and audit DogAtlas place data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newPreviewCmd(), newIngestCmd(), newDuplicatesCmd())
	return root
}
