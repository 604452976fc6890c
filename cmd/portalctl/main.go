package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Administration tool for the HPC project portal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		observability.Init(config.LogLevel, "text")
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
