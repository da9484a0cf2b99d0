package main

import (
	"context"
	goflag "flag"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/switchctl/internal/config"
)

var (
	dataDir   string
	storeKind string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer klog.Flush()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "switchctl",
		Short:        "switching-time optimal control evaluator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), klog.NewKlogr()))
		},
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlag(klogFlags.Lookup("v"))
	rootCmd.PersistentFlags().AddGoFlag(klogFlags.Lookup("vmodule"))

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultStorePath, "run store location")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", config.DefaultStoreKind, "run store backend (memory, file, sqlite)")

	rootCmd.AddCommand(
		newEvalCmd(),
		newBoundsCmd(),
		newTrajectoryCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newRunsCmd(),
		newParetoCmd(),
	)
	return rootCmd
}

func withLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}
