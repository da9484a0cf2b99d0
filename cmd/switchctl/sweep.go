package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/experiment"
	"github.com/san-kum/switchctl/internal/storage"
	"github.com/san-kum/switchctl/internal/viz"
)

func newSweepCmd() *cobra.Command {
	var (
		configFile string
		cfgFlags   = config.DefaultConfig()
		tui        bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve every (switches, time) instance with the baseline optimizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}
			applySweepFlags(cmd, cfg, cfgFlags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := storage.NewStore(cfg.Store.Kind, cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Init(cmd.Context()); err != nil {
				return err
			}

			sweep := experiment.NewSweep(cfg, experiment.NewRegistry(), st)
			start := time.Now()

			var recs []*storage.Record
			if tui {
				recs, err = runSweepTUI(cmd.Context(), sweep)
			} else {
				recs, err = runSweep(cmd.Context(), cmd.OutOrStdout(), sweep)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%s runs stored in %s (%s) after %s\n\n",
				humanize.Comma(int64(len(recs))), cfg.Store.Path, cfg.Store.Kind, time.Since(start).Round(time.Millisecond))
			if perr := printSummary(cmd.OutOrStdout(), experiment.Summarize(recs)); perr != nil {
				return perr
			}
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&configFile, "config", "", "sweep config file (yaml)")
	fs.StringVar(&cfgFlags.Tasks, "tasks", cfgFlags.Tasks, "task families (i12, moi, all)")
	fs.IntSliceVar(&cfgFlags.Switches, "switches", cfgFlags.Switches, "switch counts")
	fs.Float64SliceVar(&cfgFlags.Times, "times", cfgFlags.Times, "time horizons")
	fs.IntVar(&cfgFlags.Runs, "runs", cfgFlags.Runs, "runs per optimizer configuration")
	fs.IntVar(&cfgFlags.Workers, "workers", cfgFlags.Workers, "tasks solved in parallel")
	fs.IntVar(&cfgFlags.MaxAttempts, "max-attempts", cfgFlags.MaxAttempts, "consecutive failures before a task is aborted")
	fs.IntSliceVar(&cfgFlags.Optimizer.Levels, "levels", cfgFlags.Optimizer.Levels, "grid levels, one optimizer configuration each")
	fs.IntVar(&cfgFlags.Steps, "steps", cfgFlags.Steps, "RK4 steps over the horizon (0 for the default)")
	fs.BoolVar(&tui, "tui", false, "follow the sweep in a terminal UI")
	return cmd
}

// applySweepFlags copies explicitly set flags over the loaded config.
func applySweepFlags(cmd *cobra.Command, cfg, flags *config.Config) {
	changed := cmd.Flags().Changed
	if changed("tasks") {
		cfg.Tasks = flags.Tasks
	}
	if changed("switches") {
		cfg.Switches = flags.Switches
	}
	if changed("times") {
		cfg.Times = flags.Times
	}
	if changed("runs") {
		cfg.Runs = flags.Runs
	}
	if changed("workers") {
		cfg.Workers = flags.Workers
	}
	if changed("max-attempts") {
		cfg.MaxAttempts = flags.MaxAttempts
	}
	if changed("levels") {
		cfg.Optimizer.Levels = flags.Optimizer.Levels
	}
	if changed("steps") {
		cfg.Steps = flags.Steps
	}
	if changed("store") || cfg.Store.Kind == "" {
		cfg.Store.Kind = storeKind
	}
	if changed("data") || cfg.Store.Path == "" {
		cfg.Store.Path = dataDir
	}
}

func runSweep(ctx context.Context, w io.Writer, sweep *experiment.Sweep) ([]*storage.Record, error) {
	logger := klog.FromContext(ctx)
	sweep.OnRun(func(ev experiment.Event) {
		if ev.Err != nil {
			logger.Info("Run failed", "task", ev.Task, "config", ev.Config, "run", ev.Run, "err", ev.Err)
			return
		}
		logger.V(1).Info("Run finished", "task", ev.Task, "config", ev.Config, "run", ev.Run, "value", ev.Value)
	})

	total := sweep.TotalRuns()
	fmt.Fprintf(w, "running %d tasks, %s runs\n", len(sweep.Tasks()), humanize.Comma(int64(total)))
	recs, err := sweep.Run(ctx)
	fmt.Fprintf(w, "completed %d/%d runs\n", len(recs), total)
	return recs, err
}

func runSweepTUI(ctx context.Context, sweep *experiment.Sweep) ([]*storage.Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(viz.NewProgress(sweep.TotalRuns()))
	sweep.OnRun(func(ev experiment.Event) {
		p.Send(viz.RunMsg(ev))
	})

	type outcome struct {
		recs []*storage.Record
		err  error
	}
	result := make(chan outcome, 1)
	go func() {
		recs, err := sweep.Run(ctx)
		p.Send(viz.DoneMsg{Err: err})
		result <- outcome{recs, err}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-result
		return nil, err
	}
	// Leaving the UI early stops the sweep.
	cancel()
	out := <-result
	return out.recs, out.err
}

func printSummary(w io.Writer, sums []experiment.Summary) error {
	if len(sums) == 0 {
		fmt.Fprintln(w, "no completed runs")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROBLEM\tN\tTMAX\tRUNS\tBEST\tMEAN\tSTDDEV\tFRONT")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%g\t%d\t%.6g\t%.6g\t%.3g\t%.1f\n",
			s.Problem, s.NSwitches, s.Tmax, s.Runs, s.Best, s.Mean, s.StdDev, s.FrontSize)
	}
	return tw.Flush()
}
