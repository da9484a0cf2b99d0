package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/export"
	"github.com/san-kum/switchctl/internal/integrators"
	"github.com/san-kum/switchctl/internal/problem"
	"github.com/san-kum/switchctl/internal/viz"
)

func newBoundsCmd() *cobra.Command {
	var pf problemFlags

	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "print the search bounds of a problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := pf.build()
			if err != nil {
				return err
			}
			lower, upper := inst.LowerBounds(), inst.UpperBounds()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tNAME\tLOWER\tUPPER")
			for i := range lower {
				fmt.Fprintf(w, "%d\t%s\t%g\t%g\n", i, coordName(i, pf.n), lower[i], upper[i])
			}
			return w.Flush()
		},
	}
	pf.register(cmd, false)
	return cmd
}

func coordName(i, n int) string {
	switch {
	case i < n:
		return fmt.Sprintf("u1[%d]", i)
	case i < 2*n:
		return fmt.Sprintf("u2[%d]", i-n)
	default:
		return fmt.Sprintf("lambda%d", i-2*n+1)
	}
}

func newTrajectoryCmd() *cobra.Command {
	var (
		pf       problemFlags
		csvPath  string
		htmlPath string
	)

	cmd := &cobra.Command{
		Use:   "trajectory",
		Short: "integrate a candidate and plot the state",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := pf.build()
			if err != nil {
				return err
			}
			x, err := pf.candidate(inst)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := evalOne(out, inst, x); err != nil {
				return err
			}

			ev, ok := inst.(evaluated)
			if !ok {
				return fmt.Errorf("%T keeps no trajectory", inst)
			}
			tr := ev.Trajectory()
			fmt.Fprintln(out)
			fmt.Fprint(out, viz.TrajectoryPlot(tr))
			fmt.Fprintln(out, viz.Title.Render("phase portrait (x1, x2)"))
			fmt.Fprint(out, viz.PhasePortrait(tr, 60, 20))
			fmt.Fprintln(out)
			fmt.Fprintln(out, viz.ControlPlot(ev.Schedule(), x, 8))

			if csvPath != "" {
				if err := writeTrajectoryCSV(csvPath, tr); err != nil {
					return err
				}
				fmt.Fprintf(out, "samples written to %s\n", csvPath)
			}
			if htmlPath != "" {
				f, err := os.Create(htmlPath)
				if err != nil {
					return err
				}
				defer f.Close()
				title := fmt.Sprintf("%s N=%d T=%g", pf.variant, pf.n, pf.tmax)
				if err := export.TrajectoryChart(f, title, tr); err != nil {
					return err
				}
				fmt.Fprintf(out, "chart written to %s\n", htmlPath)
			}
			return nil
		},
	}
	pf.register(cmd, true)
	cmd.Flags().StringVar(&csvPath, "csv", "", "write t,x1,x2 samples to this file")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write an HTML chart to this file")
	return cmd
}

func writeTrajectoryCSV(path string, tr *integrators.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"t", "x1", "x2"}); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'g', -1, 64),
			strconv.FormatFloat(tr.States[i][0], 'g', -1, 64),
			strconv.FormatFloat(tr.States[i][1], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the terminal weight presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tN\tLAMBDA1\tLAMBDA2\tRANGE")
			for _, kind := range []problem.Kind{problem.Quadratic, problem.L1} {
				r := config.WeightBounds(kind)
				for _, n := range config.ListPresets(kind) {
					l, _ := config.LambdaPreset(kind, n)
					fmt.Fprintf(w, "%s\t%d\t%g\t%g\t[%g, %g]\n", kind, n, l.L1, l.L2, r.Lower, r.Upper)
				}
			}
			return w.Flush()
		},
	}
}
