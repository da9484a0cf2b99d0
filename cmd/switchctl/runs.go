package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/switchctl/internal/export"
	"github.com/san-kum/switchctl/internal/storage"
)

func openStore(cmd *cobra.Command) (storage.Store, error) {
	st, err := storage.NewStore(storeKind, dataDir)
	if err != nil {
		return nil, err
	}
	if err := st.Init(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newRunsCmd() *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "inspect stored runs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROBLEM\tN\tTMAX\tOPTIMIZER\tRUN\tBEST\tRESULTS\tINTEGRATIONS\tCREATED")
			for _, rec := range recs {
				best := "-"
				if b, ok := rec.Best(); ok {
					best = fmt.Sprintf("%.6g", b.Objectives[0])
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%s\t%d.%d\t%s\t%d\t%s\t%s\n",
					rec.ID,
					rec.Problem.Name,
					rec.Problem.NSwitches,
					rec.Problem.Tmax,
					rec.Optimizer,
					rec.Config, rec.Run,
					best,
					len(rec.Results),
					humanize.Comma(int64(rec.Integrations)),
					humanize.Time(rec.Timestamp),
				)
			}
			return w.Flush()
		},
	}

	var asJSON bool
	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return storage.ExportJSON(cmd.OutOrStdout(), rec)
			}
			return printRecord(cmd, rec)
		},
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")

	runsCmd.AddCommand(listCmd, showCmd)
	return runsCmd
}

func printRecord(cmd *cobra.Command, rec *storage.Record) error {
	out := cmd.OutOrStdout()
	p := rec.Problem
	fmt.Fprintf(out, "run:          %s\n", rec.ID)
	fmt.Fprintf(out, "created:      %s (%s)\n", rec.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(rec.Timestamp))
	fmt.Fprintf(out, "problem:      %s N=%d T=%g u in [%g, %g] x0=(%g, %g)\n", p.Name, p.NSwitches, p.Tmax, p.ULower, p.UUpper, p.X10, p.X20)
	if len(p.Lambda) > 0 {
		fmt.Fprintf(out, "weights:      %v\n", p.Lambda)
	}
	fmt.Fprintf(out, "optimizer:    %s config %d run %d\n", rec.Optimizer, rec.Config, rec.Run)
	fmt.Fprintf(out, "duration:     %s\n", rec.Duration)
	fmt.Fprintf(out, "integrations: %s\n\n", humanize.Comma(int64(rec.Integrations)))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tOBJECTIVES\tLAMBDA\tX1(T)\tX2(T)")
	for i, res := range rec.Results {
		fmt.Fprintf(w, "%d\t%v\t%v\t%.6g\t%.6g\n", i, res.Objectives, res.Lambda, res.X1T, res.X2T)
	}
	return w.Flush()
}

func newParetoCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "pareto [run_id]",
		Short: "render the front of a multi-objective run to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := outPath
			if path == "" {
				path = rec.ID + "-pareto.html"
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := export.ParetoChart(f, rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "front of %d points written to %s\n", len(rec.Results), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>-pareto.html)")
	return cmd
}
