package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/switchctl/internal/experiment"
	"github.com/san-kum/switchctl/internal/problem"
)

func newEvalCmd() *cobra.Command {
	var (
		pf      problemFlags
		batch   string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate a candidate control vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := pf.build()
			if err != nil {
				return err
			}
			if batch != "" {
				return evalBatch(cmd, inst, batch, workers)
			}

			x, err := pf.candidate(inst)
			if err != nil {
				return err
			}
			return evalOne(cmd.OutOrStdout(), inst, x)
		},
	}
	pf.register(cmd, true)
	cmd.Flags().StringVar(&batch, "batch", "", "CSV file with one candidate vector per row")
	cmd.Flags().IntVar(&workers, "workers", 4, "parallel workers for --batch")
	return cmd
}

func evalOne(w io.Writer, inst experiment.Instance, x []float64) error {
	switch p := inst.(type) {
	case *problem.Penalized:
		res, err := p.Evaluate(x)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "problem: %s (%s)\n", experiment.ProblemName(variantOf(p)), p.Kind())
		fmt.Fprintf(w, "%s\n", res)

	case *problem.MultiObjective:
		objs, err := p.Objectives(x)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "problem: MOProblem (embedded weights: %t)\n", p.Embedded())
		for k := range objs {
			res, err := p.Evaluate(x, k)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "I%d: %s\n", k+1, res)
		}

	default:
		return fmt.Errorf("cannot evaluate %T", inst)
	}

	fmt.Fprintf(w, "stats: %s\n", inst.Stats())
	return nil
}

func variantOf(p *problem.Penalized) string {
	if p.Kind() == problem.L1 {
		return experiment.VariantI2
	}
	return experiment.VariantI1
}

func evalBatch(cmd *cobra.Command, inst experiment.Instance, path string, workers int) error {
	xs, err := readVectors(path)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	klog.FromContext(ctx).V(2).Info("Evaluating batch", "path", path, "candidates", len(xs), "workers", workers)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	switch p := inst.(type) {
	case *problem.Penalized:
		values, err := experiment.EvaluateBatch(ctx, p, xs, workers)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ROW\tJ")
		for i, v := range values {
			fmt.Fprintf(w, "%d\t%.10g\n", i, v)
		}

	case *problem.MultiObjective:
		values, err := experiment.EvaluateBatchMulti(ctx, p, xs, workers)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ROW\tI1\tI2")
		for i, v := range values {
			fmt.Fprintf(w, "%d\t%.10g\t%.10g\n", i, v[0], v[1])
		}

	default:
		return fmt.Errorf("cannot evaluate %T", inst)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s candidates evaluated\n", humanize.Comma(int64(len(xs))))
	return nil
}

func readVectors(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	xs := make([][]float64, 0, len(rows))
	for i, row := range rows {
		x := make([]float64, len(row))
		for j, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %d: %w", path, i+1, j+1, err)
			}
			x[j] = v
		}
		xs = append(xs, x)
	}
	return xs, nil
}
