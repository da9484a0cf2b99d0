package experiment

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/switchctl/internal/storage"
)

// Summary aggregates the runs of one problem instance.
type Summary struct {
	Problem   string
	NSwitches int
	Tmax      float64
	Runs      int
	// Best, Mean and StdDev describe the best first objective of each run.
	Best      float64
	Mean      float64
	StdDev    float64
	FrontSize float64
}

type summaryKey struct {
	problem string
	n       int
	tmax    float64
}

func Summarize(recs []*storage.Record) []Summary {
	values := map[summaryKey][]float64{}
	fronts := map[summaryKey][]float64{}

	for _, rec := range recs {
		best, ok := rec.Best()
		if !ok {
			continue
		}
		k := summaryKey{rec.Problem.Name, rec.Problem.NSwitches, rec.Problem.Tmax}
		values[k] = append(values[k], best.Objectives[0])
		fronts[k] = append(fronts[k], float64(len(rec.Results)))
	}

	out := make([]Summary, 0, len(values))
	for k, v := range values {
		s := Summary{
			Problem:   k.problem,
			NSwitches: k.n,
			Tmax:      k.tmax,
			Runs:      len(v),
			Best:      floats.Min(v),
			FrontSize: stat.Mean(fronts[k], nil),
		}
		if len(v) > 1 {
			s.Mean, s.StdDev = stat.MeanStdDev(v, nil)
		} else {
			s.Mean = v[0]
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Problem != b.Problem {
			return a.Problem < b.Problem
		}
		if a.NSwitches != b.NSwitches {
			return a.NSwitches < b.NSwitches
		}
		return a.Tmax < b.Tmax
	})
	return out
}
