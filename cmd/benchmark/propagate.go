package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/scopedsignals/scoped"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

// benchmarkPropagate builds w chains of h func signals below one data signal,
// each chain in its own nested scopes, and times writes to the source.
func benchmarkPropagate(cfg settings) ([]result, error) {
	log.Printf("Running propagation grid, %d writes per case", cfg.iters)

	tbl := table.NewWriter()
	tbl.SetTitle("Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	pool := scoped.NewPool()
	var results []result
	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: cfg.iters})

			root := pool.NewRootScope()
			src := scoped.Data(root, 1)
			ends := make([]scoped.ReadonlySignal[int], w)
			for i := 0; i < w; i++ {
				sc := root.NewChild()
				last := scoped.Func(sc, func() int { return src.Get() + 1 })
				for j := 1; j < h; j++ {
					sc = sc.NewChild()
					prev := last
					last = scoped.Func(sc, func() int { return prev.Get() + 1 })
				}
				ends[i] = last
			}

			for i := 0; i < cfg.iters; i++ {
				start := time.Now()
				src.Set(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			want := src.Peek() + h
			for _, end := range ends {
				if got := end.Peek(); got != want {
					root.Discard()
					return nil, fmt.Errorf("propagate %d * %d: end is %d, want %d", w, h, got, want)
				}
			}
			root.Discard()

			calc := tach.Calc()
			r := result{
				section: "propagate",
				name:    fmt.Sprintf("propagate: %d * %d", w, h),
				avg:     calc.Time.Avg,
				min:     calc.Time.Min,
				p75:     calc.Time.P75,
				p99:     calc.Time.P99,
				max:     calc.Time.Max,
			}
			results = append(results, r)
			tbl.AppendRows([]table.Row{
				{r.name, r.avg, r.min, r.p75, r.p99, r.max},
			})
		}
	}
	tbl.Render()
	return results, nil
}
