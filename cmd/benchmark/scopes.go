package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/scopedsignals/scoped"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

type scopeCase struct {
	name string
	ops  int64 // scopes or signals created per run
	run  func(root scoped.Scope) error
}

var scopeCases = []scopeCase{
	{
		name: "1000 nested scopes",
		ops:  1000,
		run: func(root scoped.Scope) error {
			sc := root
			for range 1000 {
				sc = sc.NewChild()
			}
			return nil
		},
	},
	{
		name: "1000 data signals",
		ops:  1000,
		run: func(root scoped.Scope) error {
			for range 1000 {
				scoped.Data(root, 0)
			}
			return nil
		},
	},
	{
		name: "1000 func signals",
		ops:  1000,
		run: func(root scoped.Scope) error {
			for range 1000 {
				scoped.Func(root, func() int { return 1 })
			}
			return nil
		},
	},
	{
		name: "1000 funcs, one source",
		ops:  1000,
		run: func(root scoped.Scope) error {
			src := scoped.Data(root, 0)
			for range 1000 {
				scoped.Func(root, func() int { return src.Get() })
			}
			return nil
		},
	},
	{
		name: "sum of 1000 signals",
		ops:  1001,
		run: func(root scoped.Scope) error {
			sigs := make([]scoped.WriteableSignal[int], 1000)
			for i := range sigs {
				sigs[i] = scoped.Data(root, i)
			}
			sum := scoped.Func(root, func() int {
				total := 0
				for _, s := range sigs {
					total += s.Get()
				}
				return total
			})
			if got := sum.Peek(); got != 499500 {
				return fmt.Errorf("sum is %d, want 499500", got)
			}
			return nil
		},
	},
	{
		name: "1000 siblings chained",
		ops:  1002,
		run: func(root scoped.Scope) error {
			start := scoped.Data(root, 0)
			next := scoped.Func(root, func() int { return start.Get() + 1 })
			for range 1000 {
				prev := next
				next = scoped.Func(root.NewChild(), func() int { return prev.Get() + 1 })
			}
			start.Set(1)
			if got := next.Peek(); got != 1002 {
				return fmt.Errorf("end is %d, want 1002", got)
			}
			return nil
		},
	},
	{
		name: "discard 100 listening scopes",
		ops:  100,
		run: func(root scoped.Scope) error {
			src := scoped.Data(root, 0)
			children := make([]scoped.Scope, 100)
			for i := range children {
				children[i] = root.NewChild()
				scoped.Func(children[i], func() int { return src.Get() })
			}
			for _, child := range children {
				child.Discard()
			}
			if n := root.Runtime().ScopeCount(); n != 1 {
				return fmt.Errorf("%d scopes left, want 1", n)
			}
			return nil
		},
	},
}

// benchmarkScopes times each construction case including the discard of its
// root, keeping the best of the repeats.
func benchmarkScopes(cfg settings) ([]result, error) {
	log.Printf("Running construction cases, best of %d", cfg.repeats)

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"benchmark", "time", "ops", "ops/sec"})

	pool := scoped.NewPool()
	var results []result
	for _, c := range scopeCases {
		best := time.Duration(0)
		for i := 0; i < cfg.repeats; i++ {
			start := time.Now()
			root := pool.NewRootScope()
			err := c.run(root)
			root.Discard()
			took := time.Since(start)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", c.name, err)
			}
			if i == 0 || took < best {
				best = took
			}
		}

		rate := int64(float64(c.ops) / max(best.Seconds(), 1e-9))
		r := result{
			section: "scopes",
			name:    c.name,
			avg:     best,
			min:     best,
			p75:     best,
			p99:     best,
			max:     best,
			ops:     c.ops,
			rate:    rate,
		}
		results = append(results, r)
		tw.Append([]string{
			c.name,
			fmt.Sprint(best),
			humanize.Comma(c.ops),
			humanize.Comma(rate),
		})
	}
	tw.Render()
	return results, nil
}
