package main

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/valyala/quicktemplate"
)

type result struct {
	section                 string
	name                    string
	avg, min, p75, p99, max time.Duration
	ops                     int64
	rate                    int64
}

func writeMarkdown(w io.Writer, results []result) {
	qw := quicktemplate.AcquireWriter(w)
	streamMarkdown(qw, results)
	quicktemplate.ReleaseWriter(qw)
}

func markdown(results []result) string {
	bb := quicktemplate.AcquireByteBuffer()
	writeMarkdown(bb, results)
	s := string(bb.B)
	quicktemplate.ReleaseByteBuffer(bb)
	return s
}

func streamMarkdown(qw *quicktemplate.Writer, results []result) {
	qw.N().S("# Scoped signals benchmark\n")

	section := ""
	for _, r := range results {
		if r.section != section {
			section = r.section
			qw.N().S("\n## ")
			qw.N().S(section)
			qw.N().S("\n\n")
			if r.ops > 0 {
				qw.N().S("| benchmark | time | ops | ops/sec |\n|---|---|---|---|\n")
			} else {
				qw.N().S("| benchmark | avg | min | p75 | p99 | max |\n|---|---|---|---|---|---|\n")
			}
		}

		qw.N().S("| ")
		qw.N().S(r.name)
		if r.ops > 0 {
			streamCells(qw, r.min.String(), humanize.Comma(r.ops), humanize.Comma(r.rate))
			continue
		}
		streamCells(qw, r.avg.String(), r.min.String(), r.p75.String(), r.p99.String(), r.max.String())
	}
}

func streamCells(qw *quicktemplate.Writer, cells ...string) {
	for _, c := range cells {
		qw.N().S(" | ")
		qw.N().S(c)
	}
	qw.N().S(" |\n")
}
