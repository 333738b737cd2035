package main

import (
	"fmt"
	"io"
	"time"

	"tsunused/internal/pipeline"
)

// printStageTimings prints per-stage durations summed over files.
func printStageTimings(out io.Writer, timings pipeline.Timings, files int) {
	if out == nil {
		return
	}
	for _, stage := range pipeline.Stages() {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
	}
	total := timings.Sum(pipeline.Stages()...)
	fmt.Fprintf(out, "%-8s %.1f ms over %d files\n", "total", toMillis(total), files)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
