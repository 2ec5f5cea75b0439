package main

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runHeap   heapFlags
	runVerify bool
)

func init() {
	cmd := newRunCmd()
	runHeap.register(cmd.Flags())
	cmd.Flags().BoolVar(&runVerify, "verify", true, "Check payload contents, alignment and overlap")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace>...",
		Short: "Replay traces and report utilization and throughput",
		Long: `The run command replays each trace against a fresh heap and prints
one line per trace with the op count, peak utilization, elapsed time and
throughput, followed by totals.

Example:
  heapctl run traces/*.rep
  heapctl run short1.rep --verify=false
  heapctl run short1.rep --mmap heap.bin --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
}

func runRun(ctx context.Context, args []string) error {
	results, err := replayAll(ctx, args, &runHeap, driver.Options{Verify: runVerify, Seed: runHeap.seed})
	if err != nil {
		return err
	}
	if jsonOut {
		return printResultsJSON(results)
	}
	printResults(results)
	return nil
}

// replayAll replays every trace on its own fresh heap and stops at the
// first failure.
func replayAll(ctx context.Context, paths []string, hf *heapFlags, opts driver.Options) ([]*driver.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Logger = newLogger().Named("driver")

	results := make([]*driver.Result, 0, len(paths))
	for _, path := range paths {
		printVerbose("Replaying %s\n", path)
		res, err := replayOne(ctx, path, hf, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func replayOne(ctx context.Context, path string, hf *heapFlags, opts driver.Options) (*driver.Result, error) {
	t, err := trace.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := hf.open()
	if err != nil {
		return nil, err
	}
	res, err := driver.Replay(ctx, s.a, t, opts)
	return res, errors.CombineErrors(err, s.Close(ctx))
}

func printResults(results []*driver.Result) {
	printInfo("%-24s %10s %8s %10s %10s\n", "trace", "ops", "util", "secs", "Kops/s")

	var (
		ops     int
		util    float64
		elapsed time.Duration
	)
	for _, r := range results {
		printInfo("%-24s %10d %7.1f%% %10.6f %10.0f\n",
			r.Name, r.Ops, 100*r.Utilization, r.Elapsed.Seconds(), r.Throughput()/1000)
		printVerbose("  heap %d bytes, %d grows, %d splits, %d coalesces\n",
			r.HeapSize, r.Stats.GrowCalls, r.Stats.Splits,
			r.Stats.CoalesceNext+r.Stats.CoalescePrev+r.Stats.CoalesceBoth)
		ops += r.Ops
		util += r.Utilization
		elapsed += r.Elapsed
	}
	if len(results) > 1 {
		kops := 0.0
		if elapsed > 0 {
			kops = float64(ops) / elapsed.Seconds() / 1000
		}
		printInfo("%-24s %10d %7.1f%% %10.6f %10.0f\n",
			"Total", ops, 100*util/float64(len(results)), elapsed.Seconds(), kops)
	}
}

func printResultsJSON(results []*driver.Result) error {
	w := jwriter.NewWriter()
	arr := w.Array()
	for _, r := range results {
		obj := w.Object()
		obj.Name("trace").String(r.Name)
		obj.Name("ops").Int(r.Ops)
		obj.Name("peakLive").Int(r.PeakLive)
		obj.Name("heapSize").Int(r.HeapSize)
		obj.Name("utilization").Float64(r.Utilization)
		obj.Name("elapsedNs").Int(int(r.Elapsed.Nanoseconds()))
		obj.Name("opsPerSec").Float64(r.Throughput())
		obj.Name("growCalls").Int(r.Stats.GrowCalls)
		obj.Name("splits").Int(r.Stats.Splits)
		obj.Name("freeBlocks").Int(r.Stats.FreeBlocks)
		obj.End()
	}
	arr.End()
	if err := w.Error(); err != nil {
		return err
	}
	_, err := os.Stdout.Write(append(w.Bytes(), '\n'))
	return err
}
