package main

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/driver"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	dumpHeap heapFlags
	dumpOps  int
)

func init() {
	cmd := newDumpCmd()
	dumpHeap.register(cmd.Flags())
	cmd.Flags().IntVar(&dumpOps, "ops", 0, "Stop after this many ops (0 replays the whole trace)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <trace>",
		Short: "Replay a trace and print the heap map as JSON",
		Long: `The dump command replays a trace, optionally stopping early, and prints
every block and every free list of the resulting heap as JSON.

Example:
  heapctl dump short1.rep --ops 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), args)
		},
	}
}

func runDump(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	t, err := trace.Load(args[0])
	if err != nil {
		return err
	}
	if dumpOps > 0 && dumpOps < len(t.Ops) {
		t.Ops = t.Ops[:dumpOps]
	}

	s, err := dumpHeap.open()
	if err != nil {
		return err
	}
	_, err = driver.Replay(ctx, s.a, t, driver.Options{Verify: true, Seed: dumpHeap.seed, Logger: newLogger()})
	var out []byte
	if err == nil {
		out, err = s.a.DetailedMapJSON()
	}
	if err = errors.CombineErrors(err, s.Close(ctx)); err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}
