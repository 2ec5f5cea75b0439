package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/driver"
)

var checkHeap heapFlags

func init() {
	cmd := newCheckCmd()
	checkHeap.register(cmd.Flags())
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <trace>...",
		Short: "Replay traces validating the heap after every operation",
		Long: `The check command replays each trace with payload verification on
and a full heap validation after every operation. It stops at the first
violation and reports the operation and the broken invariant.

Example:
  heapctl check traces/*.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args)
		},
	}
}

func runCheck(ctx context.Context, args []string) error {
	results, err := replayAll(ctx, args, &checkHeap, driver.Options{
		CheckHeap: true,
		Verify:    true,
		Seed:      checkHeap.seed,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		printInfo("%s: ok (%d ops)\n", r.Name, r.Ops)
	}
	return nil
}
