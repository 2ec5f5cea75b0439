package main

import (
	"math/rand"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	genOut  string
	genSeed int64
	genOpts trace.GenOptions
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().StringVarP(&genOut, "output", "o", "", "Write the trace to this file instead of stdout")
	cmd.Flags().Int64Var(&genSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&genOpts.Ops, "ops", 1000, "Number of ops, including the final frees")
	cmd.Flags().IntVar(&genOpts.MaxSize, "max-size", 4096, "Largest request in bytes")
	cmd.Flags().IntVar(&genOpts.MaxLive, "max-live", 512, "Most ids live at once")
	cmd.Flags().IntVar(&genOpts.ReallocPct, "realloc-pct", 20, "Percent of live-id steps that resize")
	cmd.Flags().IntVar(&genOpts.CallocPct, "calloc-pct", 10, "Percent of allocations that zero-allocate")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Generate a random trace",
		Long: `The gen command writes a random well-formed trace: every id is
allocated before use, freed at most once, and freed by the end.

Example:
  heapctl gen --ops 5000 --seed 7 -o random7.rep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
}

func runGen() error {
	t := trace.Generate(rand.New(rand.NewSource(genSeed)), genOpts)

	if genOut == "" {
		_, err := t.WriteTo(os.Stdout)
		return err
	}
	f, err := os.Create(genOut)
	if err != nil {
		return err
	}
	if _, err := t.WriteTo(f); err != nil {
		return errors.CombineErrors(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	printVerbose("Wrote %d ops to %s\n", t.Len(), genOut)
	return nil
}
