package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/synth"
)

var (
	genCount int
	genSeed  int64
	genOut   string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic benchmark dataset",
	Long:  `Writes a seeded synthetic query dataset as JSONL. The same seed always produces the same dataset, so benchmark runs stay comparable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genCount <= 0 {
			return fmt.Errorf("--count must be positive, got %d", genCount)
		}

		if err := os.MkdirAll(filepath.Dir(genOut), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		f, err := os.Create(genOut)
		if err != nil {
			return fmt.Errorf("creating dataset: %w", err)
		}
		defer f.Close()

		bar := progressbar.DefaultBytes(-1, "generating")
		if err := synth.Generate(io.MultiWriter(f, bar), genCount, genSeed); err != nil {
			return err
		}
		bar.Finish()

		fmt.Fprintf(os.Stderr, "wrote %d samples to %s (seed %d)\n", genCount, genOut, genSeed)
		return nil
	},
}

func init() {
	genCmd.Flags().IntVar(&genCount, "count", 500, "number of samples to generate")
	genCmd.Flags().Int64Var(&genSeed, "seed", 42, "random seed")
	genCmd.Flags().StringVar(&genOut, "out", "data/bench.jsonl", "output JSONL path")
	rootCmd.AddCommand(genCmd)
}
