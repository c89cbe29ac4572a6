package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/synth"
)

var (
	benchDataset   string
	benchThreshold float64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Score a dataset against the ambiguity detector",
	Long:  `Replays a JSONL query dataset through the detector and prints the flag rate. Use it to sanity-check detector changes against the seeded synthetic set from uire gen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := synth.Run(benchDataset, detect.New(benchThreshold))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchDataset, "dataset", "data/bench.jsonl", "JSONL dataset path")
	benchCmd.Flags().Float64Var(&benchThreshold, "threshold", 0.25, "confidence threshold for the ambiguous verdict")
	rootCmd.AddCommand(benchCmd)
}
