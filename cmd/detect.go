package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/detect"
)

var detectThreshold float64

var detectCmd = &cobra.Command{
	Use:   "detect [query]",
	Short: "Score a query for ambiguity",
	Long:  `Runs the ambiguity detector on a query and prints the confidence score and the missing-information factors as JSON. Detection is stateless; no config or database is needed.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detector := detect.New(detectThreshold)
		res, err := detector.Detect(strings.Join(args, " "))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	detectCmd.Flags().Float64Var(&detectThreshold, "threshold", 0.25, "confidence threshold for the ambiguous verdict")
	rootCmd.AddCommand(detectCmd)
}
