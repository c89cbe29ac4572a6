package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/downstream"
)

var (
	resolveUser    string
	resolveAnswers []string
	resolveSend    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [query]",
	Short: "Resolve a query into an intent and an executable prompt",
	Long: `Runs the full pipeline on a query: detection, default-backed
clarification, preference merging, and prompt rendering. Explicit
answers are passed with --answer field=value and outrank stored
preferences. With --send the rendered prompt is forwarded to the
configured downstream agent and its reply is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := buildStack(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		fieldAnswers := map[string]string{}
		for _, pair := range resolveAnswers {
			field, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("malformed --answer %q, want field=value", pair)
			}
			fieldAnswers[field] = value
		}

		ctx := context.Background()
		res, err := st.engine.Resolve(ctx, st.hasher.Hash(resolveUser), strings.Join(args, " "), fieldAnswers)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "pipeline stats: %+v\n", st.counters.Snapshot())
		}

		if !resolveSend {
			return nil
		}
		if cfg.Downstream.Model == "" {
			return fmt.Errorf("--send requires downstream.model in the config")
		}

		fwd := downstream.New(cfg.Downstream.BaseURL, cfg.Downstream.APIKey, cfg.Downstream.Model)
		reply, err := fwd.Send(ctx, res.Prompt)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveUser, "user", "local", "user identity for preference memory")
	resolveCmd.Flags().StringArrayVar(&resolveAnswers, "answer", nil, "explicit answer as field=value (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveSend, "send", false, "forward the rendered prompt to the downstream agent")
	rootCmd.AddCommand(resolveCmd)
}
