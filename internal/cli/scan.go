package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siteguard/siteguard/internal/assessor"
	"github.com/siteguard/siteguard/internal/fetcher"
	"github.com/siteguard/siteguard/internal/logging"
	"github.com/siteguard/siteguard/internal/webclient"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <url>",
		Short: "Scan a single URL and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			wcCfg := webclient.DefaultConfig()
			if v := viper.GetDuration("timeout"); v > 0 {
				wcCfg.Timeout = v
			}
			if v := viper.GetString("user-agent"); v != "" {
				wcCfg.UserAgent = v
			}

			logger := logging.NewStdoutLogger("scan")
			webclient.RegisterDefaultBackends()
			wc, err := webclient.New("nethttp", wcCfg, logger)
			if err != nil {
				return err
			}
			defer wc.Close()

			f, err := fetcher.New(1, wc, logger)
			if err != nil {
				return err
			}

			page, err := f.Fetch(context.Background(), target)
			if err != nil {
				return fmt.Errorf("fetch_error: %w", err)
			}

			features := assessor.ExtractFeatures(page.URL, page.HTML)
			result := assessor.Score(features)

			out := map[string]any{
				"url":      page.URL,
				"score":    result.Score,
				"level":    result.Level,
				"issues":   result.Issues,
				"features": features,
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
