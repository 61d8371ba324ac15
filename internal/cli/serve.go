package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siteguard/siteguard/internal/logging"
	"github.com/siteguard/siteguard/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SiteGuard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()

			if v := viper.GetString("listen"); v != "" {
				cfg.ListenAddr = v
			}
			if v := viper.GetString("history"); v != "" {
				cfg.HistoryPath = v
			}
			if v := viper.GetInt("concurrency"); v > 0 {
				cfg.MaxConcurrency = v
			}
			if v := viper.GetDuration("timeout"); v > 0 {
				cfg.FetchCfg.Timeout = v
			}
			if v := viper.GetString("user-agent"); v != "" {
				cfg.FetchCfg.UserAgent = v
			}
			cfg.Logger = logging.NewStdoutLogger("siteguard")

			s, err := server.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("starting server: %w", err)
			}
			defer s.Close()

			fmt.Printf("SiteGuard API listening on %s\n", cfg.ListenAddr)
			return s.HTTPServer().ListenAndServe()
		},
	}

	cmd.Flags().String("listen", "", "HTTP listen address (default :5000)")
	cmd.Flags().String("history", "", "Scan history SQLite path")
	cmd.Flags().Int("concurrency", 0, "Max parallel fetches in batch scans")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("history", cmd.Flags().Lookup("history"))
	_ = viper.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))

	return cmd
}
