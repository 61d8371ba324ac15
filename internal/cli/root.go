// Package cli defines the siteguard command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version = "1.1.0"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "siteguard",
		Short: "Heuristic page-risk scanner and sandbox proxy",
		Long: "SiteGuard fetches web pages, scores them with cheap structural heuristics " +
			"and can re-serve a sanitized copy for safe embedding.",
	}

	// Global flags
	rootCmd.PersistentFlags().Duration("timeout", 0, "Fetch timeout (default 12s)")
	rootCmd.PersistentFlags().String("user-agent", "", "Client identifier sent to targets")
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("user-agent", rootCmd.PersistentFlags().Lookup("user-agent"))

	// Environment variable support (SITEGUARD_LISTEN, etc.)
	viper.SetEnvPrefix("SITEGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newDemoServerCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the siteguard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("siteguard %s\n", Version)
		},
	}
}
