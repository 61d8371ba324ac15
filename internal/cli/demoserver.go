package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siteguard/siteguard/internal/demoserver"
)

func newDemoServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demoserver",
		Short: "Serve fixture pages for exercising the scanner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := demoserver.DefaultConfig()
			if v := viper.GetInt("demo-port"); v > 0 {
				cfg.Port = v
			}
			return demoserver.NewDemoServer(cfg).Start()
		},
	}

	cmd.Flags().Int("demo-port", 0, "Demo server port (default 9999)")
	_ = viper.BindPFlag("demo-port", cmd.Flags().Lookup("demo-port"))

	return cmd
}
