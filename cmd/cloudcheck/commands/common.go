package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apicentric/cloudcheck/cmd/cloudcheck/config"
)

// loadConfig reads the config file named by the root --config flag, applies
// environment overrides and installs the configured logger.
func loadConfig(cmd *cobra.Command) (*config.ConfigDoc, error) {
	path := viper.GetString("config")
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		path = f.Value.String()
	} else if f := cmd.Root().PersistentFlags().Lookup("config"); f != nil {
		path = f.Value.String()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.SetupLogger()
	return cfg, nil
}
