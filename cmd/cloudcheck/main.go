package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apicentric/cloudcheck/cmd/cloudcheck/commands"
	"github.com/apicentric/cloudcheck/internal/common"
)

var rootCmd = &cobra.Command{
	Use:   "cloudcheck",
	Short: "Black-box verification harness for the Apicentric cloud server",
	RunE:  commands.VerifyCmd.RunE,
}

func init() {
	v := viper.GetViper()
	v.SetDefault("config", "./config/cloudcheck.yaml")

	// Environment variables support: CLOUDCHECK_CONFIG, ...
	v.SetEnvPrefix("CLOUDCHECK")
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a config yaml")
	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(commands.VerifyCmd)
	rootCmd.AddCommand(commands.WaitCmd)
	rootCmd.AddCommand(commands.DashboardCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		common.GetLogger().Error("command failed", "error", err)
		os.Exit(1)
	}
}
