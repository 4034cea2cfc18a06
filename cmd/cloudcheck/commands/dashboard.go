package commands

import (
	"github.com/spf13/cobra"

	"github.com/apicentric/cloudcheck"
)

// DashboardCmd groups the browser-driven modes.
var DashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Exercise the web dashboard through a headless browser",
}

// RecordCmd records the mocked sidebar walkthrough as a video.
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a demo video of the dashboard against a mocked backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cloudcheck.RecordDemo(cloudcheck.DashboardOptions{
			URL:      cfg.Dashboard.URL,
			VideoDir: cfg.Dashboard.VideoDir,
			Headless: !cfg.Dashboard.Headful,
		})
	},
}

// ScreenshotCmd captures the mocked dashboard as a full-page screenshot.
var ScreenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Verify the dashboard renders and save a full-page screenshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cloudcheck.VerifyDashboard(cloudcheck.DashboardOptions{
			URL:            cfg.Dashboard.URL,
			ScreenshotPath: cfg.Dashboard.ScreenshotPath,
			Headless:       !cfg.Dashboard.Headful,
		})
	},
}

func init() {
	DashboardCmd.AddCommand(RecordCmd)
	DashboardCmd.AddCommand(ScreenshotCmd)
}
