package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apicentric/cloudcheck"
	"github.com/apicentric/cloudcheck/internal/common"
)

// VerifyCmd runs the ordered API verification sequence against the target.
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the API verification stages against a cloud server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sess := cloudcheck.NewSession()
		if err := cfg.Bootstrap(cmd.Context(), sess); err != nil {
			return err
		}

		store, err := cfg.OpenHistory()
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		if store != nil {
			defer func() { _ = store.Close() }()
		}

		runID := time.Now().UTC().Format("20060102T150405Z")
		entries, err := cloudcheck.Verify(cmd.Context(), cloudcheck.VerifyOptions{
			BaseURL:       cfg.Target.URL,
			ReadyTimeout:  cfg.WaitTimeout(),
			ReadyInterval: cfg.WaitInterval(),
			TLS:           cfg.TLSConfig(),
			Out:           os.Stdout,
			Color:         common.ShouldUseColor(os.Stdout),
			Session:       sess,
			History:       store,
			RunID:         runID,
		})
		if err != nil {
			// Readiness failure is the one fatal pre-stage condition.
			return err
		}

		failed := 0
		for _, e := range entries {
			if !e.Passed {
				failed++
			}
		}
		common.GetLogger().WithComponent("verify").Info("run recorded",
			"run_id", runID, "operations", len(entries), "failed", failed)
		return nil
	},
}
