package commands

import (
	"github.com/spf13/cobra"

	"github.com/apicentric/cloudcheck"
	"github.com/apicentric/cloudcheck/internal/httpc"
	"github.com/apicentric/cloudcheck/internal/probe"
)

// WaitCmd blocks until the target's liveness endpoint answers, without
// running any stages. Useful as a gate in scripts that start the server and
// the harness together.
var WaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the cloud server to become ready",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p := probe.New(&httpc.Httpc{TlsConfig: cfg.TLSConfig()})
		if d := cfg.WaitTimeout(); d > 0 {
			p.Timeout = d
		}
		if d := cfg.WaitInterval(); d > 0 {
			p.Interval = d
		}
		if !p.WaitReady(cmd.Context(), cfg.Target.URL) {
			return cloudcheck.ErrNotReady
		}
		return nil
	},
}
