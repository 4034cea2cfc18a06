package httpc

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
)

// Httpc builds resty clients for the harness. All HTTP traffic (readiness
// probing and stage operations) goes through clients created here so TLS
// settings apply uniformly.
type Httpc struct {
	TlsConfig *tls.Config
	// Timeout caps a single request; zero means no client-side cap.
	Timeout time.Duration
}

// New returns a resty.Client configured according to the receiver's settings.
// Defaults: MinVersion TLS1.3 when MinVersion is zero.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS13
	}
	c.SetTLSClientConfig(cfg)
	return c
}
