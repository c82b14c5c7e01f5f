package lookup

import (
	"fmt"

	"county_lookup/internal/maps"
	"county_lookup/platform/config"
	"county_lookup/platform/logger"
)

// Settings is what NewProvider reads to pick a transport.
type Settings interface {
	config.LookupConfig
	config.ProviderConfig
}

// NewProvider returns the proxy transport, or the in-process one when the
// lookup is configured to hold the credential itself.
func NewProvider(cfg Settings, log *logger.Logger) (Provider, error) {
	switch cfg.GetLookupTransport() {
	case config.TransportProxy, "":
		return NewProxyTransport(cfg.GetLookupProxyURL(), cfg.GetProviderTimeout(), log), nil
	case config.TransportDirect:
		svc := maps.NewService(cfg, log)
		if !svc.Configured() {
			log.Warn("direct transport selected without GOOGLE_API_KEY; lookups will fail")
		}
		return NewDirectTransport(svc), nil
	default:
		return nil, fmt.Errorf("unknown lookup transport %q", cfg.GetLookupTransport())
	}
}
