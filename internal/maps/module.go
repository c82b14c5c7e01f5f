package maps

import (
	apphttp "county_lookup/internal/http"
	"county_lookup/platform/config"
	"county_lookup/platform/logger"
	"county_lookup/platform/validator"
)

// Module wires the proxy routes for the mapping provider.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(cfg config.ProviderConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	if !svc.Configured() {
		log.Warn("maps module started without GOOGLE_API_KEY; proxied requests will fail")
	}
	h := NewHandler(svc, val)
	return &Module{service: svc, handler: h}
}

func (m *Module) Name() string {
	return "maps"
}

// Service returns the upstream client, used in-process by the direct
// lookup transport.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API
	group.GET("/geocode", m.handler.Geocode)
	group.OPTIONS("/geocode", m.handler.Preflight)
	group.GET("/place-details", m.handler.PlaceDetails)
	group.OPTIONS("/place-details", m.handler.Preflight)
	group.GET("/autocomplete", m.handler.Autocomplete)
	group.OPTIONS("/autocomplete", m.handler.Preflight)
}

var _ apphttp.Module = (*Module)(nil)
