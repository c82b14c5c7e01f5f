// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"county_lookup/platform/config"
	"county_lookup/platform/httpkit"
	"county_lookup/platform/logger"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Limiter throttles clients; nil disables rate limiting.
	Limiter httpkit.Limiter
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
