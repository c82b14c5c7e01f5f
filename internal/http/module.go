// Package http holds the pieces shared by the router and the modules that
// mount routes on it.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module is a feature that exposes HTTP routes. The maps proxy is the only
// one today; new endpoints get their own module rather than router edits.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	// RegisterRoutes mounts the module's routes.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module may mount routes on.
type RouterContext struct {
	// Engine is the root engine, for routes outside /api.
	Engine *gin.Engine
	// API is the /api group, rate limited when a limiter is configured.
	API *gin.RouterGroup
}
