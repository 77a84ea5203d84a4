package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tripline/eventgate/internal/engine"
)

// Service provides the read-only catalog API.
type Service struct {
	engine *engine.Engine
}

// NewService creates a new catalog API service.
func NewService(eng *engine.Engine) *Service {
	if eng == nil {
		panic("schema api: engine must not be nil")
	}
	return &Service{engine: eng}
}

// RegisterRoutes registers the catalog API routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	handler := NewHandler(s.engine)

	types := r.Group("/v1/types")
	{
		types.GET("", handler.HandleList)
		// /v1/types/{type}
		types.GET("/:type", handler.HandleGet)
		types.POST("/:type/validate", handler.HandleValidate)
	}
}
