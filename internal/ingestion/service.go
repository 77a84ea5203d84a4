package ingestion

import (
	"github.com/gin-gonic/gin"
	"github.com/tripline/eventgate/internal/core/storage"
	"github.com/tripline/eventgate/internal/engine"
)

type Service struct {
	engine           *engine.Engine
	store            storage.RawEventStore
	maxBodySizeBytes int
}

func NewService(eng *engine.Engine, repo storage.RawEventStore, maxBodySizeMB int) *Service {
	if eng == nil {
		panic("ingestion: engine must not be nil")
	}
	if repo == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		engine:           eng,
		store:            repo,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Tolerant pass, persisted to the raw partition class.
	r.POST("/v1/events", s.IngestHandler)

	// Strict pass over a posted record, not persisted.
	r.POST("/v1/validate", s.ValidateHandler)
}
