package projection

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	httperr "github.com/tripline/eventgate/internal/core/errors"
	"github.com/tripline/eventgate/internal/core/storage"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/events/:event_id", s.HandleEventStatus)
	r.GET("/v1/partitions/:class", s.HandleListPartition)
}

// HandleEventStatus handles GET /v1/events/:event_id
func (s *Service) HandleEventStatus(c *gin.Context) {
	resp, err := s.EventStatus(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		writeError(c, err, "Failed to look up event")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListPartition handles GET /v1/partitions/:class
// Query parameters: type, date, limit
func (s *Service) HandleListPartition(c *gin.Context) {
	var query struct {
		Type  string `form:"type" binding:"required"`
		Date  string `form:"date" binding:"required"`
		Limit int    `form:"limit"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.ListPartition(c.Request.Context(), PartitionQueryRequest{
		Class: v1.Destination(c.Param("class")),
		Type:  query.Type,
		Date:  query.Date,
		Limit: query.Limit,
	})
	if err != nil {
		writeError(c, err, "Failed to list partition")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query",
			Details:   err.Error(),
		})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Event not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
