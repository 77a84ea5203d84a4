package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	httperr "github.com/tripline/eventgate/internal/core/errors"
	"github.com/tripline/eventgate/internal/core/storage"
	"github.com/tripline/eventgate/internal/metrics"
)

const (
	msgReadBodyFailed    = "Failed to read request body"
	msgInvalidJSON       = "Invalid JSON body"
	msgBatchNotSupported = "Batch events not supported. Use single event format."
	msgValidationFailed  = "Event failed validation"
	msgPersistFailed     = "Failed to persist event"
	msgDuplicateEvent    = "Event already exists"

	requestIDHeader = "X-Request-Id"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestResponse is the 202 body of POST /v1/events.
type IngestResponse struct {
	OK        bool       `json:"ok"`
	EventID   string     `json:"eventId"`
	Type      string     `json:"type"`
	Partition string     `json:"partition"`
	Warnings  []v1.Entry `json:"warnings"`
}

// IngestHandler handles HTTP POST requests for event ingestion.
func (s *Service) IngestHandler(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.IngestLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()

	raw, payloadSize, err := s.parseEvent(c)
	if err != nil {
		metrics.EventsIngested.WithLabelValues(string(v1.OutcomeRejected)).Inc()
		writeError(c, err)
		return
	}

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	raw[v1.FieldRequestID] = requestID

	env := s.engine.IngestNormalize(raw)
	metrics.ObserveReport(v1.ModeTolerant, env.Report)

	slog.Info("Received Event",
		"event_id", env.Event.ID,
		"event_type", env.Event.Type,
		"type_inferred", env.Event.Metadata.TypeInferred,
		"request_id", requestID,
		"payload_size", payloadSize,
		"warnings", len(env.Report.Warnings))

	if !env.Accepted() {
		metrics.EventsIngested.WithLabelValues(string(v1.OutcomeRejected)).Inc()
		writeError(c, validationError(env))
		return
	}

	if err := s.persistEvent(c.Request.Context(), env); err != nil {
		writeError(c, err)
		return
	}
	metrics.EventsIngested.WithLabelValues(string(v1.OutcomeAccepted)).Inc()

	// Event persisted to the raw partition. The strict validation job picks it up on its next run.
	c.JSON(http.StatusAccepted, IngestResponse{
		OK:        true,
		EventID:   env.Event.ID,
		Type:      env.Event.Type,
		Partition: env.Event.Metadata.Partition,
		Warnings:  env.Report.Warnings,
	})
}

// ValidateHandler runs the strict pass on a posted record without persisting it.
// ?type= declares the event type and overrides the record's own type field.
func (s *Service) ValidateHandler(c *gin.Context) {
	raw, _, err := s.parseEvent(c)
	if err != nil {
		writeError(c, err)
		return
	}

	env := s.engine.ValidateNormalize(raw, c.Query("type"))
	metrics.ObserveReport(v1.ModeStrict, env.Report)

	c.JSON(http.StatusOK, env)
}

// parseEvent reads the raw request body and decodes it into a single JSON object.
// Returns the decoded event and the raw payload size (used for structured logging upstream).
func (s *Service) parseEvent(c *gin.Context) (v1.RawEvent, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	// Check if body exceeds maximum size
	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var body interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	switch v := body.(type) {
	case map[string]interface{}:
		return v1.RawEvent(v), len(bodyBytes), nil
	case []interface{}:
		slog.Warn("Received batch event, only single events are supported", "count", len(v))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpBatchNotSupported,
			message:    msgBatchNotSupported,
		}
	default:
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Event body must be a JSON object",
		}
	}
}

// validationError reports a tolerant-pass rejection with the full report.
func validationError(env *v1.Envelope) *ingestionError {
	slog.Warn("Event rejected at ingest",
		"event_id", env.Event.ID,
		"event_type", env.Event.Type,
		"errors", len(env.Report.Errors))

	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpValidationFailedError,
		message:    msgValidationFailed,
		details: map[string]interface{}{
			"eventId":  env.Event.ID,
			"type":     env.Event.Type,
			"errors":   env.Report.Errors,
			"warnings": env.Report.Warnings,
		},
	}
}

// persistEvent saves the canonical event to the raw partition class.
func (s *Service) persistEvent(ctx context.Context, env *v1.Envelope) *ingestionError {
	evt := env.Event
	if _, err := s.store.SaveRaw(ctx, evt, env.Report.Warnings); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			metrics.EventsIngested.WithLabelValues("duplicate").Inc()
			slog.Info("Duplicate event rejected", "event_id", evt.ID, "event_type", evt.Type)
			return &ingestionError{
				statusCode: http.StatusConflict,
				errorType:  httperr.HttpDuplicateEventError,
				message:    msgDuplicateEvent,
			}
		}

		slog.Error("Failed to persist event", "error", err, "event_id", evt.ID)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}

	return nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
