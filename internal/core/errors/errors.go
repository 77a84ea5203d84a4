package errors

const (
	HttpInternalError         = "internal_error"
	HttpInvalidJsonError      = "invalid_json"
	HttpBatchNotSupported     = "batch_not_supported"
	HttpValidationFailedError = "validation_failed"
	HttpDuplicateEventError   = "duplicate_event"
	HttpInvalidQueryError     = "invalid_query"
	HttpNotFoundError         = "not_found"
)

// ErrorResponse is the error response body for ingestion errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
