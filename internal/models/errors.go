package models

// APIError is the standardized error response shape: an application-specific
// error code, a human-readable message, and optional details.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Application-specific error codes.
const (
	ErrorCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorCodeValidation          = "VALIDATION_ERROR"
	ErrorCodeNotFound            = "NOT_FOUND"
	ErrorCodeRunNotFound         = "RUN_NOT_FOUND"
	ErrorCodeSchemaError         = "SCHEMA_ERROR"
	ErrorCodeIntegrationError    = "INTEGRATION_ERROR"
	ErrorCodeNotReady            = "NOT_READY"
)
