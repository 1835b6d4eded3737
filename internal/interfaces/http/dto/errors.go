package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeConfiguration is used when the document catalog or its tables disagree
	ErrCodeConfiguration = "ERR_CONFIGURATION"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authorization error codes
const (
	// ErrCodeForbidden is used when the caller may not produce the document
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeTemplateNotFound is used when no template serves a doc_code and language
	ErrCodeTemplateNotFound = "ERR_TEMPLATE_NOT_FOUND"
	// ErrCodeBuilderNotFound is used when no builder prefix matches a doc_code
	ErrCodeBuilderNotFound = "ERR_BUILDER_NOT_FOUND"
	// ErrCodeAllocationExhausted is used when every sequence or path candidate is taken
	ErrCodeAllocationExhausted = "ERR_ALLOCATION_EXHAUSTED"
)

// Pipeline error codes
const (
	// ErrCodeInvalidContext is used when a builder produced an unusable context
	ErrCodeInvalidContext = "ERR_INVALID_CONTEXT"
	// ErrCodeRenderFailed is used when the HTML could not be produced
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
	// ErrCodePersistenceFailed is used when the document metadata could not be stored
	ErrCodePersistenceFailed = "ERR_PERSISTENCE_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidLanguage is used for a language outside ar, en and tr
	ErrCodeInvalidLanguage = "ERR_INVALID_LANGUAGE"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeRequestInProgress is used when an Idempotency-Key is reused before the first request finished
	ErrCodeRequestInProgress = "ERR_REQUEST_IN_PROGRESS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:       http.StatusInternalServerError,
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeConfiguration: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	ErrCodeForbidden: http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeTemplateNotFound:    http.StatusNotFound,
	ErrCodeBuilderNotFound:     http.StatusNotFound,
	ErrCodeAllocationExhausted: http.StatusConflict,

	// Pipeline errors
	ErrCodeInvalidContext:    http.StatusUnprocessableEntity,
	ErrCodeRenderFailed:      http.StatusInternalServerError,
	ErrCodePersistenceFailed: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeInvalidLanguage:   http.StatusBadRequest,
	ErrCodeRequestTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeRequestInProgress: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps shared.DomainError codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONFIGURATION_ERROR":  ErrCodeConfiguration,
	"TEMPLATE_NOT_FOUND":   ErrCodeTemplateNotFound,
	"BUILDER_NOT_FOUND":    ErrCodeBuilderNotFound,
	"INVALID_LANGUAGE":     ErrCodeInvalidLanguage,
	"INVALID_CONTEXT":      ErrCodeInvalidContext,
	"ALLOCATION_EXHAUSTED": ErrCodeAllocationExhausted,
	"RENDER_FAILED":        ErrCodeRenderFailed,
	"PERSISTENCE_FAILED":   ErrCodePersistenceFailed,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
