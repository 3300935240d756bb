package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes carry a module prefix ("COMMON", "PROJ", "PIPE", "SVC") followed by a
// sequence number.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeValidation      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeConflict        ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests ErrorCode = "COMMON_005"
	ErrCodeSerialization   ErrorCode = "COMMON_006"
	ErrCodeNotImplemented  ErrorCode = "COMMON_007"
)

// Project Module Error Codes
const (
	ErrCodeProjectNotFound     ErrorCode = "PROJ_001"
	ErrCodeProjectNameRequired ErrorCode = "PROJ_002"
	ErrCodePayloadMismatch     ErrorCode = "PROJ_003"
	ErrCodeNoOpenProject       ErrorCode = "PROJ_004"
)

// Pipeline Module Error Codes
const (
	ErrCodeInvalidStage     ErrorCode = "PIPE_001"
	ErrCodeStageNotPayload  ErrorCode = "PIPE_002"
	ErrCodeInvalidEntryPath ErrorCode = "PIPE_003"
)

// Collaborator Service Error Codes
const (
	ErrCodeServiceUnavailable ErrorCode = "SVC_001"
	ErrCodeServiceTimeout     ErrorCode = "SVC_002"
	ErrCodeArtifactUpload     ErrorCode = "SVC_003"
	ErrCodeEventPublish       ErrorCode = "SVC_004"
)

// Aliases used by the factory helpers.
const (
	CodeOK                 = ErrorCode("OK")
	CodeUnknown            = ErrorCode("UNKNOWN")
	CodeInternal           = ErrCodeInternal
	CodeValidation         = ErrCodeValidation
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeRateLimit          = ErrCodeTooManyRequests
	CodeInvalidStage       = ErrCodeInvalidStage
	CodeServiceUnavailable = ErrCodeServiceUnavailable
)

// ErrorCodeHTTPStatus maps each code to the HTTP status returned by the API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
	ErrCodeSerialization:   http.StatusBadRequest,
	ErrCodeNotImplemented:  http.StatusNotImplemented,

	ErrCodeProjectNotFound:     http.StatusNotFound,
	ErrCodeProjectNameRequired: http.StatusBadRequest,
	ErrCodePayloadMismatch:     http.StatusBadRequest,
	ErrCodeNoOpenProject:       http.StatusConflict,

	ErrCodeInvalidStage:     http.StatusUnprocessableEntity,
	ErrCodeStageNotPayload:  http.StatusUnprocessableEntity,
	ErrCodeInvalidEntryPath: http.StatusUnprocessableEntity,

	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeServiceTimeout:     http.StatusServiceUnavailable,
	ErrCodeArtifactUpload:     http.StatusBadGateway,
	ErrCodeEventPublish:       http.StatusBadGateway,
}

// ErrorCodeMessage holds the default user-facing message per code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal server error",
	ErrCodeValidation:      "validation failed",
	ErrCodeNotFound:        "resource not found",
	ErrCodeConflict:        "resource conflict",
	ErrCodeTooManyRequests: "too many requests",
	ErrCodeSerialization:   "malformed payload",
	ErrCodeNotImplemented:  "not implemented",

	ErrCodeProjectNotFound:     "project not found",
	ErrCodeProjectNameRequired: "project name is required",
	ErrCodePayloadMismatch:     "payload does not match data key",
	ErrCodeNoOpenProject:       "no project is open",

	ErrCodeInvalidStage:     "invalid pipeline stage",
	ErrCodeStageNotPayload:  "payload does not match stage",
	ErrCodeInvalidEntryPath: "unknown entry path",

	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeServiceTimeout:     "service call timed out",
	ErrCodeArtifactUpload:     "failed to upload artifact",
	ErrCodeEventPublish:       "failed to publish event",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
