package models

import "fmt"

// Error codes used in API responses, the result protocol, and internal
// error handling.
const (
	ErrCodeLaunchTimeout    = "LAUNCH_TIMEOUT"
	ErrCodeDebuggerNotReady = "DEBUGGER_NOT_READY"
	ErrCodeNoTabAvailable   = "NO_TAB_AVAILABLE"
	ErrCodeAttachFailed     = "ATTACH_FAILED"
	ErrCodeNavigation       = "NAVIGATION_FAILED"
	ErrCodeRosterEmpty      = "ROSTER_EMPTY"
	ErrCodeAPIFailure       = "API_FAILURE"
	ErrCodePDFFailure       = "PDF_FAILURE"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReportError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ReportError struct {
	Code    string
	Message string
	Err     error // wrapped original error

	// Diagnostics carries debugger endpoint snapshots gathered when a
	// browser attach fails, keyed by endpoint path.
	Diagnostics map[string]string
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError.
func NewReportError(code, message string, err error) *ReportError {
	return &ReportError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ReportError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
