package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Markers framing the machine-readable result line printed by report
// commands. Callers (schedulers, wrappers) scan stdout for the pair.
const (
	resultPrefix = "__RESULT_JSON__:"
	resultSuffix = ":__END_RESULT__"
)

// ReportResult is the terminal outcome of one report run.
type ReportResult struct {
	Success bool         `json:"success"`
	PDFPath string       `json:"pdfPath,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ExitCode maps the outcome to a process exit status.
func (r ReportResult) ExitCode() int {
	if r.Success {
		return 0
	}
	return 1
}

// Emit writes the framed result line to w. It is the last line a report
// command prints.
func (r ReportResult) Emit(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s%s%s\n", resultPrefix, b, resultSuffix)
	return err
}

// ParseResult extracts a ReportResult from a line of command output.
// It returns false when the line carries no result marker.
func ParseResult(line string) (ReportResult, bool) {
	start := strings.Index(line, resultPrefix)
	if start < 0 {
		return ReportResult{}, false
	}
	rest := line[start+len(resultPrefix):]
	end := strings.LastIndex(rest, resultSuffix)
	if end < 0 {
		return ReportResult{}, false
	}
	var r ReportResult
	if err := json.Unmarshal([]byte(rest[:end]), &r); err != nil {
		return ReportResult{}, false
	}
	return r, true
}

// SuccessResult builds a success outcome for the given PDF.
func SuccessResult(pdfPath string) ReportResult {
	return ReportResult{Success: true, PDFPath: pdfPath}
}

// FailureResult builds a failure outcome from any error, preserving the
// code when err is a ReportError.
func FailureResult(err error) ReportResult {
	detail := &ErrorDetail{Code: ErrCodeInternal, Message: err.Error()}
	if re, ok := err.(*ReportError); ok {
		detail = re.ToDetail()
	}
	return ReportResult{Success: false, Error: detail}
}
