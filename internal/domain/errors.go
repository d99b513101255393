package domain

import (
	"fmt"
	"strings"
)

// Messages carried by APIError. They name which of the two calls failed and
// how: transport failures say "Error", rejections by the API say "Unable".
const (
	MsgTaxRateTransport = "Error getting tax rate"
	MsgTaxRateRejected  = "Unable to get tax rate"
	MsgOrderTransport   = "Error submitting order"
	MsgOrderRejected    = "Unable to submit order"
)

// ValidationError reports user input that was rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UsageError reports a malformed command line.
type UsageError struct {
	Problems []string
}

func (e *UsageError) Error() string { return strings.Join(e.Problems, "\n") }

// APIError reports a failed exchange with the tax service. StatusCode and
// StatusMessage hold the HTTP status when the failure was an HTTP rejection.
// Result holds the decoded payload when the API answered with a non-zero
// status_code.
type APIError struct {
	Message       string
	StatusCode    int
	StatusMessage string
	Result        *OrderResult
	Err           error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	switch {
	case e.Result != nil:
		fmt.Fprintf(&b, ": status_code %d", e.Result.StatusCode)
		if e.Result.StatusMessage != "" {
			fmt.Fprintf(&b, " (%s)", e.Result.StatusMessage)
		}
	case e.StatusCode != 0:
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
		if e.StatusMessage != "" {
			fmt.Fprintf(&b, " %s", e.StatusMessage)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }
