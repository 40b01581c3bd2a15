// Package errordefs defines the errors used by the talkers.
// Callers use NetworkError and DataFormatError to tell "server
// unreachable" apart from "server reachable but response unusable".
package errordefs

import "fmt"

// Network error codes carried by NetworkError
const (
	// CodeGeneric is used for transport failures, application error
	// envelopes, and anything without a more specific code
	CodeGeneric = 0
	// CodeTerminalStatus is used for bad request, forbidden, and
	// not-found responses, which are never retried
	CodeTerminalStatus = 2
	// CodeTimeout is used for transport timeouts
	CodeTimeout = 4
	// CodeRetriesExhausted is used when all attempts fail without a
	// terminal error
	CodeRetriesExhausted = 5
)

var (
	ErrSeriesNotFound = &CustomError{Message: "series not found in source"}
	ErrIssueNotFound  = &CustomError{Message: "issue not found in source"}
)

// CustomError is a custom error
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// NetworkError is returned for transport failures, timeouts, terminal
// non-2xx statuses, exhausted retries, and application error envelopes.
type NetworkError struct {
	Source  string
	Message string
	Code    int
}

func NewNetworkError(source string, code int, message string) *NetworkError {
	return &NetworkError{Source: source, Code: code, Message: message}
}

func (e *NetworkError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s network error (code %d)", e.Source, e.Code)
	}
	return fmt.Sprintf("%s network error (code %d): %s", e.Source, e.Code, e.Message)
}

// DataFormatError is returned when the server responds successfully but
// the body can't be decoded.
type DataFormatError struct {
	Source  string
	Message string
	Code    int
}

func NewDataFormatError(source string, code int, message string) *DataFormatError {
	return &DataFormatError{Source: source, Code: code, Message: message}
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s data format error (code %d): %s", e.Source, e.Code, e.Message)
}
