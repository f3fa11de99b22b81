package request

import "fmt"

// HTTPStatusError reports a response outside the 2xx range.
type HTTPStatusError struct {
	Status int
	URL    string
	// Body holds a trimmed snippet of the response for diagnostics.
	Body string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// ParseError reports a success response whose body is not valid JSON.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response body: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransportError reports a call that never produced a response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
