package codec

import "fmt"

// DecodeError is returned when a response does not end in a valid JSON document
// or the document does not match the expected resource shape
type DecodeError struct {
	// Line is the response line that failed to decode
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("failed to decode gateway response: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode gateway response %q: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AuthError is returned when the authentication response carries no API key.
// The gateway gives no way to tell an unreachable API from an already
// registered API user, so both surface as this single error.
type AuthError struct {
	// Response is the last line received, if any
	Response string
}

func (e *AuthError) Error() string {
	return "didn't receive a valid API key: the gateway API isn't reachable or the API user already exists"
}
