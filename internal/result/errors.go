package result

import "fmt"

// ErrorKind categorizes result-wait failures.
type ErrorKind int

const (
	// KindConnectionError indicates the stream could not be established,
	// errored mid-wait, or the wait timed out.
	KindConnectionError ErrorKind = iota
	// KindMalformedResult indicates a terminal success message arrived
	// without the expected nested image URL.
	KindMalformedResult
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectionError:
		return "connection_error"
	case KindMalformedResult:
		return "malformed_result"
	}
	return fmt.Sprintf("result_error_%d", int(k))
}

// Error is a typed result-wait failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
