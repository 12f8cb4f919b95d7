package render

import "fmt"

// ErrorKind categorizes submission failures.
type ErrorKind int

const (
	// KindUnsupportedWorkflow indicates the job's workflow id resolves to
	// neither the retexture nor the style-transfer pipeline.
	KindUnsupportedWorkflow ErrorKind = iota
	// KindMissingPass indicates a pass required by the dispatched
	// pipeline was not supplied. Raised before the POST.
	KindMissingPass
	// KindSubmitFailed indicates the processing endpoint returned a
	// non-success status.
	KindSubmitFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedWorkflow:
		return "unsupported_workflow"
	case KindMissingPass:
		return "missing_pass"
	case KindSubmitFailed:
		return "submit_failed"
	}
	return fmt.Sprintf("submit_error_%d", int(k))
}

// Error is a typed submission failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
