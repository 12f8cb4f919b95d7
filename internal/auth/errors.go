package auth

import "fmt"

// ErrorKind categorizes authentication failures.
type ErrorKind int

const (
	// KindInvalidCredentialFormat indicates the API key is not a
	// well-formed 36-character credential. Raised before any network call.
	KindInvalidCredentialFormat ErrorKind = iota
	// KindTokenExchangeFailed indicates the token-issuance endpoint
	// returned a non-success status.
	KindTokenExchangeFailed
	// KindMalformedToken indicates the access token's payload segment
	// could not be decoded or lacks required claims.
	KindMalformedToken
	// KindProfileFetchFailed indicates the profile endpoint returned a
	// non-success status.
	KindProfileFetchFailed
	// KindMalformedResponse indicates the profile response is missing
	// expected fields.
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidCredentialFormat:
		return "invalid_credential_format"
	case KindTokenExchangeFailed:
		return "token_exchange_failed"
	case KindMalformedToken:
		return "malformed_token"
	case KindProfileFetchFailed:
		return "profile_fetch_failed"
	case KindMalformedResponse:
		return "malformed_response"
	}
	return fmt.Sprintf("auth_error_%d", int(k))
}

// Error is a typed authentication failure. Status carries the HTTP status
// code for the *Failed kinds and is zero otherwise.
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
