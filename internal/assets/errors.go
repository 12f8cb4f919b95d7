package assets

import "fmt"

// ErrorKind categorizes upload failures.
type ErrorKind int

const (
	// KindSelectionRequired indicates the caller has not resolved a team
	// and workflow selection. Raised before any network activity.
	KindSelectionRequired ErrorKind = iota
	// KindGetUploadURLFailed indicates the upload-URL endpoint returned a
	// non-success status for a pass.
	KindGetUploadURLFailed
	// KindPutFailed indicates pushing the raw bytes to the pre-signed
	// location failed for a pass.
	KindPutFailed
	// KindGetDownloadURLFailed indicates the download-URL endpoint
	// returned a non-success status for a pass.
	KindGetDownloadURLFailed
	// KindAllUploadsFailed indicates every pass failed; partial success
	// is never reported with this kind.
	KindAllUploadsFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindSelectionRequired:
		return "selection_required"
	case KindGetUploadURLFailed:
		return "get_upload_url_failed"
	case KindPutFailed:
		return "put_failed"
	case KindGetDownloadURLFailed:
		return "get_download_url_failed"
	case KindAllUploadsFailed:
		return "all_uploads_failed"
	}
	return fmt.Sprintf("upload_error_%d", int(k))
}

// Error is a typed upload failure. Pass names the render pass for the
// per-item kinds and is empty otherwise; Status carries the HTTP status
// code when one was received.
type Error struct {
	Kind    ErrorKind
	Pass    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Pass != "" {
		msg = fmt.Sprintf("pass %s: %s", e.Pass, msg)
	}
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
