package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoSession           = errors.New("no session")
	ErrAuthentication      = errors.New("authentication failed")
	ErrUnauthorized        = errors.New("token rejected")
	ErrValidation          = errors.New("validation failed")
	ErrUpload              = errors.New("upload failed")
	ErrFetch               = errors.New("fetch failed")
	ErrTransport           = errors.New("transport failure")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrNoPendingUpload     = errors.New("no file selected")
	ErrUploadInFlight      = errors.New("upload already in progress")
	ErrInvalidTransition   = errors.New("invalid upload transition")
	ErrReportNotAvailable  = errors.New("report not available")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// UploadKind records why an upload failed. Users only ever see the generic
// message; the kind goes to diagnostics.
type UploadKind string

const (
	UploadRejected     UploadKind = "rejected"
	UploadMalformed    UploadKind = "malformed"
	UploadTransport    UploadKind = "transport"
	UploadUnauthorized UploadKind = "unauthorized"
)

type UploadError struct {
	Kind UploadKind
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() []error {
	return []error{ErrUpload, e.Err}
}

// NewUploadError classifies err by the transport sentinel it wraps.
func NewUploadError(err error) *UploadError {
	kind := UploadRejected
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNoSession):
		kind = UploadUnauthorized
	case errors.Is(err, ErrMalformedResponse):
		kind = UploadMalformed
	case errors.Is(err, ErrTransport):
		kind = UploadTransport
	}
	return &UploadError{Kind: kind, Err: err}
}

// SessionExpired reports whether err means the stored token is no longer
// accepted and the user has to log in again.
func SessionExpired(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNoSession)
}

// UserMessage maps an error to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return "Invalid credentials"
	case SessionExpired(err):
		return "Session expired, please log in again"
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrNoPendingUpload):
		return "Please select a file first"
	case errors.Is(err, ErrUploadInFlight):
		return "Upload already in progress"
	case errors.Is(err, ErrUpload):
		return "Upload failed. Check the log for details."
	case errors.Is(err, ErrReportNotAvailable):
		return "No data available to generate report"
	case errors.Is(err, ErrFetch):
		return "Failed to fetch data from the server"
	default:
		return err.Error()
	}
}
