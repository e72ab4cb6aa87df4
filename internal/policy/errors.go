package policy

import "errors"

// Kinds of refusal. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrDenied   = errors.New("access denied")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Violation is a refusal with the message shown to the client.
type Violation struct {
	Kind    error
	Message string
}

func (v *Violation) Error() string { return v.Message }

// Unwrap exposes the kind, so errors.Is(err, ErrDenied) works on a *Violation.
func (v *Violation) Unwrap() error { return v.Kind }

// Denied builds an ErrDenied violation.
func Denied(msg string) error { return &Violation{Kind: ErrDenied, Message: msg} }

// NotFound builds an ErrNotFound violation.
func NotFound(msg string) error { return &Violation{Kind: ErrNotFound, Message: msg} }

// Conflict builds an ErrConflict violation.
func Conflict(msg string) error { return &Violation{Kind: ErrConflict, Message: msg} }
