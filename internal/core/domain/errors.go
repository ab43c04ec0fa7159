package domain

import "errors"

// Kind classifies a domain error so the transport layer can pick a status
// code without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUploadFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUploadFailed:
		return "upload_failed"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by services. Message is safe to show to
// API clients; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns a copy of e carrying cause. errors.Is(result, e) still holds.
func (e *Error) Wrap(cause error) error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// Is matches another *Error with the same kind and message, so wrapped copies
// of a sentinel compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// KindOf reports the Kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of a tagged error.
func MessageOf(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}

var (
	ErrUnauthorized           = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrInvalidCredentials     = &Error{Kind: KindUnauthorized, Message: "Invalid email or password"}
	ErrSessionUserMissing     = &Error{Kind: KindUnauthorized, Message: "User not found"}
	ErrAuthenticationRequired = &Error{Kind: KindUnauthorized, Message: "Authentication required"}

	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrArtisanProfileNotFound = &Error{Kind: KindNotFound, Message: "Artisan profile not found"}

	ErrEmailTaken   = &Error{Kind: KindConflict, Message: "Email already registered"}
	ErrPhoneTaken   = &Error{Kind: KindConflict, Message: "Phone number already registered"}
	ErrContactInUse = &Error{Kind: KindConflict, Message: "Email or phone number already in use"}

	ErrUploadFailed      = &Error{Kind: KindUploadFailed, Message: "Failed to upload image"}
	ErrBatchUploadFailed = &Error{Kind: KindUploadFailed, Message: "Failed to upload images"}
	ErrDeleteFailed      = &Error{Kind: KindUploadFailed, Message: "Failed to delete image"}
)

// NewForbidden builds the error returned by the role gate.
func NewForbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewValidation builds a client-facing validation error with a custom message.
func NewValidation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}
