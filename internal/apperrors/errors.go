package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindPrecondition Kind = "precondition"
	KindInvalidPath  Kind = "invalid_path"
	KindIO           Kind = "io"
	KindService      Kind = "service"
	KindUnavailable  Kind = "unavailable"
	KindTimeout      Kind = "timeout"
	KindInternal     Kind = "internal"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindPrecondition:
		return "Both the image folder and the crop folder must be selected."
	case KindInvalidPath:
		return "The selected directory is not usable."
	case KindIO:
		return "A filesystem error occurred."
	case KindService:
		return "The crop service reported an error."
	case KindUnavailable:
		return "The crop service is unavailable."
	case KindTimeout:
		return "The crop operation timed out."
	case KindInternal:
		return "An internal error occurred."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Precondition(msg string) error {
	return New(KindPrecondition, msg, nil)
}

func InvalidPath(msg string, err error) error {
	return New(KindInvalidPath, msg, err)
}

func IO(err error) error {
	if err == nil {
		return New(KindIO, "", nil)
	}
	return New(KindIO, err.Error(), err)
}

// Service wraps an error reported by the crop service. The service message is
// kept verbatim so it reaches the user unchanged.
func Service(msg string) error {
	return New(KindService, msg, nil)
}

func Unavailable(err error) error {
	return New(KindUnavailable, "", err)
}

func Timeout(err error) error {
	return New(KindTimeout, "", err)
}

func Internal(err error) error {
	return New(KindInternal, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
