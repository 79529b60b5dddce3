// Package apperr holds the error taxonomy shared by the domain packages.
// The HTTP layer maps a Kind to a status code; domain code never sees HTTP.
package apperr

import (
	"github.com/go-faster/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindConflict
	// KindGateway is a definitive answer from the payment provider (declined card).
	KindGateway
	// KindGatewayUnavailable means the provider could not be reached or timed out.
	KindGatewayUnavailable
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindGateway:
		return "gateway"
	case KindGatewayUnavailable:
		return "gateway_unavailable"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified error with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string { return e.Message }

// ErrorKind lets typed errors outside this package take part in classification.
func (e *Error) ErrorKind() Kind { return e.Kind }

// ErrorCode is the stable code rendered to clients.
func (e *Error) ErrorCode() string { return e.Code }

type kinded interface {
	ErrorKind() Kind
}

type coded interface {
	ErrorCode() string
}

// Detailed errors expose extra fields for the response body (e.g. a charge id).
type Detailed interface {
	Details() map[string]any
}

// KindOf reports the first classified error in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

// CodeOf reports the stable code of err, or "internal" for unclassified errors.
func CodeOf(err error) string {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return "internal"
}

// DetailsOf collects response details from err's chain.
func DetailsOf(err error) map[string]any {
	var d Detailed
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}

// Persistence wraps a storage failure so it renders as a generic 500.
// Errors that are already classified keep their kind.
func Persistence(err error, op string) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return errors.Wrap(err, op)
	}
	return &wrapped{kind: KindPersistence, code: "persistence_error", err: errors.Wrap(err, op)}
}

type wrapped struct {
	kind Kind
	code string
	err  error
}

func (w *wrapped) Error() string     { return w.err.Error() }
func (w *wrapped) Unwrap() error     { return w.err }
func (w *wrapped) ErrorKind() Kind   { return w.kind }
func (w *wrapped) ErrorCode() string { return w.code }
