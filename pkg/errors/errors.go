// Package errors provides structured error handling for the nibel runtime
// and code generator.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates the runtime was used before or after configuration
	// in a way the configuration contract forbids.
	KindConfig
	// KindResolution indicates a destination could not be mapped to a factory.
	KindResolution
	// KindProtocol indicates misuse of the result navigation protocol.
	KindProtocol
	// KindBackend indicates a failure reported by a navigation backend.
	KindBackend
	// KindGenerate indicates a code generation failure.
	KindGenerate
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindResolution:
		return "resolution"
	case KindProtocol:
		return "protocol"
	case KindBackend:
		return "backend"
	case KindGenerate:
		return "generate"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors. Match them with Is.
var (
	ErrNotConfigured       = stderrors.New("nibel is not configured: call Configure before navigation")
	ErrAlreadyConfigured   = stderrors.New("nibel is already configured")
	ErrNotAssociated       = stderrors.New("is not associated with any external entry")
	ErrWrongVariant        = stderrors.New("entry factory has the wrong implementation type")
	ErrDestinationMismatch = stderrors.New("entry factory received a destination of another type")
	ErrUnknownEntry        = stderrors.New("unknown entry variant")
	ErrNoPendingResult     = stderrors.New("screen was not navigated to via NavigateForResult")
	ErrResultType          = stderrors.New("result type does not match the entry result type")
	ErrUnknownRoute        = stderrors.New("no graph node matches route")
	ErrDuplicateRoute      = stderrors.New("graph node already registered")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// NibelError represents a structured runtime error.
type NibelError struct {
	// Op is the operation that failed (e.g., "nibel.FindEntryFactory").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Destination is the name of the destination or entry involved, if any.
	Destination string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *NibelError) Error() string {
	if e.Destination != "" {
		if stderrors.Is(e.Err, ErrNotAssociated) {
			return fmt.Sprintf("%s [%s]: %s %v", e.Op, e.Kind, e.Destination, e.Err)
		}
		return fmt.Sprintf("%s [%s] destination=%s: %v", e.Op, e.Kind, e.Destination, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *NibelError) Unwrap() error {
	return e.Err
}

// New returns a NibelError stamped with the current time.
func New(op string, kind ErrorKind, err error) *NibelError {
	return &NibelError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// KindOf returns the kind of the first NibelError in err's tree.
func KindOf(err error) ErrorKind {
	var ne *NibelError
	if stderrors.As(err, &ne) {
		return ne.Kind
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "navigation.DeepLinkController").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors that have no caller to return to, such as
// failures of navigation triggered by deep links.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *NibelError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
