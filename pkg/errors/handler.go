package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/atomic"
)

type handlerBox struct{ h ErrorHandler }

var current = atomic.NewPointer(&handlerBox{h: NewLogHandler(nil)})

// Handler returns the global error handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// SetHandler installs h as the global error handler and returns the
// handler it replaces. Nil installs a LogHandler on zap's global logger.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = NewLogHandler(nil)
	}
	return current.Swap(&handlerBox{h: h}).h
}

// Report sends err to the global handler, stamping a zero Timestamp.
func Report(err *NibelError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportError reports err and returns what was reported. The first
// NibelError in err's tree is reported as is; any other error is wrapped
// with op and kind.
func ReportError(op string, kind ErrorKind, err error) *NibelError {
	if err == nil {
		return nil
	}
	var ne *NibelError
	if !As(err, &ne) {
		ne = New(op, kind, err)
	}
	Report(ne)
	return ne
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in the calling goroutine.
// Usage: defer errors.Recover("navigation.DeepLinkController")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanic(op, r))
	}
}

// RecoverWithCallback is like Recover and then hands the panic value to
// callback.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		ReportPanic(newPanic(op, r))
		if callback != nil {
			callback(r)
		}
	}
}

func newPanic(op string, r any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: stackFrom(4),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the call stack of its caller.
func CaptureStack() string {
	return stackFrom(3)
}

func stackFrom(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
