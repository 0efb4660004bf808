package nibel

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-drift/nibel/pkg/errors"
)

// ResultCallback receives the result of a screen opened for a result, or
// nil when the screen was cancelled.
type ResultCallback func(result any)

// NavigationController navigates away from the screen it was handed to.
type NavigationController interface {
	// NavigateBack performs the host's back navigation. It does not resolve
	// pending results.
	NavigateBack()
	NavigateTo(entry Entry, opts ...NavigateOption) error
	NavigateToDestination(dest ExternalDestination, opts ...NavigateOption) error
	NavigateForResult(entry Entry, callback ResultCallback, opts ...NavigateOption) error
	NavigateToDestinationForResult(dest ExternalDestination, callback ResultCallback, opts ...NavigateOption) error
	// SetResultAndNavigateBack delivers result to the screen that opened the
	// current one for a result, then navigates back.
	SetResultAndNavigateBack(result any) error
	// CancelResultAndNavigateBack delivers nil to a pending result callback,
	// if any, and navigates back.
	CancelResultAndNavigateBack()
}

// NavigateOption overrides a backend for one navigation.
type NavigateOption func(*navigateOptions)

type navigateOptions struct {
	transaction TransactionSpec
	graph       GraphSpec
}

// WithTransaction uses spec instead of the configured transaction backend.
func WithTransaction(spec TransactionSpec) NavigateOption {
	return func(o *navigateOptions) { o.transaction = spec }
}

// WithGraph uses spec instead of the configured graph backend.
func WithGraph(spec GraphSpec) NavigateOption {
	return func(o *navigateOptions) { o.graph = spec }
}

// ControllerState is the position of a Controller in the navigation
// protocol.
type ControllerState int

const (
	// StateIdle means no navigation is running and no result is expected.
	StateIdle ControllerState = iota
	// StateNavigating means a backend is handling a navigation.
	StateNavigating
	// StateAwaitingResult means the current screen was opened for a result.
	StateAwaitingResult
)

func (s ControllerState) String() string {
	switch s {
	case StateNavigating:
		return "navigating"
	case StateAwaitingResult:
		return "awaiting-result"
	default:
		return "idle"
	}
}

type pendingResult struct {
	key        string
	resultType reflect.Type
}

// Controller is the default NavigationController. It must be used from the
// host's UI context only.
type Controller struct {
	runtime    *Runtime
	settings   *Settings
	host       Host
	navigating bool
	pending    *pendingResult
	newKey     func() string
}

// NewController returns a controller for host. The runtime must be
// configured.
func NewController(rt *Runtime, host Host) (*Controller, error) {
	s, err := rt.current("nibel.NewController")
	if err != nil {
		return nil, err
	}
	if host.Explored == nil {
		host.Explored = NewExploredEntries()
	}
	return &Controller{
		runtime:  rt,
		settings: s,
		host:     host,
		newKey:   uuid.NewString,
	}, nil
}

// State returns the protocol state.
func (c *Controller) State() ControllerState {
	switch {
	case c.navigating:
		return StateNavigating
	case c.pending != nil:
		return StateAwaitingResult
	default:
		return StateIdle
	}
}

// RequestKey returns the key of the pending result request, if any.
func (c *Controller) RequestKey() string {
	if c.pending == nil {
		return ""
	}
	return c.pending.key
}

// SetRequestKey marks the current screen as opened for a result under key.
// Hosts call it when a screen arrives with a request key in its arguments.
func (c *Controller) SetRequestKey(key string) {
	if key == "" {
		c.pending = nil
		return
	}
	c.pending = &pendingResult{key: key}
}

// Host returns the backends the controller navigates with.
func (c *Controller) Host() Host { return c.host }

// NavigateBack delegates to the host's back dispatcher.
func (c *Controller) NavigateBack() {
	if c.host.Back == nil {
		c.settings.Logger.Warn("navigate back without a back dispatcher")
		return
	}
	c.host.Back.OnBackPressed()
}

// NavigateTo dispatches entry to the backend matching its variant.
func (c *Controller) NavigateTo(entry Entry, opts ...NavigateOption) error {
	o := navigateOptions{transaction: c.settings.TransactionSpec, graph: c.settings.GraphSpec}
	for _, opt := range opts {
		opt(&o)
	}

	c.navigating = true
	defer func() { c.navigating = false }()

	c.settings.Logger.Debug("navigate", zap.String("entry", EntryName(entry)))
	return MatchEntry(entry,
		func(e TransactionEntry) error {
			err := o.transaction.NavigateTransaction(TransactionContext{Fragments: c.host.Fragments}, e)
			return backendError("nibel.NavigateTo", EntryName(e), err)
		},
		func(e ComposableEntry) error {
			err := o.graph.NavigateGraph(GraphContext{
				Graph:      c.host.Graph,
				Explored:   c.host.Explored,
				Serializer: c.settings.Serializer,
				ArgsKey:    c.settings.ArgsKey,
			}, e)
			return backendError("nibel.NavigateTo", EntryName(e), err)
		},
	)
}

// NavigateToDestination resolves dest and navigates to its entry.
func (c *Controller) NavigateToDestination(dest ExternalDestination, opts ...NavigateOption) error {
	entry, err := c.runtime.NewEntry(dest)
	if err != nil {
		return err
	}
	return c.NavigateTo(entry, opts...)
}

// NavigateForResult navigates to entry and arranges for callback to receive
// the value the screen passes to SetResultAndNavigateBack. If navigation
// fails the callback is dropped and the error returned.
func (c *Controller) NavigateForResult(entry Entry, callback ResultCallback, opts ...NavigateOption) error {
	key := c.newKey()
	resultType, _ := ResultTypeOf(entry)

	c.settings.Results.Store(key, func(result any) {
		if callback != nil {
			callback(result)
		}
	})
	previous := c.pending
	attachRequestKey(entry, key)
	c.pending = &pendingResult{key: key, resultType: resultType}

	if err := c.NavigateTo(entry, opts...); err != nil {
		c.settings.Results.Remove(key)
		c.pending = previous
		attachRequestKey(entry, "")
		return err
	}
	return nil
}

// NavigateToDestinationForResult resolves dest and navigates to its entry
// for a result.
func (c *Controller) NavigateToDestinationForResult(dest ExternalDestination, callback ResultCallback, opts ...NavigateOption) error {
	entry, err := c.runtime.NewEntry(dest)
	if err != nil {
		return err
	}
	return c.NavigateForResult(entry, callback, opts...)
}

// SetResultAndNavigateBack delivers result to the pending callback and
// navigates back. It fails when the current screen was not opened for a
// result or when result does not have the declared result type.
func (c *Controller) SetResultAndNavigateBack(result any) error {
	const op = "nibel.SetResultAndNavigateBack"
	p := c.pending
	if p == nil {
		return errors.New(op, errors.KindProtocol, errors.ErrNoPendingResult)
	}
	if p.resultType != nil && result != nil && reflect.TypeOf(result) != p.resultType {
		return errors.New(op, errors.KindProtocol,
			fmt.Errorf("%w: got %T, want %s", errors.ErrResultType, result, p.resultType))
	}
	c.pending = nil
	if !c.settings.Results.Resolve(p.key, result) {
		c.settings.Logger.Debug("result callback no longer pending", zap.String("key", p.key))
	}
	c.NavigateBack()
	return nil
}

// CancelResultAndNavigateBack delivers nil to the pending callback, if any,
// and navigates back.
func (c *Controller) CancelResultAndNavigateBack() {
	if p := c.pending; p != nil {
		c.pending = nil
		c.settings.Results.Resolve(p.key, nil)
	}
	c.NavigateBack()
}

// NavigateForResult navigates to entry and calls callback with the typed
// result, or with ok false when the screen was cancelled.
func NavigateForResult[R any](c NavigationController, entry Entry, callback func(result R, ok bool), opts ...NavigateOption) error {
	want := reflect.TypeFor[R]()
	if got, ok := ResultTypeOf(entry); ok && got != want {
		return &errors.NibelError{
			Op:          "nibel.NavigateForResult",
			Kind:        errors.KindProtocol,
			Destination: EntryName(entry),
			Err:         fmt.Errorf("%w: entry returns %s, callback takes %s", errors.ErrResultType, got, want),
		}
	}
	return c.NavigateForResult(entry, typedCallback(callback), opts...)
}

// NavigateToDestinationForResult is NavigateForResult for a destination.
func NavigateToDestinationForResult[R any](c NavigationController, dest ExternalDestination, callback func(result R, ok bool), opts ...NavigateOption) error {
	return c.NavigateToDestinationForResult(dest, typedCallback(callback), opts...)
}

func typedCallback[R any](callback func(R, bool)) ResultCallback {
	return func(result any) {
		r, ok := result.(R)
		callback(r, ok)
	}
}
