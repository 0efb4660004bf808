package nibel

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/go-drift/nibel/pkg/errors"
	"github.com/go-drift/nibel/pkg/results"
)

const (
	stateUnconfigured int32 = iota
	stateConfiguring
	stateConfigured
)

// Settings is the configuration of a Runtime. It is read-only once
// Configure returns.
type Settings struct {
	ArgsKey            string
	TransactionSpec    TransactionSpec
	GraphSpec          GraphSpec
	RootDelegate       RootDelegate
	NavigationDelegate NavigationDelegate
	Locator            Locator
	Serializer         Serializer
	Results            *results.Registry
	Logger             *zap.Logger

	destinations map[reflect.Type]EntryFactory
}

// Runtime resolves destinations to entry factories and hands its settings
// to navigation controllers. Create one with New, or use Default.
type Runtime struct {
	state    atomic.Int32
	settings *Settings

	mu      sync.RWMutex
	cache   map[reflect.Type]EntryFactory
	lookups singleflight.Group
}

// New returns an unconfigured runtime.
func New() *Runtime {
	return &Runtime{cache: make(map[reflect.Type]EntryFactory)}
}

var defaultRuntime = New()

// Default returns the process-wide runtime.
func Default() *Runtime { return defaultRuntime }

// Configure configures the process-wide runtime.
func Configure(opts ...Option) error { return defaultRuntime.Configure(opts...) }

// Configure applies opts over the defaults. It succeeds once per runtime.
func (r *Runtime) Configure(opts ...Option) error {
	if !r.state.CompareAndSwap(stateUnconfigured, stateConfiguring) {
		return errors.New("nibel.Configure", errors.KindConfig, errors.ErrAlreadyConfigured)
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	if s.Results == nil {
		s.Results = results.New(results.WithLogger(s.Logger))
	}

	r.mu.Lock()
	for t, f := range s.destinations {
		r.cache[t] = f
	}
	r.settings = s
	r.mu.Unlock()

	r.state.Store(stateConfigured)
	s.Logger.Debug("nibel configured",
		zap.String("argsKey", s.ArgsKey),
		zap.Int("destinations", len(s.destinations)),
	)
	return nil
}

// Configured reports whether Configure has completed.
func (r *Runtime) Configured() bool {
	return r.state.Load() == stateConfigured
}

func (r *Runtime) current(op string) (*Settings, error) {
	if r.state.Load() != stateConfigured {
		return nil, errors.New(op, errors.KindConfig, errors.ErrNotConfigured)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

// Settings returns a copy of the configuration.
func (r *Runtime) Settings() (Settings, error) {
	s, err := r.current("nibel.Settings")
	if err != nil {
		return Settings{}, err
	}
	return *s, nil
}

// ArgsKey returns the configured argument key.
func (r *Runtime) ArgsKey() (string, error) {
	s, err := r.current("nibel.ArgsKey")
	if err != nil {
		return "", err
	}
	return s.ArgsKey, nil
}

// Results returns the pending result registry.
func (r *Runtime) Results() (*results.Registry, error) {
	s, err := r.current("nibel.Results")
	if err != nil {
		return nil, err
	}
	return s.Results, nil
}

// FindEntryFactory returns the factory for dest's type, resolving it
// through the locator on first use and from the cache afterwards.
func (r *Runtime) FindEntryFactory(dest ExternalDestination) (EntryFactory, error) {
	const op = "nibel.FindEntryFactory"
	s, err := r.current(op)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, &errors.NibelError{Op: op, Kind: errors.KindResolution, Err: errors.ErrNotAssociated, Destination: "<nil>"}
	}

	t := reflect.TypeOf(dest)
	if f, ok := r.cached(t); ok {
		return f, nil
	}

	qualified := QualifiedTypeName(t)
	v, err, _ := r.lookups.Do(qualified, func() (any, error) {
		if f, ok := r.cached(t); ok {
			return f, nil
		}
		provider, err := s.Locator.Resolve(qualified)
		if err != nil {
			if !errors.Is(err, errors.ErrNotAssociated) {
				err = fmt.Errorf("%w: %v", errors.ErrNotAssociated, err)
			}
			return nil, &errors.NibelError{Op: op, Kind: errors.KindResolution, Destination: t.Name(), Err: err}
		}
		f := provider.Provide()
		if f == nil {
			return nil, &errors.NibelError{Op: op, Kind: errors.KindResolution, Destination: t.Name(), Err: errors.ErrNotAssociated}
		}
		r.mu.Lock()
		r.cache[t] = f
		r.mu.Unlock()
		s.Logger.Debug("resolved entry factory",
			zap.String("destination", qualified),
			zap.Stringer("implementation", f.Implementation()),
		)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(EntryFactory), nil
}

func (r *Runtime) cached(t reflect.Type) (EntryFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.cache[t]
	return f, ok
}

// FindComposableFactory is FindEntryFactory for callers that need a
// composable entry.
func (r *Runtime) FindComposableFactory(dest ExternalDestination) (ComposableEntryFactory, error) {
	f, err := r.FindEntryFactory(dest)
	if err != nil {
		return nil, err
	}
	cf, ok := f.(ComposableEntryFactory)
	if !ok {
		return nil, wrongVariant("nibel.FindComposableFactory", dest, f)
	}
	return cf, nil
}

// FindTransactionFactory is FindEntryFactory for callers that need a
// transaction entry.
func (r *Runtime) FindTransactionFactory(dest ExternalDestination) (TransactionEntryFactory, error) {
	f, err := r.FindEntryFactory(dest)
	if err != nil {
		return nil, err
	}
	tf, ok := f.(TransactionEntryFactory)
	if !ok {
		return nil, wrongVariant("nibel.FindTransactionFactory", dest, f)
	}
	return tf, nil
}

func wrongVariant(op string, dest ExternalDestination, f EntryFactory) error {
	return &errors.NibelError{
		Op:          op,
		Kind:        errors.KindResolution,
		Destination: reflect.TypeOf(dest).Name(),
		Err:         fmt.Errorf("%w: factory builds %s entries", errors.ErrWrongVariant, f.Implementation()),
	}
}

// NewEntry resolves dest and creates its entry.
func (r *Runtime) NewEntry(dest ExternalDestination) (Entry, error) {
	f, err := r.FindEntryFactory(dest)
	if err != nil {
		return nil, err
	}
	return f.NewEntry(dest)
}

// NewController creates a controller for host using the configured
// navigation delegate.
func (r *Runtime) NewController(host Host) (NavigationController, error) {
	s, err := r.current("nibel.NewController")
	if err != nil {
		return nil, err
	}
	return s.NavigationDelegate.NewController(r, host)
}

// ExternalContent renders the composable screen behind dest inline, inside
// the screen described by scope.
func (r *Runtime) ExternalContent(scope *Scope, dest ExternalDestination) (View, error) {
	f, err := r.FindComposableFactory(dest)
	if err != nil {
		return nil, err
	}
	e, err := f.NewComposableEntry(dest)
	if err != nil {
		return nil, err
	}
	return RenderEntry(scope.NavigationController(), e), nil
}
