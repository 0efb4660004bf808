package nibel

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/go-drift/nibel/pkg/results"
)

// DefaultArgsKey names the argument slot in route patterns and bundles.
const DefaultArgsKey = "nibel_args"

// Option configures a Runtime.
type Option func(*Settings)

// WithDestination binds dest's type to f without going through the locator.
func WithDestination(dest ExternalDestination, f EntryFactory) Option {
	return func(s *Settings) {
		if dest == nil || f == nil {
			return
		}
		s.destinations[reflect.TypeOf(dest)] = f
	}
}

// WithArgsKey replaces DefaultArgsKey.
func WithArgsKey(key string) Option {
	return func(s *Settings) {
		if key != "" {
			s.ArgsKey = key
		}
	}
}

// WithTransactionSpec replaces the default transaction backend.
func WithTransactionSpec(spec TransactionSpec) Option {
	return func(s *Settings) {
		if spec != nil {
			s.TransactionSpec = spec
		}
	}
}

// WithGraphSpec replaces the default graph backend.
func WithGraphSpec(spec GraphSpec) Option {
	return func(s *Settings) {
		if spec != nil {
			s.GraphSpec = spec
		}
	}
}

// WithRootDelegate wraps every hosted screen's content.
func WithRootDelegate(d RootDelegate) Option {
	return func(s *Settings) {
		if d != nil {
			s.RootDelegate = d
		}
	}
}

// WithNavigationDelegate replaces the strategy creating controllers and
// rendering host content.
func WithNavigationDelegate(d NavigationDelegate) Option {
	return func(s *Settings) {
		if d != nil {
			s.NavigationDelegate = d
		}
	}
}

// WithLocator replaces the static provider table lookup.
func WithLocator(l Locator) Option {
	return func(s *Settings) {
		if l != nil {
			s.Locator = l
		}
	}
}

// WithSerializer replaces the JSON argument serializer.
func WithSerializer(ser Serializer) Option {
	return func(s *Settings) {
		if ser != nil {
			s.Serializer = ser
		}
	}
}

// WithResults replaces the pending result registry.
func WithResults(r *results.Registry) Option {
	return func(s *Settings) {
		if r != nil {
			s.Results = r
		}
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.Logger = l
		}
	}
}

func defaultSettings() *Settings {
	return &Settings{
		ArgsKey:            DefaultArgsKey,
		TransactionSpec:    DefaultTransactionSpec(),
		GraphSpec:          GraphNavigationSpec{},
		RootDelegate:       EmptyRootDelegate{},
		NavigationDelegate: GraphNavigationDelegate{},
		Locator:            StaticLocator{},
		Serializer:         JSONSerializer{},
		Logger:             zap.NewNop(),
		destinations:       make(map[reflect.Type]EntryFactory),
	}
}
