package nibel

// ExternalDestination identifies a screen declared in a package the caller
// does not import. Implement it by embedding DestinationWithNoArgs or
// DestinationWithArgs in a struct type.
type ExternalDestination interface {
	externalDestination()
	// DestinationArgs returns the argument payload, or nil when the
	// destination takes no arguments.
	DestinationArgs() any
}

// DestinationWithNoArgs is embedded by destinations without arguments.
//
//	type SettingsDestination struct{ nibel.DestinationWithNoArgs }
type DestinationWithNoArgs struct{}

func (DestinationWithNoArgs) externalDestination() {}

// DestinationArgs returns nil.
func (DestinationWithNoArgs) DestinationArgs() any { return nil }

// DestinationWithArgs is embedded by destinations that carry arguments of
// type A to the screen.
//
//	type ProfileDestination struct{ nibel.DestinationWithArgs[ProfileArgs] }
type DestinationWithArgs[A any] struct {
	Args A
}

func (DestinationWithArgs[A]) externalDestination() {}

// DestinationArgs returns the payload.
func (d DestinationWithArgs[A]) DestinationArgs() any { return d.Args }

// WithArgs builds the embedded part of a destination with arguments.
func WithArgs[A any](args A) DestinationWithArgs[A] {
	return DestinationWithArgs[A]{Args: args}
}

// NoArgs marks an entry without arguments. It is never a valid payload for
// DestinationWithArgs.
type NoArgs struct{}

// NoResult marks an entry that returns no result.
type NoResult struct{}

// ImplementationType tells which UI paradigm renders a screen.
type ImplementationType int

const (
	// ImplementationUnknown is the zero value.
	ImplementationUnknown ImplementationType = iota
	// ImplementationFragment screens are pushed with fragment transactions.
	ImplementationFragment
	// ImplementationComposable screens are hosted in a route graph.
	ImplementationComposable
)

func (t ImplementationType) String() string {
	switch t {
	case ImplementationFragment:
		return "fragment"
	case ImplementationComposable:
		return "composable"
	default:
		return "unknown"
	}
}

// ParseImplementationType parses "fragment" or "composable".
func ParseImplementationType(s string) (ImplementationType, bool) {
	switch s {
	case "fragment":
		return ImplementationFragment, true
	case "composable":
		return ImplementationComposable, true
	}
	return ImplementationUnknown, false
}
