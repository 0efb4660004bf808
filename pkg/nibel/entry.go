package nibel

import (
	"fmt"
	"reflect"

	"github.com/go-drift/nibel/pkg/errors"
)

// View is whatever the rendering layer produces for a screen.
type View any

// Entry is a screen ready to be navigated to. It is either a
// TransactionEntry or a ComposableEntry; no other implementations exist.
// Use MatchEntry to dispatch on the variant.
type Entry interface {
	isEntry()
}

// Arguments is the bundle attached to a fragment.
type Arguments struct {
	// Args is the screen's argument payload, nil when it takes none.
	Args any
	// RequestKey is set when the screen was opened for a result.
	RequestKey string
}

// Fragment is an imperative screen managed with fragment transactions.
type Fragment interface {
	Arguments() Arguments
	SetArguments(Arguments)
}

// ComposableFragment is a fragment whose view is composable content.
type ComposableFragment interface {
	Fragment
	ComposableContent(scope *Scope) View
}

// FragmentBase implements the argument bundle of Fragment. Embed it.
type FragmentBase struct {
	args Arguments
}

// Arguments returns the attached bundle.
func (f *FragmentBase) Arguments() Arguments { return f.args }

// SetArguments replaces the attached bundle.
func (f *FragmentBase) SetArguments(a Arguments) { f.args = a }

// TransactionEntry wraps a fragment instance.
type TransactionEntry struct {
	fragment Fragment
}

// NewTransactionEntry wraps f.
func NewTransactionEntry(f Fragment) TransactionEntry {
	return TransactionEntry{fragment: f}
}

// Fragment returns the wrapped fragment.
func (e TransactionEntry) Fragment() Fragment { return e.fragment }

func (TransactionEntry) isEntry() {}

// ComposableEntry is a screen rendered inline by the graph backend.
// Implementations embed ComposableBase.
type ComposableEntry interface {
	Entry
	// Name is the route name identifying the entry in the graph.
	Name() string
	// Args returns the argument payload, nil when the screen takes none.
	Args() any
	// RequestKey is set when the entry was opened for a result.
	RequestKey() string
	// ComposableContent renders the screen.
	ComposableContent(scope *Scope) View

	base() *ComposableBase
}

// ComposableBase carries the route name, arguments and request key of a
// composable entry.
type ComposableBase struct {
	name       string
	args       any
	requestKey string
}

// NewComposableBase derives the route name from the wrapper's qualified name
// and the argument payload.
func NewComposableBase(qualifiedName string, args any) ComposableBase {
	return ComposableBase{name: BuildRouteName(qualifiedName, args), args: args}
}

// Name returns the route name.
func (b *ComposableBase) Name() string { return b.name }

// Args returns the argument payload.
func (b *ComposableBase) Args() any { return b.args }

// RequestKey returns the attached request key.
func (b *ComposableBase) RequestKey() string { return b.requestKey }

func (b *ComposableBase) isEntry() {}

func (b *ComposableBase) base() *ComposableBase { return b }

// ResultEntry is implemented by entries that return a typed result.
type ResultEntry interface {
	ResultType() reflect.Type
}

// ResultTypeOf reports the result type of e, if it declares one.
func ResultTypeOf(e Entry) (reflect.Type, bool) {
	var candidate any
	switch v := e.(type) {
	case TransactionEntry:
		candidate = v.fragment
	case ComposableEntry:
		candidate = v
	default:
		return nil, false
	}
	if re, ok := candidate.(ResultEntry); ok {
		return re.ResultType(), true
	}
	return nil, false
}

// MatchEntry calls the handler matching the variant of e.
func MatchEntry(e Entry, onTransaction func(TransactionEntry) error, onComposable func(ComposableEntry) error) error {
	switch v := e.(type) {
	case TransactionEntry:
		return onTransaction(v)
	case ComposableEntry:
		return onComposable(v)
	default:
		return &errors.NibelError{
			Op:   "nibel.MatchEntry",
			Kind: errors.KindResolution,
			Err:  fmt.Errorf("%w: %T", errors.ErrUnknownEntry, e),
		}
	}
}

// EntryName returns a readable identity for logs and errors.
func EntryName(e Entry) string {
	switch v := e.(type) {
	case TransactionEntry:
		if v.fragment == nil {
			return "<nil fragment>"
		}
		return reflect.TypeOf(v.fragment).String()
	case ComposableEntry:
		return v.Name()
	default:
		return fmt.Sprintf("%T", e)
	}
}

func attachRequestKey(e Entry, key string) {
	switch v := e.(type) {
	case TransactionEntry:
		if v.fragment == nil {
			return
		}
		args := v.fragment.Arguments()
		args.RequestKey = key
		v.fragment.SetArguments(args)
	case ComposableEntry:
		v.base().requestKey = key
	}
}
