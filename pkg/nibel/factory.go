package nibel

import (
	"fmt"
	"reflect"

	"github.com/go-drift/nibel/pkg/errors"
)

// EntryFactory creates entries for one destination type.
type EntryFactory interface {
	// Implementation tells which variant NewEntry returns.
	Implementation() ImplementationType
	NewEntry(destination ExternalDestination) (Entry, error)
}

// ComposableEntryFactory creates composable entries.
type ComposableEntryFactory interface {
	EntryFactory
	NewComposableEntry(destination ExternalDestination) (ComposableEntry, error)
}

// TransactionEntryFactory creates transaction entries.
type TransactionEntryFactory interface {
	EntryFactory
	NewTransactionEntry(destination ExternalDestination) (TransactionEntry, error)
}

// ComposableFactory adapts a generated constructor taking destination D.
func ComposableFactory[D ExternalDestination, E ComposableEntry](newInstance func(D) E) ComposableEntryFactory {
	return &composableFactory[D, E]{newInstance: newInstance}
}

// TransactionFactory adapts a generated constructor taking destination D.
func TransactionFactory[D ExternalDestination](newInstance func(D) TransactionEntry) TransactionEntryFactory {
	return &transactionFactory[D]{newInstance: newInstance}
}

type composableFactory[D ExternalDestination, E ComposableEntry] struct {
	newInstance func(D) E
}

func (f *composableFactory[D, E]) Implementation() ImplementationType {
	return ImplementationComposable
}

func (f *composableFactory[D, E]) NewComposableEntry(destination ExternalDestination) (ComposableEntry, error) {
	d, ok := destination.(D)
	if !ok {
		return nil, destinationMismatch[D](destination)
	}
	return f.newInstance(d), nil
}

func (f *composableFactory[D, E]) NewEntry(destination ExternalDestination) (Entry, error) {
	return f.NewComposableEntry(destination)
}

type transactionFactory[D ExternalDestination] struct {
	newInstance func(D) TransactionEntry
}

func (f *transactionFactory[D]) Implementation() ImplementationType {
	return ImplementationFragment
}

func (f *transactionFactory[D]) NewTransactionEntry(destination ExternalDestination) (TransactionEntry, error) {
	d, ok := destination.(D)
	if !ok {
		return TransactionEntry{}, destinationMismatch[D](destination)
	}
	return f.newInstance(d), nil
}

func (f *transactionFactory[D]) NewEntry(destination ExternalDestination) (Entry, error) {
	return f.NewTransactionEntry(destination)
}

func destinationMismatch[D any](got ExternalDestination) error {
	want := reflect.TypeFor[D]()
	return &errors.NibelError{
		Op:          "nibel.EntryFactory",
		Kind:        errors.KindResolution,
		Destination: want.Name(),
		Err:         fmt.Errorf("%w: got %T", errors.ErrDestinationMismatch, got),
	}
}
