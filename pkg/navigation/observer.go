package navigation

import (
	"github.com/go-drift/nibel/pkg/nibel"
)

// Record describes one screen on a back stack.
type Record struct {
	// Route is the graph route, empty for fragments.
	Route string
	// Params holds the values captured by the route pattern.
	Params map[string]string
	// Entry is the composable entry hosted at Route, nil for fragments and
	// the root route.
	Entry nibel.ComposableEntry
	// Container is the fragment container, empty for graph screens.
	Container string
	// Fragment is the fragment shown, nil for graph screens.
	Fragment nibel.Fragment
}

// Observer receives navigation events.
type Observer interface {
	// DidPush is called when record is shown on top of previous.
	DidPush(record, previous *Record)
	// DidPop is called when record is removed and previous is shown again.
	DidPop(record, previous *Record)
	// DidReplace is called when newRecord takes the place of oldRecord.
	DidReplace(newRecord, oldRecord *Record)
}

// ObserverFuncs adapts optional functions to Observer.
type ObserverFuncs struct {
	OnPush    func(record, previous *Record)
	OnPop     func(record, previous *Record)
	OnReplace func(newRecord, oldRecord *Record)
}

// DidPush calls OnPush if set.
func (o ObserverFuncs) DidPush(record, previous *Record) {
	if o.OnPush != nil {
		o.OnPush(record, previous)
	}
}

// DidPop calls OnPop if set.
func (o ObserverFuncs) DidPop(record, previous *Record) {
	if o.OnPop != nil {
		o.OnPop(record, previous)
	}
}

// DidReplace calls OnReplace if set.
func (o ObserverFuncs) DidReplace(newRecord, oldRecord *Record) {
	if o.OnReplace != nil {
		o.OnReplace(newRecord, oldRecord)
	}
}
