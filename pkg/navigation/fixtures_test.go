package navigation

import (
	"reflect"

	"github.com/go-drift/nibel/pkg/nibel"
)

type screenFragment struct {
	nibel.FragmentBase
	name string
}

func newScreenFragment(name string) *screenFragment { return &screenFragment{name: name} }

type noteArgs struct {
	ID    int
	Title string
}

type noteResult struct {
	Saved bool
}

type noteEntry struct {
	nibel.ComposableBase
}

func newNoteEntry(args noteArgs) *noteEntry {
	return &noteEntry{ComposableBase: nibel.NewComposableBase("example.com/notes/generated.NoteScreenEntry", args)}
}

func (e *noteEntry) ComposableContent(scope *nibel.Scope) nibel.View {
	args, _ := nibel.ArgsOf[noteArgs](scope)
	return "note:" + args.Title
}

func (e *noteEntry) ResultType() reflect.Type { return reflect.TypeFor[noteResult]() }

type listEntry struct {
	nibel.ComposableBase
}

func newListEntry() *listEntry {
	return &listEntry{ComposableBase: nibel.NewComposableBase("example.com/notes/generated.ListScreenEntry", nil)}
}

func (e *listEntry) ComposableContent(*nibel.Scope) nibel.View { return "list" }

// pinArgs carries no exported fields, so JSON encodes every value as {}.
type pinArgs struct {
	id int
}

type pinEntry struct {
	nibel.ComposableBase
}

func newPinEntry(id int) *pinEntry {
	return &pinEntry{ComposableBase: nibel.NewComposableBase("example.com/notes/generated.PinScreenEntry", pinArgs{id: id})}
}

func (e *pinEntry) ComposableContent(scope *nibel.Scope) nibel.View {
	args, _ := nibel.ArgsOf[pinArgs](scope)
	return args.id
}

type NoteDestination struct {
	nibel.DestinationWithArgs[noteArgs]
}

type ListDestination struct {
	nibel.DestinationWithNoArgs
}

type SettingsDestination struct {
	nibel.DestinationWithNoArgs
}

type eventLog struct {
	events []string
}

func (l *eventLog) observer() Observer {
	name := func(r *Record) string {
		if r == nil {
			return "<nil>"
		}
		if r.Fragment != nil {
			if f, ok := r.Fragment.(*screenFragment); ok {
				return f.name
			}
			return "fragment"
		}
		return r.Route
	}
	return ObserverFuncs{
		OnPush:    func(r, p *Record) { l.events = append(l.events, "push "+name(r)+" over "+name(p)) },
		OnPop:     func(r, p *Record) { l.events = append(l.events, "pop "+name(r)+" to "+name(p)) },
		OnReplace: func(n, o *Record) { l.events = append(l.events, "replace "+name(o)+" with "+name(n)) },
	}
}
