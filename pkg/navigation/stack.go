package navigation

import (
	"fmt"

	"github.com/go-drift/nibel/pkg/nibel"
)

// FragmentStack keeps the fragments shown in each container and the
// transactions that can be reverted with back navigation. It must be used
// from the UI context only.
type FragmentStack struct {
	// Observers receive push, pop and replace events.
	Observers []Observer

	containers map[string][]nibel.Fragment
	backStack  []committed
}

type opKind int

const (
	opAdd opKind = iota
	opReplace
)

type fragmentOp struct {
	kind      opKind
	container string
	fragment  nibel.Fragment
	previous  []nibel.Fragment
}

type committed struct {
	name string
	ops  []fragmentOp
}

// NewFragmentStack returns an empty stack.
func NewFragmentStack(observers ...Observer) *FragmentStack {
	return &FragmentStack{
		Observers:  observers,
		containers: make(map[string][]nibel.Fragment),
	}
}

// BeginTransaction starts a transaction on s.
func (s *FragmentStack) BeginTransaction() nibel.FragmentTransaction {
	return &fragmentTransaction{stack: s}
}

// Top returns the fragment on top of container.
func (s *FragmentStack) Top(container string) (nibel.Fragment, bool) {
	frags := s.containers[container]
	if len(frags) == 0 {
		return nil, false
	}
	return frags[len(frags)-1], true
}

// Fragments returns the fragments in container, bottom first.
func (s *FragmentStack) Fragments(container string) []nibel.Fragment {
	return append([]nibel.Fragment(nil), s.containers[container]...)
}

// BackStackDepth returns the number of revertible transactions.
func (s *FragmentStack) BackStackDepth() int { return len(s.backStack) }

// CanPop reports whether a transaction can be reverted.
func (s *FragmentStack) CanPop() bool { return len(s.backStack) > 0 }

// PopBackStack reverts the most recent back stack transaction.
// It returns false when there is none.
func (s *FragmentStack) PopBackStack() bool {
	if len(s.backStack) == 0 {
		return false
	}
	last := s.backStack[len(s.backStack)-1]
	s.backStack = s.backStack[:len(s.backStack)-1]

	for i := len(last.ops) - 1; i >= 0; i-- {
		op := last.ops[i]
		removed := &Record{Container: op.container, Fragment: op.fragment}
		s.containers[op.container] = op.previous
		var shown *Record
		if top, ok := s.Top(op.container); ok {
			shown = &Record{Container: op.container, Fragment: top}
		}
		for _, o := range s.Observers {
			o.DidPop(removed, shown)
		}
	}
	return true
}

func (s *FragmentStack) apply(ops []fragmentOp, addToBackStack bool, name string) {
	for i := range ops {
		op := &ops[i]
		frags := s.containers[op.container]
		op.previous = append([]nibel.Fragment(nil), frags...)

		record := &Record{Container: op.container, Fragment: op.fragment}
		var previous *Record
		if len(frags) > 0 {
			previous = &Record{Container: op.container, Fragment: frags[len(frags)-1]}
		}

		switch op.kind {
		case opReplace:
			s.containers[op.container] = []nibel.Fragment{op.fragment}
			for _, o := range s.Observers {
				if previous != nil {
					o.DidReplace(record, previous)
				} else {
					o.DidPush(record, nil)
				}
			}
		case opAdd:
			s.containers[op.container] = append(frags, op.fragment)
			for _, o := range s.Observers {
				o.DidPush(record, previous)
			}
		}
	}
	if addToBackStack {
		s.backStack = append(s.backStack, committed{name: name, ops: ops})
	}
}

type fragmentTransaction struct {
	stack          *FragmentStack
	ops            []fragmentOp
	addToBackStack bool
	name           string
	done           bool
}

func (t *fragmentTransaction) Replace(containerID string, f nibel.Fragment) nibel.FragmentTransaction {
	t.ops = append(t.ops, fragmentOp{kind: opReplace, container: containerID, fragment: f})
	return t
}

func (t *fragmentTransaction) Add(containerID string, f nibel.Fragment) nibel.FragmentTransaction {
	t.ops = append(t.ops, fragmentOp{kind: opAdd, container: containerID, fragment: f})
	return t
}

func (t *fragmentTransaction) AddToBackStack(name string) nibel.FragmentTransaction {
	t.addToBackStack = true
	t.name = name
	return t
}

func (t *fragmentTransaction) Commit() error {
	if t.done {
		return fmt.Errorf("fragment transaction committed twice")
	}
	for _, op := range t.ops {
		if op.fragment == nil {
			return fmt.Errorf("nil fragment for container %q", op.container)
		}
	}
	t.done = true
	t.stack.apply(t.ops, t.addToBackStack, t.name)
	return nil
}
