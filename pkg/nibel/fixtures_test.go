package nibel

import (
	"errors"
	"reflect"
	"strings"
	"sync"
)

type profileArgs struct {
	ID  int
	Tab string
}

type profileResult struct {
	Name string
}

type profileScreenEntry struct {
	ComposableBase
}

func newProfileScreenEntry(args profileArgs) *profileScreenEntry {
	return &profileScreenEntry{ComposableBase: NewComposableBase("com.example.generated.ProfileScreenEntry", args)}
}

func (e *profileScreenEntry) ComposableContent(scope *Scope) View {
	args, _ := ArgsOf[profileArgs](scope)
	return "profile:" + args.Tab
}

func (e *profileScreenEntry) ResultType() reflect.Type { return reflect.TypeFor[profileResult]() }

type homeScreenEntry struct {
	ComposableBase
}

func newHomeScreenEntry() *homeScreenEntry {
	return &homeScreenEntry{ComposableBase: NewComposableBase("com.example.generated.HomeScreenEntry", nil)}
}

func (e *homeScreenEntry) ComposableContent(*Scope) View { return "home" }

type settingsFragment struct {
	FragmentBase
}

func (f *settingsFragment) ComposableContent(scope *Scope) View {
	return scope
}

type pickerFragment struct {
	FragmentBase
}

func (f *pickerFragment) ResultType() reflect.Type { return reflect.TypeFor[profileResult]() }

type D struct {
	DestinationWithNoArgs
}

type ProfileDestination struct {
	DestinationWithArgs[profileArgs]
}

type SettingsDestination struct {
	DestinationWithNoArgs
}

type countingLocator struct {
	mu    sync.Mutex
	table *ProviderTable
	names []string
}

func (l *countingLocator) Resolve(qualified string) (FactoryProvider, error) {
	l.mu.Lock()
	l.names = append(l.names, qualified)
	l.mu.Unlock()
	return StaticLocator{Table: l.table}.Resolve(qualified)
}

func (l *countingLocator) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.names)
}

type fakeOp struct {
	kind      string
	container string
	fragment  Fragment
}

type fakeTransaction struct {
	manager   *fakeFragments
	ops       []fakeOp
	backStack bool
}

func (t *fakeTransaction) Replace(container string, f Fragment) FragmentTransaction {
	t.ops = append(t.ops, fakeOp{"replace", container, f})
	return t
}

func (t *fakeTransaction) Add(container string, f Fragment) FragmentTransaction {
	t.ops = append(t.ops, fakeOp{"add", container, f})
	return t
}

func (t *fakeTransaction) AddToBackStack(string) FragmentTransaction {
	t.backStack = true
	return t
}

func (t *fakeTransaction) Commit() error {
	if t.manager.err != nil {
		return t.manager.err
	}
	t.manager.committed = append(t.manager.committed, t)
	return nil
}

type fakeFragments struct {
	committed []*fakeTransaction
	err       error
}

func (m *fakeFragments) BeginTransaction() FragmentTransaction {
	return &fakeTransaction{manager: m}
}

type fakeGraph struct {
	nodes         []GraphNode
	registrations map[string]int
	navigated     []string
	navigateErr   error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{registrations: make(map[string]int)}
}

func (g *fakeGraph) HasRoute(route string) bool {
	for _, n := range g.nodes {
		if n.Pattern == route {
			return true
		}
		if n.ArgsKey != "" {
			prefix := strings.TrimSuffix(n.Pattern, "{"+n.ArgsKey+"}")
			if strings.HasPrefix(route, prefix) && !strings.Contains(route[len(prefix):], "/") {
				return true
			}
		}
	}
	return false
}

func (g *fakeGraph) Register(node GraphNode) error {
	if g.registrations[node.Pattern] > 0 {
		return errors.New("duplicate node " + node.Pattern)
	}
	g.registrations[node.Pattern]++
	g.nodes = append(g.nodes, node)
	return nil
}

func (g *fakeGraph) Navigate(route string) error {
	if g.navigateErr != nil {
		return g.navigateErr
	}
	g.navigated = append(g.navigated, route)
	return nil
}

type backCounter struct{ n int }

func (b *backCounter) OnBackPressed() { b.n++ }

func typeOf(v any) reflect.Type { return reflect.TypeOf(v) }

type dEntry struct {
	ComposableBase
}

func newDEntryFor(D) *dEntry {
	return &dEntry{ComposableBase: NewComposableBase("com.example.generated.DEntry", nil)}
}

func (e *dEntry) ComposableContent(*Scope) View { return "d" }
