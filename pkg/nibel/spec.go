package nibel

import (
	"fmt"

	"github.com/go-drift/nibel/pkg/errors"
)

// FragmentManager starts fragment transactions on a host.
type FragmentManager interface {
	BeginTransaction() FragmentTransaction
}

// FragmentTransaction batches fragment operations until Commit.
type FragmentTransaction interface {
	Replace(containerID string, f Fragment) FragmentTransaction
	Add(containerID string, f Fragment) FragmentTransaction
	AddToBackStack(name string) FragmentTransaction
	Commit() error
}

// TransactionContext is what a TransactionSpec navigates with.
type TransactionContext struct {
	Fragments FragmentManager
}

// TransactionSpec performs navigation to transaction entries.
type TransactionSpec interface {
	NavigateTransaction(ctx TransactionContext, entry TransactionEntry) error
}

// DefaultContainerID is the container fragments are placed in by default.
const DefaultContainerID = "content"

// FragmentTransactionSpec places the entry's fragment into a container.
type FragmentTransactionSpec struct {
	// Replace replaces the container's current fragment instead of adding
	// on top of it.
	Replace bool
	// AddToBackStack records the transaction so back navigation reverts it.
	AddToBackStack bool
	// ContainerID defaults to DefaultContainerID.
	ContainerID string
}

// DefaultTransactionSpec replaces the content container and records the
// transaction on the back stack.
func DefaultTransactionSpec() FragmentTransactionSpec {
	return FragmentTransactionSpec{Replace: true, AddToBackStack: true, ContainerID: DefaultContainerID}
}

// NavigateTransaction commits a transaction showing the entry's fragment.
func (s FragmentTransactionSpec) NavigateTransaction(ctx TransactionContext, entry TransactionEntry) error {
	if ctx.Fragments == nil {
		return fmt.Errorf("no fragment manager on this host")
	}
	container := s.ContainerID
	if container == "" {
		container = DefaultContainerID
	}
	tx := ctx.Fragments.BeginTransaction()
	if s.Replace {
		tx = tx.Replace(container, entry.Fragment())
	} else {
		tx = tx.Add(container, entry.Fragment())
	}
	if s.AddToBackStack {
		tx = tx.AddToBackStack("")
	}
	return tx.Commit()
}

// GraphNode is a destination registered in a route graph.
type GraphNode struct {
	// Name is the route name without argument placeholder.
	Name string
	// Pattern is the route template matched on navigation, either Name or
	// Name + "/{" + ArgsKey + "}".
	Pattern string
	// ArgsKey names the argument placeholder, empty when there is none.
	ArgsKey string
	// Entry renders the node. It is nil for the root node.
	Entry ComposableEntry
}

// Graph is a route graph hosting composable entries.
type Graph interface {
	// HasRoute reports whether some registered node matches route.
	HasRoute(route string) bool
	// Register adds a node. Registering a pattern twice is an error.
	Register(node GraphNode) error
	// Navigate shows the node matching route.
	Navigate(route string) error
}

// EntryNavigator is implemented by graphs that show the navigated entry
// itself rather than the one the matching node was registered with. Entries
// whose arguments do not survive the serializer round trip stay distinct on
// such graphs.
type EntryNavigator interface {
	NavigateEntry(route string, entry ComposableEntry) error
}

// GraphContext is what a GraphSpec navigates with.
type GraphContext struct {
	Graph      Graph
	Explored   *ExploredEntries
	Serializer Serializer
	ArgsKey    string
}

// GraphSpec performs navigation to composable entries.
type GraphSpec interface {
	NavigateGraph(ctx GraphContext, entry ComposableEntry) error
}

// RoutePattern returns the pattern a node for name is registered with.
func RoutePattern(name, argsKey string, hasArgs bool) string {
	if !hasArgs {
		return name
	}
	return name + RouteSeparator + "{" + argsKey + "}"
}

// GraphNavigationSpec registers a node for an entry the first time its
// route is visited, then navigates to it.
type GraphNavigationSpec struct{}

// NavigateGraph navigates to entry, registering its node if needed.
func (GraphNavigationSpec) NavigateGraph(ctx GraphContext, entry ComposableEntry) error {
	if ctx.Graph == nil {
		return fmt.Errorf("no route graph on this host")
	}
	route := entry.Name()
	args := entry.Args()
	if args != nil {
		s := ctx.Serializer
		if s == nil {
			s = JSONSerializer{}
		}
		encoded, err := s.Serialize(args)
		if err != nil {
			return fmt.Errorf("serialize args of %s: %w", entry.Name(), err)
		}
		route += RouteSeparator + encoded
	}

	if !ctx.Graph.HasRoute(route) {
		if ctx.Explored != nil {
			ctx.Explored.Add(entry)
		}
		node := GraphNode{
			Name:    entry.Name(),
			Pattern: RoutePattern(entry.Name(), ctx.ArgsKey, args != nil),
			Entry:   entry,
		}
		if args != nil {
			node.ArgsKey = ctx.ArgsKey
		}
		if err := ctx.Graph.Register(node); err != nil {
			return err
		}
	}
	if en, ok := ctx.Graph.(EntryNavigator); ok {
		return en.NavigateEntry(route, entry)
	}
	return ctx.Graph.Navigate(route)
}

func backendError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var ne *errors.NibelError
	if errors.As(err, &ne) {
		return err
	}
	return &errors.NibelError{
		Op:          op,
		Kind:        errors.KindBackend,
		Destination: name,
		Err:         err,
	}
}
