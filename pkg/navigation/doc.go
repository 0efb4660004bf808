// Package navigation provides in-memory navigation backends for nibel hosts.
//
// The package offers the two backends a nibel controller dispatches to:
//
// # Fragment Stack
//
// [FragmentStack] implements [nibel.FragmentManager]. Fragments live in named
// containers, and transactions committed with AddToBackStack are reverted by
// [FragmentStack.PopBackStack]:
//
//	stack := navigation.NewFragmentStack()
//	stack.BeginTransaction().
//	    Replace("content", fragment).
//	    AddToBackStack("").
//	    Commit()
//
// # Route Graph
//
// [Graph] implements [nibel.Graph]. Nodes are registered with route patterns
// whose {name} segments capture parameters:
//
//	graph := navigation.NewGraph()
//	graph.Register(nibel.GraphNode{Name: "profile", Pattern: "profile/{nibel_args}", ArgsKey: "nibel_args"})
//	graph.Navigate("profile/%7B%22ID%22%3A7%7D")
//
// # Hosts
//
// [Host] owns one of each and routes back presses to the graph first, then to
// the fragment stack. Pass [Host.Nibel] to [nibel.NewController]:
//
//	host := navigation.NewHost()
//	ctrl, err := nibel.NewController(rt, host.Nibel())
//
// Deep links are mapped to destinations by a [DeepLinkController].
package navigation
