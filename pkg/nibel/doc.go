// Package nibel is the runtime half of nibel: type-safe navigation between
// screens built as fragments (imperative view controllers pushed with
// transactions) and screens built as composables (declarative content
// hosted in a route graph).
//
// Screens are declared with directives understood by the nibelgen code
// generator:
//
//	//nibel:composable
//	//nibel:entry type=composable args=ProfileArgs result=ProfileResult
//	func ProfileScreen(args ProfileArgs, nav nibel.NavigationController) nibel.View {
//	    ...
//	}
//
// The generator emits a ProfileScreenEntry wrapper and NewProfileScreenEntry
// constructor. Screens in other packages are reached through destinations,
// which carry no compile-time reference to the screen that implements them:
//
//	type ProfileDestination struct {
//	    nibel.DestinationWithArgs[ProfileArgs]
//	}
//
//	nav.NavigateToDestination(ProfileDestination{nibel.WithArgs(ProfileArgs{ID: 7})})
//
// A Runtime must be configured once before any navigation:
//
//	if err := nibel.Configure(nibel.WithLogger(logger)); err != nil {
//	    return err
//	}
//
// Destinations are resolved lazily. Generated discovery files register a
// FactoryProvider from an init function under a name derived from the
// destination's qualified name (see DiscoveryName), and the runtime caches
// each resolved factory by destination type.
package nibel
