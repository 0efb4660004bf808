// Package testing provides helpers for testing code that navigates with nibel.
//
// # Time
//
// Result callbacks expire after a time-to-live. Drive expiry deterministically
// with a FakeClock:
//
//	clk := nibeltest.NewFakeClock()
//	reg := results.New(results.WithClock(clk))
//	clk.Advance(6 * time.Minute)
//
// # Results
//
// ResultRecorder captures deliveries made to result callbacks:
//
//	rec := nibeltest.NewResultRecorder()
//	ctrl.NavigateForResult(entry, rec.Callback())
//	// ...
//	if rec.Calls() != 1 { ... }
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import nibeltest "github.com/go-drift/nibel/pkg/testing"
package testing
