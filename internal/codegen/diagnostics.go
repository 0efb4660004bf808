package codegen

import (
	"fmt"
	"go/token"
	"sort"

	"go.uber.org/multierr"
)

// Rule names the check a diagnostic reports.
type Rule string

const (
	RuleMarker               Rule = "marker"
	RuleComposable           Rule = "composable"
	RuleUnknownType          Rule = "unknown-type"
	RuleDestinationShape     Rule = "destination-shape"
	RuleDestinationEmbed     Rule = "destination-embed"
	RuleNoArgsPayload        Rule = "no-args-payload"
	RuleArgsShape            Rule = "args-shape"
	RuleResultShape          Rule = "result-shape"
	RuleParameter            Rule = "invalid-parameter"
	RuleReturn               Rule = "return-values"
	RuleLegacyTarget         Rule = "legacy-target"
	RuleDuplicateDestination Rule = "duplicate-destination"
	RuleFileCollision        Rule = "file-collision"
)

// Diagnostic is a build-time error for one declaration. It stops
// generation for that declaration only.
type Diagnostic struct {
	Pos     token.Position
	Decl    string
	Rule    Rule
	Message string
}

func (d *Diagnostic) Error() string {
	prefix := ""
	if d.Pos.IsValid() {
		prefix = d.Pos.String() + ": "
	}
	return fmt.Sprintf("%s%s: %s [%s]", prefix, d.Decl, d.Message, d.Rule)
}

func diag(d *Declaration, rule Rule, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Pos:     d.Pos,
		Decl:    d.Name,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	}
}

// Diagnostics is an ordered set of diagnostics.
type Diagnostics []*Diagnostic

// Sort orders ds by position, then declaration.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Pos.Filename != b.Pos.Filename {
			return a.Pos.Filename < b.Pos.Filename
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		return a.Decl < b.Decl
	})
}

// Err combines ds into one error, nil when empty.
func (ds Diagnostics) Err() error {
	var err error
	for _, d := range ds {
		err = multierr.Append(err, d)
	}
	return err
}

// Rules returns the rule of each diagnostic in order.
func (ds Diagnostics) Rules() []Rule {
	out := make([]Rule, len(ds))
	for i, d := range ds {
		out[i] = d.Rule
	}
	return out
}

// DiagnosticsOf extracts the diagnostics combined in err.
func DiagnosticsOf(err error) Diagnostics {
	var out Diagnostics
	for _, e := range multierr.Errors(err) {
		if d, ok := e.(*Diagnostic); ok {
			out = append(out, d)
		}
	}
	return out
}
