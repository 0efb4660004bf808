package codegen

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// DirectivePrefix starts every nibel directive comment.
const DirectivePrefix = "//nibel:"

// MarkerKind identifies a directive.
type MarkerKind int

const (
	// MarkerComposable marks a function as a UI function.
	MarkerComposable MarkerKind = iota
	// MarkerEntry makes a UI function an internal entry.
	MarkerEntry
	// MarkerExternalEntry binds a UI function to a destination type.
	MarkerExternalEntry
	// MarkerLegacyEntry makes an existing fragment type an internal entry.
	MarkerLegacyEntry
	// MarkerLegacyExternalEntry binds an existing fragment type to a
	// destination type.
	MarkerLegacyExternalEntry
)

var markerNames = map[string]MarkerKind{
	"composable":            MarkerComposable,
	"entry":                 MarkerEntry,
	"external-entry":        MarkerExternalEntry,
	"legacy-entry":          MarkerLegacyEntry,
	"legacy-external-entry": MarkerLegacyExternalEntry,
}

// allowedArgs lists the argument names each directive accepts.
var allowedArgs = map[MarkerKind][]string{
	MarkerComposable:          nil,
	MarkerEntry:               {"type", "args", "result"},
	MarkerExternalEntry:       {"type", "destination", "result"},
	MarkerLegacyEntry:         {"args", "result"},
	MarkerLegacyExternalEntry: {"destination", "result"},
}

func (k MarkerKind) String() string {
	for name, kind := range markerNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("MarkerKind(%d)", int(k))
}

// Navigation reports whether k requests an entry.
func (k MarkerKind) Navigation() bool { return k != MarkerComposable }

// External reports whether k binds a destination.
func (k MarkerKind) External() bool {
	return k == MarkerExternalEntry || k == MarkerLegacyExternalEntry
}

// Legacy reports whether k wraps an existing fragment type.
func (k MarkerKind) Legacy() bool {
	return k == MarkerLegacyEntry || k == MarkerLegacyExternalEntry
}

// TypeArgs lists the arguments of k holding type references.
func (k MarkerKind) TypeArgs() []string {
	var out []string
	for _, a := range allowedArgs[k] {
		if a != "type" {
			out = append(out, a)
		}
	}
	return out
}

// Marker is one parsed directive.
type Marker struct {
	Kind MarkerKind
	Args map[string]string
	Pos  token.Position
}

// Arg returns the value of argument name.
func (m Marker) Arg(name string) (string, bool) {
	v, ok := m.Args[name]
	return v, ok
}

// String renders m in directive form with sorted arguments.
func (m Marker) String() string {
	var b strings.Builder
	b.WriteString(DirectivePrefix)
	b.WriteString(m.Kind.String())
	keys := make([]string, 0, len(m.Args))
	for k := range m.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(m.Args[k])
	}
	return b.String()
}

// IsDirective reports whether a comment line is a nibel directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, DirectivePrefix)
}

// ParseMarker parses a directive comment such as
// "//nibel:entry type=composable args=Args".
func ParseMarker(text string, pos token.Position) (Marker, error) {
	if !IsDirective(text) {
		return Marker{}, fmt.Errorf("not a nibel directive: %q", text)
	}
	fields := strings.Fields(strings.TrimPrefix(text, DirectivePrefix))
	if len(fields) == 0 {
		return Marker{}, fmt.Errorf("empty nibel directive")
	}
	kind, ok := markerNames[fields[0]]
	if !ok {
		return Marker{}, fmt.Errorf("unknown directive %s%s", DirectivePrefix, fields[0])
	}

	m := Marker{Kind: kind, Args: make(map[string]string), Pos: pos}
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" || value == "" {
			return Marker{}, fmt.Errorf("%s%s: malformed argument %q, want key=value", DirectivePrefix, fields[0], f)
		}
		if !contains(allowedArgs[kind], key) {
			return Marker{}, fmt.Errorf("%s%s: unknown argument %q", DirectivePrefix, fields[0], key)
		}
		if _, dup := m.Args[key]; dup {
			return Marker{}, fmt.Errorf("%s%s: argument %q given twice", DirectivePrefix, fields[0], key)
		}
		m.Args[key] = value
	}
	return m, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
