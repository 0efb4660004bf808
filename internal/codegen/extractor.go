package codegen

import (
	"strconv"

	"github.com/go-drift/nibel/pkg/nibel"
)

const (
	noArgsName          = "NoArgs"
	noResultName        = "NoResult"
	withNoArgsName      = "DestinationWithNoArgs"
	withArgsName        = "DestinationWithArgs"
	controllerName      = "NavigationController"
	implementationName  = "ImplementationType"
	composableTypeValue = "composable"
	fragmentTypeValue   = "fragment"
)

// Extractor validates declarations and builds entry metadata.
type Extractor struct {
	// RuntimePath is the import path of the runtime package.
	RuntimePath string
}

// NewExtractor returns an extractor for the default runtime package.
func NewExtractor() *Extractor {
	return &Extractor{RuntimePath: DefaultRuntimeImport}
}

// Extract validates d. On failure it returns the diagnostics that stop
// generation for d and a nil record.
func (x *Extractor) Extract(d *Declaration) (EntryMetadata, Diagnostics) {
	nav := d.NavigationMarkers()
	switch {
	case len(nav) == 0:
		return nil, Diagnostics{diag(d, RuleMarker, "no entry directive on %s", d.Name)}
	case len(nav) > 1:
		return nil, Diagnostics{diag(d, RuleMarker, "%s carries %d entry directives, want exactly one", d.Name, len(nav))}
	}
	marker := nav[0]

	if marker.Kind.Legacy() {
		if d.Kind != TypeDecl {
			return nil, Diagnostics{diag(d, RuleMarker, "%s%s applies to fragment types, not functions", DirectivePrefix, marker.Kind)}
		}
	} else {
		if d.Kind != FuncDecl {
			return nil, Diagnostics{diag(d, RuleMarker, "%s%s applies to functions, not types", DirectivePrefix, marker.Kind)}
		}
		if !d.Composable {
			return nil, Diagnostics{diag(d, RuleComposable, "only %scomposable functions can carry %s%s", DirectivePrefix, DirectivePrefix, marker.Kind)}
		}
	}

	common := EntryCommon{
		Decl:           d.Name,
		PkgPath:        d.PkgPath,
		PkgName:        d.PkgName,
		Implementation: nibel.ImplementationFragment,
		Legacy:         marker.Kind.Legacy(),
	}

	var diags Diagnostics
	if !marker.Kind.Legacy() {
		impl, ok := marker.Arg("type")
		switch {
		case !ok:
			diags = append(diags, diag(d, RuleMarker, "missing type=%s|%s", composableTypeValue, fragmentTypeValue))
		case impl == composableTypeValue:
			common.Implementation = nibel.ImplementationComposable
		case impl == fragmentTypeValue:
			common.Implementation = nibel.ImplementationFragment
		default:
			diags = append(diags, diag(d, RuleMarker, "unknown implementation type %q", impl))
		}
	}

	for _, name := range marker.Kind.TypeArgs() {
		if _, given := marker.Arg(name); given {
			if _, resolved := d.Types[name]; !resolved {
				diags = append(diags, diag(d, RuleUnknownType, "cannot resolve %s=%s", name, marker.Args[name]))
			}
		}
	}
	if len(diags) > 0 {
		return nil, diags
	}

	var destination *TypeRef
	if marker.Kind.External() {
		dest, ok := d.Types["destination"]
		if !ok {
			return nil, Diagnostics{diag(d, RuleMarker, "missing destination=T")}
		}
		args, ds := x.destinationArgs(d, dest)
		if len(ds) > 0 {
			return nil, ds
		}
		destination = &dest
		common.Args = args
	} else if args, ok := d.Types["args"]; ok {
		if args.Is(x.RuntimePath, noArgsName) {
			common.ArgsSentinel = true
		} else if ds := x.checkPayload(d, args, "args", RuleArgsShape); len(ds) > 0 {
			return nil, ds
		} else {
			common.Args = &args
		}
	}

	if result, ok := d.Types["result"]; ok {
		if result.Is(x.RuntimePath, noResultName) {
			common.ResultSentinel = true
		} else if ds := x.checkPayload(d, result, "result", RuleResultShape); len(ds) > 0 {
			return nil, ds
		} else {
			common.Result = &result
		}
	}

	if marker.Kind.Legacy() {
		if ds := x.checkLegacyTarget(d); len(ds) > 0 {
			return nil, ds
		}
	} else {
		params, ds := x.bindParams(d, common.Args)
		if len(ds) > 0 {
			return nil, ds
		}
		common.Params = params
		switch d.Results {
		case 0:
		case 1:
			common.ReturnsView = true
		default:
			return nil, Diagnostics{diag(d, RuleReturn, "%s returns %d values, want at most one view", d.Name, d.Results)}
		}
	}

	if destination != nil {
		return &ExternalEntryMetadata{EntryCommon: common, Destination: *destination}, nil
	}
	return &InternalEntryMetadata{EntryCommon: common}, nil
}

// destinationArgs validates a destination type and returns its payload
// type, nil for destinations without arguments.
func (x *Extractor) destinationArgs(d *Declaration, dest TypeRef) (*TypeRef, Diagnostics) {
	switch {
	case dest.Pointer:
		return nil, Diagnostics{diag(d, RuleDestinationShape, "destination %s must be a struct type, not a pointer", dest.Qualified())}
	case dest.Shape == ShapeInterface:
		return nil, Diagnostics{diag(d, RuleDestinationShape, "destination %s is an interface; destinations must be concrete structs", dest.Qualified())}
	case dest.Shape == ShapeValue:
		return nil, Diagnostics{diag(d, RuleDestinationShape, "destination %s is a value type; destinations must be structs", dest.Qualified())}
	case dest.Shape != ShapeStruct && dest.Shape != ShapeEmptyStruct:
		return nil, Diagnostics{diag(d, RuleDestinationShape, "destination %s must be a named struct type", dest.Qualified())}
	case dest.Generic:
		return nil, Diagnostics{diag(d, RuleDestinationShape, "destination %s must not have type parameters", dest.Qualified())}
	}

	var recognized []TypeRef
	var others []string
	for _, e := range dest.Embeds {
		if !e.Pointer && (e.Is(x.RuntimePath, withNoArgsName) || e.Is(x.RuntimePath, withArgsName)) {
			recognized = append(recognized, e)
		} else {
			others = append(others, e.Qualified())
		}
	}
	if len(recognized) != 1 || len(others) > 0 {
		return nil, Diagnostics{diag(d, RuleDestinationEmbed,
			"destination %s must directly embed exactly one of nibel.%s or nibel.%s and nothing else",
			dest.Qualified(), withNoArgsName, withArgsName)}
	}

	shape := recognized[0]
	if shape.Name == withNoArgsName {
		return nil, nil
	}
	if len(shape.TypeArgs) != 1 {
		return nil, Diagnostics{diag(d, RuleDestinationEmbed, "nibel.%s of %s needs one type argument", withArgsName, dest.Qualified())}
	}
	args := shape.TypeArgs[0]
	if args.Is(x.RuntimePath, noArgsName) {
		return nil, Diagnostics{diag(d, RuleNoArgsPayload,
			"destination %s cannot use nibel.%s as payload of nibel.%s; embed nibel.%s instead",
			dest.Qualified(), noArgsName, withArgsName, withNoArgsName)}
	}
	if ds := x.checkPayload(d, args, "args", RuleArgsShape); len(ds) > 0 {
		return nil, ds
	}
	return &args, nil
}

// checkPayload validates an args or result type.
func (x *Extractor) checkPayload(d *Declaration, t TypeRef, role string, rule Rule) Diagnostics {
	switch {
	case t.Pointer:
		return Diagnostics{diag(d, rule, "%s type %s must be a struct type, not a pointer", role, t.Qualified())}
	case t.Generic:
		return Diagnostics{diag(d, rule, "%s type %s must not have type parameters", role, t.Qualified())}
	case t.Shape == ShapeEmptyStruct:
		return nil
	case t.Shape != ShapeStruct:
		return Diagnostics{diag(d, rule, "%s type %s is a %s; want a comparable struct or struct{}", role, t.Qualified(), t.Shape)}
	case !t.Comparable:
		return Diagnostics{diag(d, rule, "%s type %s is not comparable; want a struct with comparable fields", role, t.Qualified())}
	case t.HiddenField != "":
		return Diagnostics{diag(d, rule, "%s type %s has unexported field %s; argument serializers cannot carry it", role, t.Qualified(), t.HiddenField)}
	}
	return nil
}

func (x *Extractor) checkLegacyTarget(d *Declaration) Diagnostics {
	self := d.Self
	switch {
	case self.Shape != ShapeStruct && self.Shape != ShapeEmptyStruct:
		return Diagnostics{diag(d, RuleLegacyTarget, "%s is a %s; legacy entries wrap fragment structs", d.Name, self.Shape)}
	case self.Generic:
		return Diagnostics{diag(d, RuleLegacyTarget, "%s must not have type parameters", d.Name)}
	case !self.FragmentMethods:
		return Diagnostics{diag(d, RuleLegacyTarget, "*%s does not implement nibel.Fragment", d.Name)}
	}
	return nil
}

// bindParams matches each parameter to an injectable value by exact type.
func (x *Extractor) bindParams(d *Declaration, args *TypeRef) ([]ParamBinding, Diagnostics) {
	var out []ParamBinding
	var diags Diagnostics
	for i, p := range d.Params {
		b := ParamBinding{Name: p.Name, Type: p.Type}
		last := i == len(d.Params)-1
		switch {
		case p.Variadic && last:
			b.Kind = ParamDefault
		case args != nil && p.Type.SameType(*args):
			b.Kind = ParamArgs
		case !p.Type.Pointer && p.Type.Is(x.RuntimePath, controllerName):
			b.Kind = ParamController
		case !p.Type.Pointer && p.Type.Is(x.RuntimePath, implementationName):
			b.Kind = ParamImplementation
		default:
			name := p.Name
			if name == "" || name == "_" {
				name = "#" + strconv.Itoa(i)
			}
			diags = append(diags, diag(d, RuleParameter, "invalid parameter %s of type %s of entry composable", name, typeString(p.Type)))
			continue
		}
		out = append(out, b)
	}
	if len(diags) > 0 {
		return nil, diags
	}
	return out, nil
}

func typeString(t TypeRef) string {
	s := t.Qualified()
	if t.Pointer {
		s = "*" + s
	}
	return s
}
