package codegen

import (
	"github.com/go-drift/nibel/pkg/nibel"
)

// DefaultRuntimeImport is the import path of the runtime package.
const DefaultRuntimeImport = "github.com/go-drift/nibel/pkg/nibel"

// ParamKind identifies an injectable parameter.
type ParamKind int

const (
	// ParamArgs receives the argument payload.
	ParamArgs ParamKind = iota
	// ParamController receives the navigation controller.
	ParamController
	// ParamImplementation receives the implementation type the entry is
	// rendered as.
	ParamImplementation
	// ParamDefault is a trailing variadic parameter left empty.
	ParamDefault
)

func (k ParamKind) String() string {
	switch k {
	case ParamArgs:
		return "args"
	case ParamController:
		return "navigation-controller"
	case ParamImplementation:
		return "implementation-type"
	default:
		return "default"
	}
}

// ParamBinding maps one declared parameter to its injected value.
type ParamBinding struct {
	Kind ParamKind
	Name string
	Type TypeRef
}

// EntryMetadata is the validated description of one entry. It is either
// *InternalEntryMetadata or *ExternalEntryMetadata.
type EntryMetadata interface {
	Common() *EntryCommon
	isEntryMetadata()
}

// EntryCommon holds what internal and external entries share.
type EntryCommon struct {
	// Decl is the declaration the entry wraps.
	Decl           string
	PkgPath        string
	PkgName        string
	Implementation nibel.ImplementationType
	Legacy         bool

	// Args is nil when the entry takes no arguments.
	Args *TypeRef
	// ArgsSentinel records an explicit nibel.NoArgs.
	ArgsSentinel bool
	// Result is nil when the entry returns no result.
	Result *TypeRef
	// ResultSentinel records an explicit nibel.NoResult.
	ResultSentinel bool

	// Params are the bindings of a function's parameters in order.
	Params []ParamBinding
	// ReturnsView reports whether the function returns a value.
	ReturnsView bool
}

// Common returns c.
func (c *EntryCommon) Common() *EntryCommon { return c }

// EntryName returns the generated wrapper name.
func (c *EntryCommon) EntryName() string { return c.Decl + "Entry" }

// QualifiedEntryName returns the package-qualified wrapper name, the base
// of the entry's route name.
func (c *EntryCommon) QualifiedEntryName() string {
	return nibel.QualifiedName(c.PkgPath, c.EntryName())
}

// InternalEntryMetadata describes an entry reachable only by its
// constructor.
type InternalEntryMetadata struct {
	EntryCommon
}

func (*InternalEntryMetadata) isEntryMetadata() {}

// ExternalEntryMetadata describes an entry bound to a destination.
type ExternalEntryMetadata struct {
	EntryCommon
	Destination TypeRef
}

func (*ExternalEntryMetadata) isEntryMetadata() {}

// DestinationName returns the destination's simple name.
func (m *ExternalEntryMetadata) DestinationName() string { return m.Destination.Name }

// DestinationPackage returns the destination's package path.
func (m *ExternalEntryMetadata) DestinationPackage() string { return m.Destination.PkgPath }

// DestinationQualifiedName returns pkgPath.Name of the destination.
func (m *ExternalEntryMetadata) DestinationQualifiedName() string {
	return nibel.QualifiedName(m.Destination.PkgPath, m.Destination.Name)
}

// HasArgs reports whether the entry carries an argument payload.
func HasArgs(m EntryMetadata) bool { return m.Common().Args != nil }

// HasResult reports whether the entry returns a result.
func HasResult(m EntryMetadata) bool { return m.Common().Result != nil }

// IsExternal reports whether m is bound to a destination.
func IsExternal(m EntryMetadata) bool {
	_, ok := m.(*ExternalEntryMetadata)
	return ok
}
