package codegen

import (
	"go/token"
	"sort"
)

// DeclKind tells functions from type declarations.
type DeclKind int

const (
	// FuncDecl is a top-level function.
	FuncDecl DeclKind = iota
	// TypeDecl is a named type declaration.
	TypeDecl
)

func (k DeclKind) String() string {
	if k == TypeDecl {
		return "type"
	}
	return "func"
}

// TypeShape classifies the underlying form of a named type.
type TypeShape int

const (
	// ShapeOther is an unnamed or basic type.
	ShapeOther TypeShape = iota
	// ShapeStruct is a struct type with at least one field.
	ShapeStruct
	// ShapeEmptyStruct is struct{}, the singleton form.
	ShapeEmptyStruct
	// ShapeInterface is an interface type, the abstract form.
	ShapeInterface
	// ShapeValue is a named type over a non-struct, non-interface type.
	ShapeValue
)

func (s TypeShape) String() string {
	switch s {
	case ShapeStruct:
		return "struct"
	case ShapeEmptyStruct:
		return "empty struct"
	case ShapeInterface:
		return "interface"
	case ShapeValue:
		return "value type"
	default:
		return "unnamed type"
	}
}

// TypeRef describes a type as the extractor needs to see it.
type TypeRef struct {
	PkgPath string
	PkgName string
	Name    string

	Pointer    bool
	Generic    bool
	Shape      TypeShape
	Comparable bool
	// HiddenField names the first unexported field reachable through the
	// struct's fields, empty when every field is exported.
	HiddenField string

	// TypeArgs holds the arguments of an instantiated generic type.
	TypeArgs []TypeRef
	// Embeds lists the embedded fields of a struct type.
	Embeds []TypeRef
	// FragmentMethods reports whether the pointer type has the methods of
	// nibel.Fragment.
	FragmentMethods bool
}

// Qualified returns pkgPath.Name, or Name for unnamed types.
func (t TypeRef) Qualified() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// Is reports whether t names pkgPath.name, ignoring pointers.
func (t TypeRef) Is(pkgPath, name string) bool {
	return t.PkgPath == pkgPath && t.Name == name
}

// SameType reports whether t and u name the same type.
func (t TypeRef) SameType(u TypeRef) bool {
	return t.PkgPath == u.PkgPath && t.Name == u.Name && t.Pointer == u.Pointer && !t.Generic && !u.Generic
}

// Param is a function parameter.
type Param struct {
	Name     string
	Type     TypeRef
	Variadic bool
}

// Declaration is a marked declaration lowered from source.
type Declaration struct {
	Kind    DeclKind
	Name    string
	PkgPath string
	PkgName string
	Pos     token.Position

	Markers    []Marker
	Composable bool

	// Params and Results describe a function signature.
	Params  []Param
	Results int

	// Self describes the declared type of a type declaration.
	Self TypeRef

	// Types holds the resolved type arguments of the navigation marker,
	// keyed by argument name.
	Types map[string]TypeRef
}

// Qualified returns the package-qualified declaration name.
func (d *Declaration) Qualified() string {
	return d.PkgPath + "." + d.Name
}

// NavigationMarkers returns the markers other than composable.
func (d *Declaration) NavigationMarkers() []Marker {
	var out []Marker
	for _, m := range d.Markers {
		if m.Kind.Navigation() {
			out = append(out, m)
		}
	}
	return out
}

// HasNavigationMarker reports whether d asks for an entry.
func (d *Declaration) HasNavigationMarker() bool {
	return len(d.NavigationMarkers()) > 0
}

// Package is the set of marked declarations of one Go package.
type Package struct {
	Path  string
	Name  string
	Dir   string
	Decls []*Declaration
}

// SortDecls orders declarations by source position.
func SortDecls(decls []*Declaration) {
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i].Pos, decls[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
