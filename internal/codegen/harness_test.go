package codegen

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// runtimeSource mirrors the parts of the runtime package generated code
// and marked declarations refer to.
const runtimeSource = `package nibel

type NoArgs struct{}
type NoResult struct{}

type ExternalDestination interface{ externalDestination() }

type DestinationWithNoArgs struct{}

func (DestinationWithNoArgs) externalDestination() {}

type DestinationWithArgs[A any] struct{ Args A }

func (DestinationWithArgs[A]) externalDestination() {}

type ImplementationType int
type View any

type NavigationController interface{ NavigateBack() }

type Scope struct {
	controller NavigationController
	impl       ImplementationType
	args       any
}

func (s *Scope) NavigationController() NavigationController { return s.controller }
func (s *Scope) ImplementationType() ImplementationType     { return s.impl }

func ArgsOf[A any](s *Scope) (A, bool) {
	a, ok := s.args.(A)
	return a, ok
}

type Arguments struct {
	Args       any
	RequestKey string
}

type Fragment interface {
	Arguments() Arguments
	SetArguments(Arguments)
}

type FragmentBase struct{ args Arguments }

func (f *FragmentBase) Arguments() Arguments     { return f.args }
func (f *FragmentBase) SetArguments(a Arguments) { f.args = a }

type TransactionEntry struct{ fragment Fragment }

func NewTransactionEntry(f Fragment) TransactionEntry { return TransactionEntry{f} }

type ComposableEntry interface{ ComposableContent(*Scope) View }

type ComposableBase struct {
	name string
	args any
}

func NewComposableBase(name string, args any) ComposableBase { return ComposableBase{name, args} }

type EntryFactory interface{ isFactory() }

type factory struct{}

func (factory) isFactory() {}

func ComposableFactory[D ExternalDestination, E ComposableEntry](func(D) E) EntryFactory {
	return factory{}
}

func TransactionFactory[D ExternalDestination](func(D) TransactionEntry) EntryFactory {
	return factory{}
}

type FactoryProvider interface{ Provide() EntryFactory }

func RegisterProvider(name string, p FactoryProvider) {}
`

const navSource = `package nav

import "github.com/go-drift/nibel/pkg/nibel"

type ProfileArgs struct {
	ID  int
	Tab string
}

type ProfileResult struct{ Name string }

type ProfileDestination struct {
	nibel.DestinationWithArgs[ProfileArgs]
}

type SettingsDestination struct {
	nibel.DestinationWithNoArgs
}

type LegacyDestination struct {
	nibel.DestinationWithArgs[ProfileArgs]
}

type Singleton struct{}

type SingletonDestination struct {
	nibel.DestinationWithArgs[Singleton]
}

type NoArgsPayload struct {
	nibel.DestinationWithArgs[nibel.NoArgs]
}

type Sealed interface{ isSealed() }

type Token string

type Generic[T any] struct {
	nibel.DestinationWithNoArgs
	v T
}

type Plain struct{ ID int }

type Twice struct {
	nibel.DestinationWithNoArgs
	Plain
}

type Bare struct{ ID int }

type SliceArgs struct{ IDs []int }

type Hidden struct{ id int }

type URLDestination struct {
	nibel.DestinationWithNoArgs
}

type UrlDestination struct {
	nibel.DestinationWithNoArgs
}

type Wrapped struct {
	Pins [2]struct{ At Hidden }
}
`

const featureSource = `package feature

import (
	"example.com/app/nav"
	"github.com/go-drift/nibel/pkg/nibel"
)

type Option func()

type LocalArgs struct{ Query string }

//nibel:composable
//nibel:external-entry type=composable destination=nav.ProfileDestination result=nav.ProfileResult
func ProfileScreen(args nav.ProfileArgs, ctrl nibel.NavigationController, opts ...Option) nibel.View {
	return nil
}

//nibel:composable
//nibel:external-entry type=fragment destination=nav.SettingsDestination
func SettingsScreen(impl nibel.ImplementationType) {}

//nibel:composable
//nibel:entry type=composable args=LocalArgs
func LocalScreen(args LocalArgs) nibel.View { return nil }

//nibel:composable
//nibel:entry type=fragment args=nibel.NoArgs result=nibel.NoResult
func PlainFragmentScreen(ctrl nibel.NavigationController) nibel.View { return nil }

//nibel:composable
//nibel:entry type=fragment args=LocalArgs result=nav.ProfileResult
func SearchScreen(ctrl nibel.NavigationController, args LocalArgs, impl nibel.ImplementationType) nibel.View {
	return nil
}

//nibel:composable
//nibel:external-entry type=composable destination=nav.SingletonDestination
func SingletonScreen() nibel.View { return nil }

//nibel:composable
func Header() nibel.View { return nil }

// LegacySettings is an existing fragment.
//
//nibel:legacy-external-entry destination=nav.LegacyDestination result=nav.ProfileResult
type LegacySettings struct {
	nibel.FragmentBase
}

//nibel:legacy-entry
type LegacyAbout struct {
	nibel.FragmentBase
}
`

const (
	runtimePath = DefaultRuntimeImport
	navPath     = "example.com/app/nav"
	featurePath = "example.com/app/feature"
)

// sourceImporter type-checks packages from in-memory sources.
type sourceImporter struct {
	fset    *token.FileSet
	sources map[string][]string
	pkgs    map[string]*types.Package
	std     types.Importer
}

func newSourceImporter(sources map[string][]string) *sourceImporter {
	return &sourceImporter{
		fset:    token.NewFileSet(),
		sources: sources,
		pkgs:    make(map[string]*types.Package),
		std:     importer.Default(),
	}
}

func (im *sourceImporter) Import(path string) (*types.Package, error) {
	if p, ok := im.pkgs[path]; ok {
		return p, nil
	}
	if _, ok := im.sources[path]; !ok {
		return im.std.Import(path)
	}
	p, _, err := im.check(path)
	return p, err
}

func (im *sourceImporter) check(path string) (*types.Package, []*ast.File, error) {
	var files []*ast.File
	for i, src := range im.sources[path] {
		f, err := parser.ParseFile(im.fset, fmt.Sprintf("%s/file%d.go", path, i), src, parser.ParseComments)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, f)
	}
	conf := types.Config{Importer: im}
	p, err := conf.Check(path, im.fset, files, nil)
	if err != nil {
		return nil, nil, err
	}
	im.pkgs[path] = p
	return p, files, nil
}

func defaultSources() map[string][]string {
	return map[string][]string{
		runtimePath: {runtimeSource},
		navPath:     {navSource},
		featurePath: {featureSource},
	}
}

// lowerSource type-checks path from sources and lowers it.
func lowerSource(t *testing.T, sources map[string][]string, path string) (*Package, Diagnostics) {
	t.Helper()
	im := newSourceImporter(sources)
	p, files, err := im.check(path)
	require.NoError(t, err)
	pkg, diags := Lower(im.fset, p, files)
	pkg.Dir = t.TempDir()
	return pkg, diags
}

// featureWith returns the default sources with extra feature source.
func featureWith(src string) map[string][]string {
	s := defaultSources()
	s[featurePath] = []string{src}
	return s
}

func declNamed(t *testing.T, pkg *Package, name string) *Declaration {
	t.Helper()
	for _, d := range pkg.Decls {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no declaration %s in %s", name, pkg.Path)
	return nil
}

func fileNames(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	sort.Strings(out)
	return out
}
