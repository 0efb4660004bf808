package codegen

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// LoadConfig controls package loading.
type LoadConfig struct {
	// Dir is the directory patterns are resolved from.
	Dir string
	// Tags are extra build tags.
	Tags []string
	// Logger receives load progress. Nil disables logging.
	Logger *zap.Logger
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedImports | packages.NeedModule

// Load loads the packages matching patterns and lowers their marked
// declarations. Lowering problems are returned as diagnostics; the error
// reports packages that could not be loaded.
func Load(ctx context.Context, cfg LoadConfig, patterns ...string) ([]*Package, Diagnostics, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     cfg.Dir,
	}
	if len(cfg.Tags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}

	var loadErr error
	var out []*Package
	var diags Diagnostics
	for _, p := range pkgs {
		if fatal := sourceErrors(p); fatal != nil {
			loadErr = multierr.Append(loadErr, fatal)
			continue
		}
		if p.Types == nil || len(p.GoFiles) == 0 {
			continue
		}
		lowered, ds := Lower(p.Fset, p.Types, p.Syntax)
		lowered.Dir = filepath.Dir(p.GoFiles[0])
		diags = append(diags, ds...)
		logger.Debug("loaded package",
			zap.String("package", p.PkgPath),
			zap.Int("declarations", len(lowered.Decls)),
		)
		out = append(out, lowered)
	}
	return out, diags, loadErr
}

// sourceErrors returns the errors of p not located in generated files.
// Generated files may refer to declarations that were just removed; they
// are rewritten by the same run.
func sourceErrors(p *packages.Package) error {
	var err error
	for _, e := range p.Errors {
		file, _, _ := strings.Cut(e.Pos, ":")
		if file != "" && IsGeneratedFileName(filepath.Base(file)) {
			continue
		}
		err = multierr.Append(err, fmt.Errorf("%s: %s", p.PkgPath, e))
	}
	return err
}

// Lower collects the marked declarations of a type-checked package.
func Lower(fset *token.FileSet, pkg *types.Package, files []*ast.File) (*Package, Diagnostics) {
	out := &Package{Path: pkg.Path(), Name: pkg.Name()}
	var diags Diagnostics
	for _, f := range files {
		l := &lowerer{fset: fset, pkg: pkg, file: f}
		decls, ds := l.lowerFile()
		out.Decls = append(out.Decls, decls...)
		diags = append(diags, ds...)
	}
	SortDecls(out.Decls)
	return out, diags
}

type lowerer struct {
	fset *token.FileSet
	pkg  *types.Package
	file *ast.File
}

func (l *lowerer) lowerFile() ([]*Declaration, Diagnostics) {
	var decls []*Declaration
	var diags Diagnostics
	for _, decl := range l.file.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			d, ds := l.lowerFunc(decl)
			diags = append(diags, ds...)
			if d != nil {
				decls = append(decls, d)
			}
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(decl.Specs) == 1 {
					doc = decl.Doc
				}
				d, ds := l.lowerType(ts, doc)
				diags = append(diags, ds...)
				if d != nil {
					decls = append(decls, d)
				}
			}
		}
	}
	return decls, diags
}

func (l *lowerer) newDecl(kind DeclKind, name *ast.Ident, doc *ast.CommentGroup) (*Declaration, Diagnostics) {
	if doc == nil {
		return nil, nil
	}
	d := &Declaration{
		Kind:    kind,
		Name:    name.Name,
		PkgPath: l.pkg.Path(),
		PkgName: l.pkg.Name(),
		Pos:     l.fset.Position(name.Pos()),
		Types:   make(map[string]TypeRef),
	}
	var diags Diagnostics
	for _, c := range doc.List {
		if !IsDirective(c.Text) {
			continue
		}
		m, err := ParseMarker(strings.TrimSpace(c.Text), l.fset.Position(c.Pos()))
		if err != nil {
			diags = append(diags, diag(d, RuleMarker, "%v", err))
			continue
		}
		if m.Kind == MarkerComposable {
			d.Composable = true
		}
		d.Markers = append(d.Markers, m)
	}
	if len(d.Markers) == 0 && len(diags) == 0 {
		return nil, nil
	}
	if len(diags) > 0 {
		return nil, diags
	}
	for _, m := range d.NavigationMarkers() {
		for _, arg := range m.Kind.TypeArgs() {
			ref, ok := m.Arg(arg)
			if !ok {
				continue
			}
			if t, found := l.resolve(ref); found {
				d.Types[arg] = describe(t, 0)
			}
		}
	}
	return d, nil
}

func (l *lowerer) lowerFunc(fn *ast.FuncDecl) (*Declaration, Diagnostics) {
	d, diags := l.newDecl(FuncDecl, fn.Name, fn.Doc)
	if d == nil {
		return nil, diags
	}
	if fn.Recv != nil {
		return nil, Diagnostics{diag(d, RuleMarker, "directives are not supported on methods")}
	}
	obj, ok := l.pkg.Scope().Lookup(fn.Name.Name).(*types.Func)
	if !ok {
		return nil, Diagnostics{diag(d, RuleUnknownType, "cannot type-check %s", fn.Name.Name)}
	}
	sig := obj.Type().(*types.Signature)
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		v := params.At(i)
		p := Param{Name: v.Name()}
		t := v.Type()
		if sig.Variadic() && i == params.Len()-1 {
			p.Variadic = true
			if s, ok := t.(*types.Slice); ok {
				t = s.Elem()
			}
		}
		p.Type = describe(t, 1)
		d.Params = append(d.Params, p)
	}
	d.Results = sig.Results().Len()
	return d, nil
}

func (l *lowerer) lowerType(ts *ast.TypeSpec, doc *ast.CommentGroup) (*Declaration, Diagnostics) {
	d, diags := l.newDecl(TypeDecl, ts.Name, doc)
	if d == nil {
		return nil, diags
	}
	obj, ok := l.pkg.Scope().Lookup(ts.Name.Name).(*types.TypeName)
	if !ok {
		return nil, Diagnostics{diag(d, RuleUnknownType, "cannot type-check %s", ts.Name.Name)}
	}
	d.Self = describe(obj.Type(), 0)
	return d, nil
}

// resolve looks up a type reference written as Name or pkg.Name.
func (l *lowerer) resolve(ref string) (types.Type, bool) {
	scope := l.pkg.Scope()
	name := ref
	if alias, sel, ok := strings.Cut(ref, "."); ok {
		imported := l.importNamed(alias)
		if imported == nil {
			return nil, false
		}
		scope, name = imported.Scope(), sel
	}
	tn, ok := scope.Lookup(name).(*types.TypeName)
	if !ok {
		return nil, false
	}
	return tn.Type(), true
}

func (l *lowerer) importNamed(local string) *types.Package {
	for _, spec := range l.file.Imports {
		path := strings.Trim(spec.Path.Value, `"`)
		var imported *types.Package
		for _, p := range l.pkg.Imports() {
			if p.Path() == path {
				imported = p
				break
			}
		}
		if imported == nil {
			continue
		}
		name := imported.Name()
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == local {
			return imported
		}
	}
	return nil
}

// describe lowers t. Embedded fields are listed for the top-level type
// only.
// hiddenField returns the dotted path of the first unexported field of s,
// following struct-typed fields and arrays of them.
func hiddenField(s *types.Struct, seen map[types.Type]bool) string {
	if seen[s] {
		return ""
	}
	seen[s] = true
	for i := 0; i < s.NumFields(); i++ {
		f := s.Field(i)
		if !f.Embedded() && !f.Exported() {
			return f.Name()
		}
		t := f.Type()
		for {
			a, ok := t.Underlying().(*types.Array)
			if !ok {
				break
			}
			t = a.Elem()
		}
		if inner, ok := t.Underlying().(*types.Struct); ok {
			if name := hiddenField(inner, seen); name != "" {
				return f.Name() + "." + name
			}
		}
	}
	return ""
}

func describe(t types.Type, depth int) TypeRef {
	var ref TypeRef
	if p, ok := t.(*types.Pointer); ok {
		ref.Pointer = true
		t = p.Elem()
	}
	ref.Comparable = types.Comparable(t)

	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		ref.Name = t.String()
		return ref
	}
	obj := named.Obj()
	if obj.Pkg() != nil {
		ref.PkgPath = obj.Pkg().Path()
		ref.PkgName = obj.Pkg().Name()
	}
	ref.Name = obj.Name()
	ref.Generic = named.Origin().TypeParams().Len() > 0
	if depth < 3 {
		for i := 0; i < named.TypeArgs().Len(); i++ {
			ref.TypeArgs = append(ref.TypeArgs, describe(named.TypeArgs().At(i), depth+1))
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		ref.Shape = ShapeStruct
		if u.NumFields() == 0 {
			ref.Shape = ShapeEmptyStruct
		}
		ref.HiddenField = hiddenField(u, map[types.Type]bool{})
		if depth == 0 {
			for i := 0; i < u.NumFields(); i++ {
				if f := u.Field(i); f.Embedded() {
					ref.Embeds = append(ref.Embeds, describe(f.Type(), depth+1))
				}
			}
		}
	case *types.Interface:
		ref.Shape = ShapeInterface
	default:
		ref.Shape = ShapeValue
	}

	methods := types.NewMethodSet(types.NewPointer(named))
	ref.FragmentMethods = methods.Lookup(nil, "Arguments") != nil && methods.Lookup(nil, "SetArguments") != nil
	return ref
}
