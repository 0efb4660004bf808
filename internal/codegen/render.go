package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/go-drift/nibel/pkg/nibel"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("nibelgen").ParseFS(templateFS, "templates/*.go.tmpl"))

// GeneratedHeader is the first line of every generated file.
const GeneratedHeader = "// Code generated by nibelgen. DO NOT EDIT."

// File is one generated source file.
type File struct {
	Dir     string
	Name    string
	Content []byte
}

// Path returns the file's path.
func (f File) Path() string { return filepath.Join(f.Dir, f.Name) }

// Renderer renders entry metadata into Go source.
type Renderer struct {
	RuntimePath string
	// Header lines are added as comments below the generated marker.
	Header []string
}

// NewRenderer returns a renderer for the default runtime package.
func NewRenderer() *Renderer {
	return &Renderer{RuntimePath: DefaultRuntimeImport}
}

type headerData struct {
	Package     string
	HeaderLines []string
	StdImports  []importSpec
	Imports     []importSpec
}

type entryData struct {
	headerData
	Decl      string
	Entry     string
	Qualified string
	Nibel     string
	Reflect   string
	Receiver  string

	Args        string
	Result      string
	Destination string
	External    bool

	NeedsArgs   bool
	Call        string
	ReturnsView bool
}

// Shape names the template variant m renders with, such as
// "composable/external/result".
func Shape(m EntryMetadata) string {
	c := m.Common()
	parts := []string{c.Implementation.String()}
	if c.Legacy {
		parts[0] = "legacy"
	}
	if IsExternal(m) {
		parts = append(parts, "external")
	} else {
		parts = append(parts, "internal")
	}
	if HasResult(m) {
		parts = append(parts, "result")
	} else {
		parts = append(parts, "plain")
	}
	return strings.Join(parts, "/")
}

func templateFor(m EntryMetadata) string {
	c := m.Common()
	switch {
	case c.Legacy:
		return "legacy_entry.go.tmpl"
	case c.Implementation == nibel.ImplementationComposable:
		return "composable_entry.go.tmpl"
	default:
		return "fragment_entry.go.tmpl"
	}
}

// RenderEntry renders the wrapper for m. The returned file has no Dir.
func (r *Renderer) RenderEntry(m EntryMetadata) (File, error) {
	c := m.Common()
	imports := newImportSet(c.PkgPath)
	data := entryData{
		Decl:      c.Decl,
		Entry:     c.EntryName(),
		Qualified: c.QualifiedEntryName(),
		Nibel:     imports.add(r.runtimePath(), "nibel"),
	}
	if c.Result != nil {
		data.Reflect = imports.add("reflect", "reflect")
		data.Result = imports.qualify(*c.Result)
	}
	if c.Args != nil {
		data.Args = imports.qualify(*c.Args)
	}
	if ext, ok := m.(*ExternalEntryMetadata); ok {
		data.External = true
		data.Destination = imports.qualify(ext.Destination)
	}
	if c.Legacy {
		data.Receiver = "*" + c.Decl
	} else {
		data.Receiver = "*" + data.Entry
		data.Call, data.NeedsArgs = callExpr(c)
		data.ReturnsView = c.ReturnsView
	}
	data.headerData = headerData{
		Package:     c.PkgName,
		HeaderLines: r.Header,
	}
	data.StdImports, data.Imports = imports.groups()

	name := EntryFileName(c.Decl)
	src, err := execute(templateFor(m), name, data)
	if err != nil {
		return File{}, err
	}
	return File{Name: name, Content: src}, nil
}

// callExpr returns the call of the wrapped function with its injected
// arguments, and whether the call needs the args local.
func callExpr(c *EntryCommon) (string, bool) {
	var args []string
	needsArgs := false
	for _, p := range c.Params {
		switch p.Kind {
		case ParamArgs:
			args = append(args, "args")
			needsArgs = true
		case ParamController:
			args = append(args, "scope.NavigationController()")
		case ParamImplementation:
			args = append(args, "scope.ImplementationType()")
		}
	}
	return c.Decl + "(" + strings.Join(args, ", ") + ")", needsArgs
}

type providerData struct {
	headerData
	Provider    string
	Name        string
	Destination string
	Factory     string
	Nibel       string
}

// RenderProvider renders the discovery file registering p's factory.
func (r *Renderer) RenderProvider(p ProviderMetadata) (File, error) {
	imports := newImportSet(p.PkgPath)
	data := providerData{
		Provider:    Identifier(p.DiscoveryName()),
		Name:        p.DiscoveryName(),
		Destination: p.DestinationQualifiedName,
		Factory:     p.FactoryName,
		Nibel:       imports.add(r.runtimePath(), "nibel"),
	}
	data.headerData = headerData{
		Package:     p.PkgName,
		HeaderLines: r.Header,
	}
	data.StdImports, data.Imports = imports.groups()
	name := ProviderFileName(p.DestinationQualifiedName)
	src, err := execute("provider.go.tmpl", name, data)
	if err != nil {
		return File{}, err
	}
	return File{Name: name, Content: src}, nil
}

func (r *Renderer) runtimePath() string {
	if r.RuntimePath == "" {
		return DefaultRuntimeImport
	}
	return r.RuntimePath
}

func execute(tmpl, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w\n%s", name, err, buf.Bytes())
	}
	return src, nil
}
