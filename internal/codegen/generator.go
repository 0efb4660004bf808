package codegen

import (
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Options configures a Generator.
type Options struct {
	// RuntimePath is the import path of the runtime package.
	RuntimePath string
	// Header lines are added to every generated file.
	Header []string
	Logger *zap.Logger
}

// Generator runs extraction, rendering and provider aggregation over
// loaded packages.
type Generator struct {
	extractor *Extractor
	renderer  *Renderer
	logger    *zap.Logger
}

// New returns a Generator.
func New(opts Options) *Generator {
	runtime := opts.RuntimePath
	if runtime == "" {
		runtime = DefaultRuntimeImport
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		extractor: &Extractor{RuntimePath: runtime},
		renderer:  &Renderer{RuntimePath: runtime, Header: opts.Header},
		logger:    logger,
	}
}

// Result is the output of one run.
type Result struct {
	Files       []File
	Metadata    []EntryMetadata
	Providers   []ProviderMetadata
	Diagnostics Diagnostics
	// Dirs are the package directories the run owns generated files in.
	Dirs []string
}

// Generate renders every valid entry of pkgs. Invalid declarations are
// reported in Result.Diagnostics and skipped; the error reports a
// rendering failure.
func (g *Generator) Generate(pkgs []*Package) (*Result, error) {
	sorted := append([]*Package(nil), pkgs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	res := &Result{}
	providers := NewProviderRegistry()
	written := make(map[string]string)
	for _, pkg := range sorted {
		res.Dirs = append(res.Dirs, pkg.Dir)
		decls := append([]*Declaration(nil), pkg.Decls...)
		SortDecls(decls)
		for _, d := range decls {
			if !d.HasNavigationMarker() {
				continue
			}
			m, diags := g.extractor.Extract(d)
			if len(diags) > 0 {
				for _, diag := range diags {
					g.logger.Debug("declaration rejected",
						zap.String("decl", d.Qualified()),
						zap.String("rule", string(diag.Rule)),
					)
				}
				res.Diagnostics = append(res.Diagnostics, diags...)
				continue
			}
			f, err := g.renderer.RenderEntry(m)
			if err != nil {
				return nil, err
			}
			f.Dir = pkg.Dir
			path := filepath.Join(f.Dir, f.Name)
			if prev, taken := written[path]; taken {
				res.Diagnostics = append(res.Diagnostics,
					diag(d, RuleFileCollision, "entry file %s of %s is already written for %s", f.Name, d.Name, prev))
				continue
			}
			if ext, ok := m.(*ExternalEntryMetadata); ok {
				if dup := providers.Add(ext, pkg.Dir, d.Pos); dup != nil {
					res.Diagnostics = append(res.Diagnostics, dup)
					continue
				}
			}
			written[path] = d.Name
			res.Files = append(res.Files, f)
			res.Metadata = append(res.Metadata, m)
			g.logger.Debug("entry generated",
				zap.String("decl", d.Qualified()),
				zap.String("shape", Shape(m)),
				zap.String("file", f.Name),
			)
		}
	}

	discovery, err := providers.Files(g.renderer)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, discovery...)
	res.Providers = providers.All()
	res.Diagnostics.Sort()
	return res, nil
}
