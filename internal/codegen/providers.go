package codegen

import (
	"go/token"
	"path/filepath"
	"sort"

	"github.com/go-drift/nibel/pkg/nibel"
)

// ProviderMetadata binds a destination to the generated factory that
// builds its entries.
type ProviderMetadata struct {
	// PkgPath and PkgName identify the generating package, where the
	// discovery file is written.
	PkgPath string
	PkgName string
	Dir     string

	DestinationName          string
	DestinationPackage       string
	DestinationQualifiedName string
	// FactoryName is the generated factory variable.
	FactoryName string

	// Decl and Pos locate the entry declaration.
	Decl string
	Pos  token.Position
}

// DiscoveryName returns the name the runtime resolves the destination by.
func (p ProviderMetadata) DiscoveryName() string {
	return nibel.DiscoveryName(p.DestinationQualifiedName)
}

// ProviderRegistry collects provider metadata for one generation run,
// grouped by destination package.
type ProviderRegistry struct {
	byPackage map[string][]ProviderMetadata
	byDest    map[string]ProviderMetadata
	byFile    map[string]ProviderMetadata
}

// NewProviderRegistry returns an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		byPackage: make(map[string][]ProviderMetadata),
		byDest:    make(map[string]ProviderMetadata),
		byFile:    make(map[string]ProviderMetadata),
	}
}

// Add records the provider for an external entry. A destination bound by
// two entries yields a diagnostic for the second, as does a destination
// whose discovery file name is already taken in the same directory.
func (r *ProviderRegistry) Add(m *ExternalEntryMetadata, dir string, pos token.Position) *Diagnostic {
	p := ProviderMetadata{
		PkgPath:                  m.PkgPath,
		PkgName:                  m.PkgName,
		Dir:                      dir,
		DestinationName:          m.DestinationName(),
		DestinationPackage:       m.DestinationPackage(),
		DestinationQualifiedName: m.DestinationQualifiedName(),
		FactoryName:              m.EntryName() + "Factory",
		Decl:                     m.Decl,
		Pos:                      pos,
	}
	if prev, dup := r.byDest[p.DestinationQualifiedName]; dup {
		return &Diagnostic{
			Pos:  pos,
			Decl: m.Decl,
			Rule: RuleDuplicateDestination,
			Message: "destination " + p.DestinationQualifiedName + " is already bound by " +
				prev.PkgPath + "." + prev.Decl,
		}
	}
	file := filepath.Join(dir, ProviderFileName(p.DestinationQualifiedName))
	if prev, taken := r.byFile[file]; taken {
		return &Diagnostic{
			Pos:  pos,
			Decl: m.Decl,
			Rule: RuleFileCollision,
			Message: "discovery file " + filepath.Base(file) + " of destination " + p.DestinationQualifiedName +
				" is already written for " + prev.DestinationQualifiedName,
		}
	}
	r.byDest[p.DestinationQualifiedName] = p
	r.byFile[file] = p
	r.byPackage[p.DestinationPackage] = append(r.byPackage[p.DestinationPackage], p)
	return nil
}

// Packages returns the destination packages touched, sorted.
func (r *ProviderRegistry) Packages() []string {
	out := make([]string, 0, len(r.byPackage))
	for p := range r.byPackage {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ForPackage returns the providers of destinations declared in pkgPath,
// sorted by destination name.
func (r *ProviderRegistry) ForPackage(pkgPath string) []ProviderMetadata {
	out := append([]ProviderMetadata(nil), r.byPackage[pkgPath]...)
	sort.Slice(out, func(i, j int) bool { return out[i].DestinationName < out[j].DestinationName })
	return out
}

// All returns every provider sorted by destination package, then name.
func (r *ProviderRegistry) All() []ProviderMetadata {
	var out []ProviderMetadata
	for _, pkg := range r.Packages() {
		out = append(out, r.ForPackage(pkg)...)
	}
	return out
}

// Len returns the number of destinations recorded.
func (r *ProviderRegistry) Len() int { return len(r.byDest) }

// Files renders one discovery file per destination.
func (r *ProviderRegistry) Files(rd *Renderer) ([]File, error) {
	var files []File
	for _, p := range r.All() {
		f, err := rd.RenderProvider(p)
		if err != nil {
			return nil, err
		}
		f.Dir = p.Dir
		files = append(files, f)
	}
	return files, nil
}
