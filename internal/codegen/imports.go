package codegen

import (
	"path"
	"sort"
	"strconv"
	"strings"
)

type importSpec struct {
	Alias string
	Path  string
}

// importSet assigns file-unique names to the packages a generated file
// refers to.
type importSet struct {
	self   string
	byPath map[string]string
	names  map[string]string
}

func newImportSet(selfPath string) *importSet {
	return &importSet{
		self:   selfPath,
		byPath: make(map[string]string),
		names:  make(map[string]string),
	}
}

// add imports pkgPath under name, or a numbered variant if name is taken,
// and returns the name to qualify with.
func (s *importSet) add(pkgPath, name string) string {
	if n, ok := s.byPath[pkgPath]; ok {
		return n
	}
	candidate := name
	for i := 2; ; i++ {
		if _, taken := s.names[candidate]; !taken {
			break
		}
		candidate = name + strconv.Itoa(i)
	}
	s.byPath[pkgPath] = candidate
	s.names[candidate] = pkgPath
	return candidate
}

// qualify returns the expression naming t from the generated file.
func (s *importSet) qualify(t TypeRef) string {
	expr := t.Name
	if t.PkgPath != "" && t.PkgPath != s.self {
		expr = s.add(t.PkgPath, t.PkgName) + "." + t.Name
	}
	if t.Pointer {
		expr = "*" + expr
	}
	return expr
}

func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.byPath))
	for p, name := range s.byPath {
		spec := importSpec{Path: p}
		if name != path.Base(p) {
			spec.Alias = name
		}
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// groups splits specs into standard library imports and the rest, the two
// import blocks of a generated file.
func (s *importSet) groups() (std, other []importSpec) {
	for _, spec := range s.specs() {
		if isStdPath(spec.Path) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	return std, other
}

// isStdPath reports whether p names a standard library package: its first
// element has no dot.
func isStdPath(p string) bool {
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}
