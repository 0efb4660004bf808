package nibel

// ExploredEntries remembers the composable entries a graph host has
// navigated to, in first-visit order, keyed by route name.
type ExploredEntries struct {
	order   []string
	entries map[string]ComposableEntry
}

// NewExploredEntries returns an empty registry.
func NewExploredEntries() *ExploredEntries {
	return &ExploredEntries{entries: make(map[string]ComposableEntry)}
}

// Add records e. It reports false if an entry with the same name is known.
func (x *ExploredEntries) Add(e ComposableEntry) bool {
	name := e.Name()
	if _, ok := x.entries[name]; ok {
		return false
	}
	x.entries[name] = e
	x.order = append(x.order, name)
	return true
}

// Get returns the entry recorded under name.
func (x *ExploredEntries) Get(name string) (ComposableEntry, bool) {
	e, ok := x.entries[name]
	return e, ok
}

// Has reports whether name was recorded.
func (x *ExploredEntries) Has(name string) bool {
	_, ok := x.entries[name]
	return ok
}

// Entries returns the recorded entries in first-visit order.
func (x *ExploredEntries) Entries() []ComposableEntry {
	out := make([]ComposableEntry, 0, len(x.order))
	for _, name := range x.order {
		out = append(out, x.entries[name])
	}
	return out
}

// Names returns the recorded route names in first-visit order.
func (x *ExploredEntries) Names() []string {
	return append([]string(nil), x.order...)
}

// Len returns the number of recorded entries.
func (x *ExploredEntries) Len() int { return len(x.order) }
