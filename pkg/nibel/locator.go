package nibel

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-drift/nibel/pkg/errors"
)

// FactoryProvider hands out the entry factory for one destination.
// Generated discovery files implement it.
type FactoryProvider interface {
	Provide() EntryFactory
}

// ProviderFunc adapts a function to FactoryProvider.
type ProviderFunc func() EntryFactory

// Provide calls f.
func (f ProviderFunc) Provide() EntryFactory { return f() }

// Locator finds the provider for a destination by its qualified name.
type Locator interface {
	Resolve(qualifiedDestinationName string) (FactoryProvider, error)
}

// QualifiedName joins a package path and a type name.
func QualifiedName(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

// QualifiedTypeName returns the qualified name of t, looking through
// pointers.
func QualifiedTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return QualifiedName(t.PkgPath(), t.Name())
}

// DiscoveryName derives the provider name for a destination from its
// qualified name. The generator and the runtime must agree on it exactly.
func DiscoveryName(qualifiedDestinationName string) string {
	return "_" + strings.ReplaceAll(qualifiedDestinationName, ".", "_")
}

// ProviderTable maps discovery names to providers.
// It is safe for concurrent use.
type ProviderTable struct {
	mu        sync.RWMutex
	providers map[string]FactoryProvider
}

// NewProviderTable returns an empty table.
func NewProviderTable() *ProviderTable {
	return &ProviderTable{providers: make(map[string]FactoryProvider)}
}

// Register adds p under name. Registering a name twice is an error.
func (t *ProviderTable) Register(name string, p FactoryProvider) error {
	if p == nil {
		return fmt.Errorf("nibel: nil provider for %s", name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.providers[name]; dup {
		return fmt.Errorf("nibel: provider %s registered twice", name)
	}
	t.providers[name] = p
	return nil
}

// Lookup returns the provider registered under name.
func (t *ProviderTable) Lookup(name string) (FactoryProvider, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.providers[name]
	return p, ok
}

// Names returns the registered names in sorted order.
func (t *ProviderTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.providers))
	for name := range t.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered providers.
func (t *ProviderTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.providers)
}

// Unregister removes name from the table.
func (t *ProviderTable) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.providers, name)
}

var providers = NewProviderTable()

// RegisterProvider adds p to the process-wide provider table. Generated
// discovery files call it from init. It panics if name is already taken,
// since two screens claiming one destination is a build mistake.
func RegisterProvider(name string, p FactoryProvider) {
	if err := providers.Register(name, p); err != nil {
		panic(err)
	}
}

// Providers returns the process-wide provider table.
func Providers() *ProviderTable { return providers }

// StaticLocator resolves destinations from a ProviderTable populated at
// program start.
type StaticLocator struct {
	Table *ProviderTable
}

// Resolve looks up the provider under the discovery name of the destination.
func (l StaticLocator) Resolve(qualifiedDestinationName string) (FactoryProvider, error) {
	table := l.Table
	if table == nil {
		table = providers
	}
	name := DiscoveryName(qualifiedDestinationName)
	p, ok := table.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w (no provider %s)", errors.ErrNotAssociated, name)
	}
	return p, nil
}
