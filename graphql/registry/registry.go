// Package registry holds named resolvers reachable through the _extension
// GraphQL field.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"backoffice.GO/core/registry"
)

// ResolverFunc resolves one _extension call. Args is the JSON-decoded map
// and is never nil.
type ResolverFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

var seal sync.Once

// Register adds a resolver under a unique name. Call from init(); panics
// on duplicates or once the first query has been resolved.
func Register(name string, resolve ResolverFunc) {
	if name == "" || resolve == nil {
		panic("graphql/registry: empty registration")
	}
	registry.Put(registry.GlobalRegistry, registry.KeyRegistryGraphQL, name, resolve)
}

// Unregister removes a resolver and reopens the registry. Tests only.
func Unregister(name string) {
	registry.Remove[ResolverFunc](registry.GlobalRegistry, registry.KeyRegistryGraphQL, name)
}

// Resolve runs the named resolver. The first call seals the registry.
func Resolve(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	seal.Do(func() { registry.GlobalRegistry.Lock(registry.KeyRegistryGraphQL) })
	resolve, ok := registry.Entries[ResolverFunc](registry.GlobalRegistry, registry.KeyRegistryGraphQL)[name]
	if !ok {
		return nil, fmt.Errorf("unknown extension: %s", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return resolve(ctx, args)
}

// Names lists registered resolvers in order.
func Names() []string {
	m := registry.Entries[ResolverFunc](registry.GlobalRegistry, registry.KeyRegistryGraphQL)
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
