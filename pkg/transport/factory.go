package transport

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Constructor creates a transport instance
type Constructor func(ctx context.Context, opts Options) (Transport, error)

var registry = make(map[string]Constructor)

// Register makes a transport available under name
func Register(name string, constructor Constructor) {
	registry[name] = constructor
}

// Registered returns the registered transport names, sorted
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New instantiates the transport registered under name
func New(ctx context.Context, name string, opts Options) (Transport, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transport %q (available: %s)",
			ErrInvalidConfig, name, strings.Join(Registered(), ", "))
	}
	return constructor(ctx, opts)
}
