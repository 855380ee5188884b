package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownBenchmark is matched (via errors.Is) by every UnknownBenchmarkError.
var ErrUnknownBenchmark = errors.New("unknown benchmark")

// UnknownBenchmarkError reports a lookup of an unregistered benchmark name.
type UnknownBenchmarkError struct {
	Name      string
	Available []string // sorted
}

func (e *UnknownBenchmarkError) Error() string {
	return fmt.Sprintf("unknown benchmark: %s. Available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrUnknownBenchmark) hold.
func (e *UnknownBenchmarkError) Is(target error) bool {
	return target == ErrUnknownBenchmark
}

// Registry is a read-only mapping from benchmark name to Factory.
// It is populated once by NewRegistry and never mutated afterwards, so it is
// safe to share.
type Registry struct {
	factories map[string]Factory
	names     []string
}

// NewRegistry creates a Registry from a copy of factories.
// Panics on an empty name or nil factory: registries are built at startup.
func NewRegistry(factories map[string]Factory) *Registry {
	r := &Registry{factories: make(map[string]Factory, len(factories))}
	for name, f := range factories {
		if name == "" || f == nil {
			panic(fmt.Sprintf("NewRegistry: invalid registration %q", name))
		}
		r.factories[name] = f
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Get constructs a fresh instance of the named benchmark.
func (r *Registry) Get(name string) (Benchmark, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownBenchmarkError{Name: name, Available: r.Names()}
	}
	return f(), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
