package integrators

import (
	"fmt"
	"sort"

	"thawlab/internal/sim"
)

var factories = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return NewEuler() },
	"rk4":   func() sim.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name.
func New(name string) (sim.Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func List() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
