package internal

import "fmt"

// ResolvePrior returns the distribution to sample the named parameter from:
// the caller's override normalized against the default when one exists, else
// the default itself.
func ResolvePrior(name string, custom CustomPriors, defaults map[string]Distribution) (Distribution, error) {
	def, ok := defaults[name]
	if !ok {
		return nil, fmt.Errorf("no default prior for parameter %q", name)
	}
	p, ok := custom.Get(name)
	if !ok {
		return def, nil
	}
	resolved, err := p.normalize(def)
	if err != nil {
		return nil, fmt.Errorf("invalid prior for %q: %w", name, err)
	}
	return resolved, nil
}
