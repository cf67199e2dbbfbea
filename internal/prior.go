package internal

import (
	"fmt"

	"github.com/chrisconley/peitho/specs"
)

// Prior is one caller-supplied prior override before resolution: either a
// complete distribution, or a convenience literal that is normalized against
// the parameter's default prior when the model is declared.
type Prior struct {
	dist   Distribution
	scalar *float64
	seq    []float64
	params map[string]float64
}

// NewPrior validates a prior override spec. Exactly one of its fields must be
// set.
func NewPrior(spec specs.PriorSpec) (Prior, error) {
	set := 0
	if spec.Distribution != nil {
		set++
	}
	if spec.Scalar != nil {
		set++
	}
	if spec.Sequence != nil {
		set++
	}
	if spec.Params != nil {
		set++
	}
	if set != 1 {
		return Prior{}, fmt.Errorf("prior override must set exactly one of distribution, scalar, sequence or params, got %d", set)
	}
	switch {
	case spec.Distribution != nil:
		d, err := NewDistribution(*spec.Distribution)
		if err != nil {
			return Prior{}, err
		}
		return Prior{dist: d}, nil
	case spec.Scalar != nil:
		value := *spec.Scalar
		return Prior{scalar: &value}, nil
	case spec.Sequence != nil:
		if len(spec.Sequence) == 0 {
			return Prior{}, fmt.Errorf("prior override sequence must not be empty")
		}
		return Prior{seq: append([]float64(nil), spec.Sequence...)}, nil
	default:
		if len(spec.Params) == 0 {
			return Prior{}, fmt.Errorf("prior override params must not be empty")
		}
		params := make(map[string]float64, len(spec.Params))
		for k, v := range spec.Params {
			params[k] = v
		}
		return Prior{params: params}, nil
	}
}

// NewDistributionPrior wraps a complete distribution as a prior override.
func NewDistributionPrior(d Distribution) (Prior, error) {
	if d == nil {
		return Prior{}, fmt.Errorf("prior distribution is required")
	}
	return Prior{dist: d}, nil
}

// NewScalarPrior creates a prior override pinning a parameter to a constant.
func NewScalarPrior(value float64) Prior {
	return Prior{scalar: &value}
}

// normalize resolves the override into a concrete distribution. Literal forms
// borrow the default prior's family; a complete distribution stands alone.
func (p Prior) normalize(def Distribution) (Distribution, error) {
	switch {
	case p.dist != nil:
		return p.dist, nil
	case p.scalar != nil:
		return Delta{Point: *p.scalar}, nil
	case p.seq != nil:
		return distributionFromSequence(def.Family(), p.seq)
	case p.params != nil:
		return distributionFromParams(def.Family(), p.params)
	default:
		return def, nil
	}
}

// pin returns the constant this override would pin a parameter to, if it is a
// scalar or delta override.
func (p Prior) pin() (float64, bool) {
	if p.scalar != nil {
		return *p.scalar, true
	}
	if d, ok := p.dist.(Delta); ok {
		return d.Point, true
	}
	return 0, false
}

// CustomPriors holds a model invocation's prior overrides keyed by parameter
// name.
type CustomPriors struct {
	priors map[string]Prior
}

// NewCustomPriors validates a set of prior override specs.
func NewCustomPriors(spec map[string]specs.PriorSpec) (CustomPriors, error) {
	priors := make(map[string]Prior, len(spec))
	for name, ps := range spec {
		if name == "" {
			return CustomPriors{}, fmt.Errorf("prior override name is required")
		}
		p, err := NewPrior(ps)
		if err != nil {
			return CustomPriors{}, fmt.Errorf("invalid prior for %q: %w", name, err)
		}
		priors[name] = p
	}
	return CustomPriors{priors: priors}, nil
}

// Get returns the override for name, if any.
func (c CustomPriors) Get(name string) (Prior, bool) {
	p, ok := c.priors[name]
	return p, ok
}

// Len returns the number of overrides.
func (c CustomPriors) Len() int {
	return len(c.priors)
}

// Pinned returns the constant a static transform uses for name: the caller's
// scalar or delta override when present, else the fallback. Other override
// forms cannot pin a constant and keep the fallback.
func (c CustomPriors) Pinned(name string, fallback float64) float64 {
	p, ok := c.priors[name]
	if !ok {
		return fallback
	}
	if value, ok := p.pin(); ok {
		return value
	}
	return fallback
}
