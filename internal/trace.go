package internal

import (
	"fmt"
	"math/rand/v2"

	"github.com/chrisconley/peitho/internal/tensor"
	"github.com/chrisconley/peitho/specs"
)

// SiteKind distinguishes the three kinds of trace sites.
type SiteKind int

const (
	SampleSite SiteKind = iota
	DeterministicSite
	ObservedSite
)

func (k SiteKind) String() string {
	switch k {
	case SampleSite:
		return specs.SiteKindSample
	case DeterministicSite:
		return specs.SiteKindDeterministic
	case ObservedSite:
		return specs.SiteKindObserved
	default:
		return "unknown"
	}
}

// Site is one declaration in a trace: a latent plate, a deterministic node or
// the observed likelihood.
type Site struct {
	Name  string
	Kind  SiteKind
	Value *tensor.Dense

	// dists holds one distribution per element of Value, nil for
	// deterministic sites.
	dists []Distribution
}

// LogProb returns the log density of the site's value under its elementwise
// distributions, zero for deterministic sites.
func (s *Site) LogProb() float64 {
	total := 0.0
	for i, d := range s.dists {
		total += d.LogProb(s.Value.Raw()[i])
	}
	return total
}

// Trace records the ordered declarations of one model invocation. Latent
// sites draw from their prior through the trace's seeded source unless a
// value was substituted for their name beforehand.
type Trace struct {
	src   rand.Source
	sites []*Site
	index map[string]*Site
	subs  map[string]*tensor.Dense
}

// NewTrace creates an empty trace with a deterministic random source. The
// same seed over the same declarations replays the same draws.
func NewTrace(seed uint64) *Trace {
	return &Trace{
		src:   rand.NewPCG(seed, seed),
		index: make(map[string]*Site),
		subs:  make(map[string]*tensor.Dense),
	}
}

// Substitute binds a value for a named latent site before declaration.
// Declaring that site then conditions on the value instead of drawing from
// its prior. An inference engine substitutes every parameter it proposes and
// reads the resulting joint density.
func (t *Trace) Substitute(name string, value *tensor.Dense) error {
	if name == "" {
		return fmt.Errorf("substitution name is required")
	}
	if value == nil {
		return fmt.Errorf("substitution value for %q is required", name)
	}
	t.subs[name] = value.Clone()
	return nil
}

// Sample declares a latent site whose elements draw independently from d.
// With no shape the site holds a rank-0 scalar.
func (t *Trace) Sample(name string, d Distribution, shape ...int) (*tensor.Dense, error) {
	if d == nil {
		return nil, fmt.Errorf("site %q: distribution is required", name)
	}
	size, err := plateSize(name, shape)
	if err != nil {
		return nil, err
	}
	dists := make([]Distribution, size)
	for i := range dists {
		dists[i] = d
	}
	return t.declare(name, SampleSite, dists, shape, nil)
}

// SampleEach declares a latent site whose leading axis draws element i from
// dists[i], with any trailing axes reusing that element's distribution. This
// is how per-channel coefficient priors extend across geos.
func (t *Trace) SampleEach(name string, dists []Distribution, shape ...int) (*tensor.Dense, error) {
	if len(dists) == 0 {
		return nil, fmt.Errorf("site %q: at least one distribution is required", name)
	}
	if len(shape) == 0 || shape[0] != len(dists) {
		return nil, fmt.Errorf("site %q: leading dimension of shape %v must match %d distributions", name, shape, len(dists))
	}
	size, err := plateSize(name, shape)
	if err != nil {
		return nil, err
	}
	full := make([]Distribution, size)
	trail := size / len(dists)
	for i, d := range dists {
		if d == nil {
			return nil, fmt.Errorf("site %q: distribution %d is required", name, i)
		}
		for j := 0; j < trail; j++ {
			full[i*trail+j] = d
		}
	}
	return t.declare(name, SampleSite, full, shape, nil)
}

// Deterministic records a derived value under a name. Deterministic sites
// carry no distribution and contribute nothing to the joint density.
func (t *Trace) Deterministic(name string, value *tensor.Dense) error {
	if value == nil {
		return fmt.Errorf("site %q: value is required", name)
	}
	_, err := t.declare(name, DeterministicSite, nil, value.Shape(), value)
	return err
}

// Observe declares the observed outcome under a Normal likelihood centered on
// mu with scale sigma, broadcast together. The observed value must carry the
// broadcast shape exactly.
func (t *Trace) Observe(name string, mu, sigma, observed *tensor.Dense) error {
	if mu == nil || sigma == nil || observed == nil {
		return fmt.Errorf("site %q: location, scale and observed value are required", name)
	}
	locs, err := tensor.Zip(mu, sigma, func(m, _ float64) float64 { return m })
	if err != nil {
		return fmt.Errorf("site %q: %w", name, err)
	}
	scales, err := tensor.Zip(mu, sigma, func(_, s float64) float64 { return s })
	if err != nil {
		return fmt.Errorf("site %q: %w", name, err)
	}
	if !tensor.SameShape(observed.Shape(), locs.Shape()) {
		return fmt.Errorf("observed value for %q has shape %v, likelihood has shape %v", name, observed.Shape(), locs.Shape())
	}
	dists := make([]Distribution, locs.Len())
	for i := range dists {
		dists[i] = Normal{Loc: locs.Raw()[i], Scale: scales.Raw()[i]}
	}
	_, err = t.declare(name, ObservedSite, dists, observed.Shape(), observed)
	return err
}

// Sites returns every site in declaration order.
func (t *Trace) Sites() []*Site {
	return append([]*Site(nil), t.sites...)
}

// Site returns the named site, if declared.
func (t *Trace) Site(name string) (*Site, bool) {
	s, ok := t.index[name]
	return s, ok
}

// LogDensity returns the joint log density of every site at its current
// value. Substitute proposed parameters, redeclare the model, read this.
func (t *Trace) LogDensity() float64 {
	total := 0.0
	for _, s := range t.sites {
		total += s.LogProb()
	}
	return total
}

// ToSpec converts the trace to its primitive spec form.
func (t *Trace) ToSpec() specs.TraceSpec {
	sites := make([]specs.SiteSpec, len(t.sites))
	for i, s := range t.sites {
		sites[i] = specs.SiteSpec{
			Name:    s.Name,
			Kind:    s.Kind.String(),
			Shape:   s.Value.Shape(),
			Values:  append([]float64(nil), s.Value.Raw()...),
			LogProb: s.LogProb(),
		}
	}
	return specs.TraceSpec{Sites: sites, LogDensity: t.LogDensity()}
}

// declare appends a site, drawing or adopting its value. A given value wins
// over everything; otherwise a substitution for the name wins over drawing
// from the distributions.
func (t *Trace) declare(name string, kind SiteKind, dists []Distribution, shape []int, given *tensor.Dense) (*tensor.Dense, error) {
	if name == "" {
		return nil, fmt.Errorf("site name is required")
	}
	if _, exists := t.index[name]; exists {
		return nil, fmt.Errorf("site %q already declared", name)
	}
	var value *tensor.Dense
	switch {
	case given != nil:
		value = given.Clone()
	case t.subs[name] != nil:
		sub := t.subs[name]
		if !tensor.SameShape(sub.Shape(), shape) {
			return nil, fmt.Errorf("substituted value for %q has shape %v, site has shape %v", name, sub.Shape(), shape)
		}
		value = sub
	default:
		draws := make([]float64, len(dists))
		for i, d := range dists {
			draws[i] = d.Sample(t.src)
		}
		v, err := tensor.NewDense(shape, draws)
		if err != nil {
			return nil, fmt.Errorf("site %q: %w", name, err)
		}
		value = v
	}
	site := &Site{Name: name, Kind: kind, Value: value, dists: dists}
	t.sites = append(t.sites, site)
	t.index[name] = site
	return value, nil
}

func plateSize(name string, shape []int) (int, error) {
	size := 1
	for i, dim := range shape {
		if dim <= 0 {
			return 0, fmt.Errorf("site %q: plate dimension %d must be positive, got %d", name, i, dim)
		}
		size *= dim
	}
	return size, nil
}
