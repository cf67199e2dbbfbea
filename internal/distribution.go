package internal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/chrisconley/peitho/specs"
)

// Distribution family names as they appear in prior overrides.
const (
	FamilyNormal     = "normal"
	FamilyHalfNormal = "half_normal"
	FamilyBeta       = "beta"
	FamilyGamma      = "gamma"
	FamilyLogNormal  = "log_normal"
	FamilyUniform    = "uniform"
	FamilyDelta      = "delta"
)

// Distribution is a scalar probability distribution a model site draws from.
// Implementations are immutable values; the random source always belongs to
// the caller, so one seeded trace replays identically.
type Distribution interface {
	// Sample draws one value using the caller's random source.
	Sample(src rand.Source) float64
	// LogProb returns the log density at x.
	LogProb(x float64) float64
	// Family returns the distribution's family name.
	Family() string
}

// Normal is the Normal(loc, scale) distribution.
type Normal struct {
	Loc   float64
	Scale float64
}

func (d Normal) Sample(src rand.Source) float64 {
	return distuv.Normal{Mu: d.Loc, Sigma: d.Scale, Src: src}.Rand()
}

func (d Normal) LogProb(x float64) float64 {
	return distuv.Normal{Mu: d.Loc, Sigma: d.Scale}.LogProb(x)
}

func (d Normal) Family() string { return FamilyNormal }

// HalfNormal folds Normal(0, scale) onto the non-negative half line.
type HalfNormal struct {
	Scale float64
}

func (d HalfNormal) Sample(src rand.Source) float64 {
	return math.Abs(distuv.Normal{Mu: 0, Sigma: d.Scale, Src: src}.Rand())
}

func (d HalfNormal) LogProb(x float64) float64 {
	if x < 0 {
		return math.Inf(-1)
	}
	return math.Ln2 + distuv.Normal{Mu: 0, Sigma: d.Scale}.LogProb(x)
}

func (d HalfNormal) Family() string { return FamilyHalfNormal }

// Beta is the Beta(concentration1, concentration0) distribution on [0, 1].
type Beta struct {
	Concentration1 float64
	Concentration0 float64
}

func (d Beta) Sample(src rand.Source) float64 {
	return distuv.Beta{Alpha: d.Concentration1, Beta: d.Concentration0, Src: src}.Rand()
}

func (d Beta) LogProb(x float64) float64 {
	return distuv.Beta{Alpha: d.Concentration1, Beta: d.Concentration0}.LogProb(x)
}

func (d Beta) Family() string { return FamilyBeta }

// Gamma is the Gamma(concentration, rate) distribution on the positive line.
type Gamma struct {
	Concentration float64
	Rate          float64
}

func (d Gamma) Sample(src rand.Source) float64 {
	return distuv.Gamma{Alpha: d.Concentration, Beta: d.Rate, Src: src}.Rand()
}

func (d Gamma) LogProb(x float64) float64 {
	return distuv.Gamma{Alpha: d.Concentration, Beta: d.Rate}.LogProb(x)
}

func (d Gamma) Family() string { return FamilyGamma }

// LogNormal is the distribution of exp(Normal(loc, scale)).
type LogNormal struct {
	Loc   float64
	Scale float64
}

func (d LogNormal) Sample(src rand.Source) float64 {
	return distuv.LogNormal{Mu: d.Loc, Sigma: d.Scale, Src: src}.Rand()
}

func (d LogNormal) LogProb(x float64) float64 {
	return distuv.LogNormal{Mu: d.Loc, Sigma: d.Scale}.LogProb(x)
}

func (d LogNormal) Family() string { return FamilyLogNormal }

// Uniform is the flat distribution on [low, high].
type Uniform struct {
	Low  float64
	High float64
}

func (d Uniform) Sample(src rand.Source) float64 {
	return distuv.Uniform{Min: d.Low, Max: d.High, Src: src}.Rand()
}

func (d Uniform) LogProb(x float64) float64 {
	return distuv.Uniform{Min: d.Low, Max: d.High}.LogProb(x)
}

func (d Uniform) Family() string { return FamilyUniform }

// Delta concentrates all mass on a single point. Scalar prior overrides
// normalize to a Delta, pinning a parameter to a constant.
type Delta struct {
	Point float64
}

func (d Delta) Sample(rand.Source) float64 { return d.Point }

func (d Delta) LogProb(x float64) float64 {
	if x == d.Point {
		return 0
	}
	return math.Inf(-1)
}

func (d Delta) Family() string { return FamilyDelta }

// familyHyperparameters lists each family's hyperparameters in positional
// order, the order sequence literals bind in.
var familyHyperparameters = map[string][]string{
	FamilyNormal:     {"loc", "scale"},
	FamilyHalfNormal: {"scale"},
	FamilyBeta:       {"concentration1", "concentration0"},
	FamilyGamma:      {"concentration", "rate"},
	FamilyLogNormal:  {"loc", "scale"},
	FamilyUniform:    {"low", "high"},
	FamilyDelta:      {"value"},
}

// NewDistribution builds a distribution from its spec form, a family name with
// named hyperparameters.
func NewDistribution(spec specs.DistributionSpec) (Distribution, error) {
	if spec.Family == "" {
		return nil, fmt.Errorf("distribution family is required")
	}
	return distributionFromParams(spec.Family, spec.Params)
}

// distributionFromSequence builds a distribution of the given family from
// positional hyperparameters.
func distributionFromSequence(family string, args []float64) (Distribution, error) {
	names, ok := familyHyperparameters[family]
	if !ok {
		return nil, fmt.Errorf("invalid distribution family: %q", family)
	}
	if len(args) != len(names) {
		return nil, fmt.Errorf("family %q takes %d hyperparameters, got %d", family, len(names), len(args))
	}
	params := make(map[string]float64, len(names))
	for i, name := range names {
		params[name] = args[i]
	}
	return distributionFromParams(family, params)
}

// distributionFromParams builds a distribution of the given family from named
// hyperparameters. Every hyperparameter must be present and none may be
// unknown.
func distributionFromParams(family string, params map[string]float64) (Distribution, error) {
	names, ok := familyHyperparameters[family]
	if !ok {
		return nil, fmt.Errorf("invalid distribution family: %q", family)
	}
	if len(params) != len(names) {
		return nil, fmt.Errorf("family %q takes hyperparameters %v, got %d values", family, names, len(params))
	}
	for _, name := range names {
		if _, ok := params[name]; !ok {
			return nil, fmt.Errorf("family %q is missing hyperparameter %q", family, name)
		}
	}
	switch family {
	case FamilyNormal:
		return Normal{Loc: params["loc"], Scale: params["scale"]}, nil
	case FamilyHalfNormal:
		return HalfNormal{Scale: params["scale"]}, nil
	case FamilyBeta:
		return Beta{Concentration1: params["concentration1"], Concentration0: params["concentration0"]}, nil
	case FamilyGamma:
		return Gamma{Concentration: params["concentration"], Rate: params["rate"]}, nil
	case FamilyLogNormal:
		return LogNormal{Loc: params["loc"], Scale: params["scale"]}, nil
	case FamilyUniform:
		return Uniform{Low: params["low"], High: params["high"]}, nil
	case FamilyDelta:
		return Delta{Point: params["value"]}, nil
	default:
		return nil, fmt.Errorf("invalid distribution family: %q", family)
	}
}
