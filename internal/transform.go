package internal

import (
	"errors"
	"fmt"

	"github.com/chrisconley/peitho/internal/curves"
	"github.com/chrisconley/peitho/internal/tensor"
	"github.com/chrisconley/peitho/specs"
)

// ErrUnknownTransform reports a media transform name outside the supported
// set.
var ErrUnknownTransform = errors.New("unknown media transform")

// The supported media transform strategy names.
const (
	TransformAdstock                          = "adstock"
	TransformHillAdstock                      = "hill_adstock"
	TransformCarryover                        = "carryover"
	TransformExponentialAdstock               = "exponential_adstock"
	TransformExponentialAdstockStaticDim      = "exponential_adstock_static_dim"
	TransformExponentialAdstockStaticDecay    = "exponential_adstock_static_decay"
	TransformExponentialAdstockStaticDimDecay = "exponential_adstock_static_dim_decay"
)

const defaultCarryoverLags = 13

type MediaTransform struct {
	value string
}

func NewMediaTransform(value string) (MediaTransform, error) {
	if value == "" {
		return MediaTransform{}, fmt.Errorf("media transform is required")
	}

	// Validate transform name
	switch value {
	case TransformAdstock, TransformHillAdstock, TransformCarryover,
		TransformExponentialAdstock, TransformExponentialAdstockStaticDim,
		TransformExponentialAdstockStaticDecay, TransformExponentialAdstockStaticDimDecay:
		// Valid
	default:
		return MediaTransform{}, fmt.Errorf("%w: %q", ErrUnknownTransform, value)
	}

	return MediaTransform{value: value}, nil
}

func (t MediaTransform) ToString() string {
	return t.value
}

func (t MediaTransform) IsAdstock() bool {
	return t.value == TransformAdstock
}

func (t MediaTransform) IsHillAdstock() bool {
	return t.value == TransformHillAdstock
}

func (t MediaTransform) IsCarryover() bool {
	return t.value == TransformCarryover
}

func (t MediaTransform) IsExponentialAdstock() bool {
	return t.value == TransformExponentialAdstock
}

func (t MediaTransform) IsExponentialAdstockStaticDim() bool {
	return t.value == TransformExponentialAdstockStaticDim
}

func (t MediaTransform) IsExponentialAdstockStaticDecay() bool {
	return t.value == TransformExponentialAdstockStaticDecay
}

func (t MediaTransform) IsExponentialAdstockStaticDimDecay() bool {
	return t.value == TransformExponentialAdstockStaticDimDecay
}

// TransformOptions carries the per-invocation knobs a transform accepts
// beyond its sampled parameters.
type TransformOptions struct {
	normalise  *bool
	numberLags int
}

func NewTransformOptions(spec specs.TransformOptionsSpec) (TransformOptions, error) {
	if spec.NumberLags < 0 {
		return TransformOptions{}, fmt.Errorf("number of lags cannot be negative")
	}
	opts := TransformOptions{numberLags: spec.NumberLags}
	if spec.Normalise != nil {
		normalise := *spec.Normalise
		opts.normalise = &normalise
	}
	return opts, nil
}

// Normalise returns the normalise flag, falling back to the transform's own
// default when the caller left it unset.
func (o TransformOptions) Normalise(def bool) bool {
	if o.normalise == nil {
		return def
	}
	return *o.normalise
}

// NumberLags returns the carryover window size, 13 unless the caller set one.
func (o TransformOptions) NumberLags() int {
	if o.numberLags == 0 {
		return defaultCarryoverLags
	}
	return o.numberLags
}

// TransformParameter binds one transform parameter either to a latent
// per-channel plate sampled from a prior, or to a fixed constant that
// declares no site. Both forms flow through the same geo broadcast.
type TransformParameter struct {
	name  string
	prior Distribution
	fixed float64
}

// SampledParameter binds name to a per-channel plate drawn from prior.
func SampledParameter(name string, prior Distribution) TransformParameter {
	return TransformParameter{name: name, prior: prior}
}

// FixedParameter binds name to a constant, bypassing sampling entirely.
func FixedParameter(name string, value float64) TransformParameter {
	return TransformParameter{name: name, fixed: value}
}

// Declare realizes the parameter against the trace: sampled parameters become
// a per-channel plate, fixed parameters a plain scalar. In geo mode either
// gains the trailing broadcast axis.
func (p TransformParameter) Declare(t *Trace, layout MediaLayout) (*tensor.Dense, error) {
	if p.prior == nil {
		return layout.ExpandForGeo(tensor.Scalar(p.fixed)), nil
	}
	value, err := t.Sample(p.name, p.prior, layout.Channels())
	if err != nil {
		return nil, err
	}
	return layout.ExpandForGeo(value), nil
}

// Apply samples the transform's parameters into the trace and turns raw media
// exposure into effective exposure of the same shape:
//   - adstock: geometric decay, then a diminishing-returns exponent
//   - hill_adstock: geometric decay, then Hill saturation
//   - carryover: a peaked lag window, then a diminishing-returns exponent
//   - exponential_adstock: geometric decay, then exponential saturation;
//     the static variants pin lag weight, slope or both to constants
//
// Custom priors override the transform's default priors by parameter name.
func (t MediaTransform) Apply(tr *Trace, media *tensor.Dense, custom CustomPriors, opts TransformOptions) (*tensor.Dense, error) {
	layout, err := NewMediaLayout(media)
	if err != nil {
		return nil, err
	}
	defaults, err := DefaultTransformPriors(t)
	if err != nil {
		return nil, err
	}

	switch t.value {
	case TransformAdstock:
		return applyAdstock(tr, media, layout, defaults, custom, opts)

	case TransformHillAdstock:
		return applyHillAdstock(tr, media, layout, defaults, custom, opts)

	case TransformCarryover:
		return applyCarryover(tr, media, layout, defaults, custom, opts)

	case TransformExponentialAdstock:
		lagWeight, err := sampledParam(tr, layout, ParamLagWeight, defaults, custom)
		if err != nil {
			return nil, err
		}
		slope, err := sampledParam(tr, layout, ParamSlope, defaults, custom)
		if err != nil {
			return nil, err
		}
		return applyExponentialAdstock(media, lagWeight, slope, opts)

	case TransformExponentialAdstockStaticDim:
		lagWeight, err := sampledParam(tr, layout, ParamLagWeight, defaults, custom)
		if err != nil {
			return nil, err
		}
		slope, err := FixedParameter(ParamSlope, custom.Pinned(ParamSlope, 1)).Declare(tr, layout)
		if err != nil {
			return nil, err
		}
		return applyExponentialAdstock(media, lagWeight, slope, opts)

	case TransformExponentialAdstockStaticDecay:
		lagWeight, err := FixedParameter(ParamLagWeight, custom.Pinned(ParamLagWeight, 1)).Declare(tr, layout)
		if err != nil {
			return nil, err
		}
		slope, err := sampledParam(tr, layout, ParamSlope, defaults, custom)
		if err != nil {
			return nil, err
		}
		return applyExponentialAdstock(media, lagWeight, slope, opts)

	case TransformExponentialAdstockStaticDimDecay:
		lagWeight, err := FixedParameter(ParamLagWeight, custom.Pinned(ParamLagWeight, 1)).Declare(tr, layout)
		if err != nil {
			return nil, err
		}
		slope, err := FixedParameter(ParamSlope, custom.Pinned(ParamSlope, 1)).Declare(tr, layout)
		if err != nil {
			return nil, err
		}
		return applyExponentialAdstock(media, lagWeight, slope, opts)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, t.value)
	}
}

// sampledParam resolves the named prior and declares its per-channel plate.
func sampledParam(tr *Trace, layout MediaLayout, name string, defaults map[string]Distribution, custom CustomPriors) (*tensor.Dense, error) {
	prior, err := ResolvePrior(name, custom, defaults)
	if err != nil {
		return nil, err
	}
	return SampledParameter(name, prior).Declare(tr, layout)
}

// applyAdstock decays media geometrically, then applies a per-channel
// diminishing-returns exponent. Normalises by default.
func applyAdstock(tr *Trace, media *tensor.Dense, layout MediaLayout, defaults map[string]Distribution, custom CustomPriors, opts TransformOptions) (*tensor.Dense, error) {
	lagWeight, err := sampledParam(tr, layout, ParamLagWeight, defaults, custom)
	if err != nil {
		return nil, err
	}
	exponent, err := sampledParam(tr, layout, ParamExponent, defaults, custom)
	if err != nil {
		return nil, err
	}

	stocked, err := curves.Adstock(media, lagWeight, opts.Normalise(true))
	if err != nil {
		return nil, err
	}
	return curves.ApplyExponentSafe(stocked, exponent)
}

// applyHillAdstock decays media geometrically, then saturates it with a Hill
// curve. Normalises by default.
func applyHillAdstock(tr *Trace, media *tensor.Dense, layout MediaLayout, defaults map[string]Distribution, custom CustomPriors, opts TransformOptions) (*tensor.Dense, error) {
	lagWeight, err := sampledParam(tr, layout, ParamLagWeight, defaults, custom)
	if err != nil {
		return nil, err
	}
	halfMax, err := sampledParam(tr, layout, ParamHalfMaxConcentration, defaults, custom)
	if err != nil {
		return nil, err
	}
	slope, err := sampledParam(tr, layout, ParamSlope, defaults, custom)
	if err != nil {
		return nil, err
	}

	stocked, err := curves.Adstock(media, lagWeight, opts.Normalise(true))
	if err != nil {
		return nil, err
	}
	return curves.Hill(stocked, halfMax, slope)
}

// applyCarryover spreads media over a peaked lag window, then applies a
// per-channel diminishing-returns exponent. The retention rate and peak delay
// stay per channel, shape (channel), because the carryover kernel itself
// broadcasts them; only the exponent gains the geo axis.
func applyCarryover(tr *Trace, media *tensor.Dense, layout MediaLayout, defaults map[string]Distribution, custom CustomPriors, opts TransformOptions) (*tensor.Dense, error) {
	retentionPrior, err := ResolvePrior(ParamAdEffectRetentionRate, custom, defaults)
	if err != nil {
		return nil, err
	}
	retention, err := tr.Sample(ParamAdEffectRetentionRate, retentionPrior, layout.Channels())
	if err != nil {
		return nil, err
	}

	delayPrior, err := ResolvePrior(ParamPeakEffectDelay, custom, defaults)
	if err != nil {
		return nil, err
	}
	delay, err := tr.Sample(ParamPeakEffectDelay, delayPrior, layout.Channels())
	if err != nil {
		return nil, err
	}

	exponentPrior, err := ResolvePrior(ParamExponent, custom, defaults)
	if err != nil {
		return nil, err
	}
	exponent, err := tr.Sample(ParamExponent, exponentPrior, layout.Channels())
	if err != nil {
		return nil, err
	}

	carried, err := curves.Carryover(media, retention, delay, opts.NumberLags())
	if err != nil {
		return nil, err
	}
	return curves.ApplyExponentSafe(carried, layout.ExpandForGeo(exponent))
}

// applyExponentialAdstock decays media geometrically, then saturates it with
// the exponential curve. Does not normalise by default.
func applyExponentialAdstock(media, lagWeight, slope *tensor.Dense, opts TransformOptions) (*tensor.Dense, error) {
	stocked, err := curves.Adstock(media, lagWeight, opts.Normalise(false))
	if err != nil {
		return nil, err
	}
	return curves.Exponential(stocked, slope)
}
