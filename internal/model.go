package internal

import (
	"fmt"

	"github.com/chrisconley/peitho/internal/tensor"
	"github.com/chrisconley/peitho/specs"
)

// Site names the model declares beyond its sampled parameters.
const (
	SiteCoefMedia        = "coef_media"
	SiteChannelCoefMedia = "channel_coef_media"
	SiteMediaTransformed = "media_transformed"
	SiteMu               = "mu"
	SiteTarget           = "target"
)

// ModelInput is the validated domain form of one model declaration's inputs.
type ModelInput struct {
	Media         *tensor.Dense
	Target        *tensor.Dense
	MediaPrior    *tensor.Dense
	MediaSigma    *tensor.Dense
	Transform     MediaTransform
	CustomPriors  CustomPriors
	Options       TransformOptions
	ExtraFeatures *tensor.Dense
}

// NewTensor validates a tensor spec into its dense domain form.
func NewTensor(spec specs.TensorSpec) (*tensor.Dense, error) {
	return tensor.NewDense(spec.Shape, spec.Values)
}

func NewModelInput(spec specs.ModelInputSpec) (ModelInput, error) {
	media, err := NewTensor(spec.Media)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid media: %w", err)
	}

	target, err := NewTensor(spec.Target)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid target: %w", err)
	}

	mediaPrior, err := NewTensor(spec.MediaPrior)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid media prior: %w", err)
	}

	mediaSigma, err := NewTensor(spec.MediaSigma)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid media sigma: %w", err)
	}

	transform, err := NewMediaTransform(spec.Transform)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid transform: %w", err)
	}

	customPriors, err := NewCustomPriors(spec.CustomPriors)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid custom priors: %w", err)
	}

	options, err := NewTransformOptions(spec.Options)
	if err != nil {
		return ModelInput{}, fmt.Errorf("invalid options: %w", err)
	}

	var extraFeatures *tensor.Dense
	if spec.ExtraFeatures != nil {
		extraFeatures, err = NewTensor(*spec.ExtraFeatures)
		if err != nil {
			return ModelInput{}, fmt.Errorf("invalid extra features: %w", err)
		}
	}

	return ModelInput{
		Media:         media,
		Target:        target,
		MediaPrior:    mediaPrior,
		MediaSigma:    mediaSigma,
		Transform:     transform,
		CustomPriors:  customPriors,
		Options:       options,
		ExtraFeatures: extraFeatures,
	}, nil
}

// DeclareMediaMixModel implements specs.DeclareModel.
// Converts specs to domain objects, declares the model into a seeded trace,
// and converts the trace back to specs.
func DeclareMediaMixModel(input specs.ModelInputSpec) (specs.TraceSpec, error) {
	in, err := NewModelInput(input)
	if err != nil {
		return specs.TraceSpec{}, err
	}

	trace := NewTrace(input.Seed)
	for name, value := range input.Substitutions {
		substituted, err := NewTensor(value)
		if err != nil {
			return specs.TraceSpec{}, fmt.Errorf("invalid substitution for %q: %w", name, err)
		}
		if err := trace.Substitute(name, substituted); err != nil {
			return specs.TraceSpec{}, err
		}
	}

	if err := MediaMixModel(trace, in); err != nil {
		return specs.TraceSpec{}, err
	}

	return trace.ToSpec(), nil
}

// MediaMixModel declares the full generative model for one invocation into
// the trace, in a fixed order: per-geo intercept and noise scale, per-channel
// media coefficients, the media transform with its own parameters, the
// transformed media, the linear prediction with any extra-feature effect, and
// the observed outcome.
//
// This is the domain-level function an inference engine drives directly:
// substitute proposed parameters into the trace, declare, read the joint
// density.
func MediaMixModel(trace *Trace, in ModelInput) error {
	if trace == nil {
		return fmt.Errorf("trace is required")
	}
	layout, err := NewMediaLayout(in.Media)
	if err != nil {
		return err
	}
	defaults := DefaultModelPriors()

	interceptPrior, err := ResolvePrior(ParamIntercept, in.CustomPriors, defaults)
	if err != nil {
		return err
	}
	intercept, err := trace.Sample(ParamIntercept, interceptPrior, layout.Geos())
	if err != nil {
		return err
	}

	sigmaPrior, err := ResolvePrior(ParamSigma, in.CustomPriors, defaults)
	if err != nil {
		return err
	}
	sigma, err := trace.Sample(ParamSigma, sigmaPrior, layout.Geos())
	if err != nil {
		return err
	}

	coefMedia, err := sampleMediaCoefficients(trace, layout, in.MediaPrior, in.MediaSigma)
	if err != nil {
		return err
	}

	transformed, err := in.Transform.Apply(trace, in.Media, in.CustomPriors, in.Options)
	if err != nil {
		return err
	}
	if err := trace.Deterministic(SiteMediaTransformed, transformed); err != nil {
		return err
	}

	mediaEffect, err := tensor.Contract(transformed, coefMedia)
	if err != nil {
		return err
	}
	prediction, err := mediaEffect.Add(intercept)
	if err != nil {
		return err
	}

	if in.ExtraFeatures != nil {
		prediction, err = addExtraFeaturesEffect(trace, prediction, in.ExtraFeatures, layout, in.CustomPriors, defaults)
		if err != nil {
			return err
		}
	}

	if err := trace.Deterministic(SiteMu, prediction); err != nil {
		return err
	}

	return trace.Observe(SiteTarget, prediction, sigma, in.Target)
}

// sampleMediaCoefficients declares the per-channel media coefficients around
// the caller's Normal(prior, sigma) cost priors. A geo model first declares
// the auxiliary per-channel site, then the per-channel-and-geo coefficients
// that the contraction consumes.
func sampleMediaCoefficients(trace *Trace, layout MediaLayout, prior, sigma *tensor.Dense) (*tensor.Dense, error) {
	locs, err := tensor.Zip(prior, sigma, func(p, _ float64) float64 { return p })
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", SiteCoefMedia, err)
	}
	scales, err := tensor.Zip(prior, sigma, func(_, s float64) float64 { return s })
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", SiteCoefMedia, err)
	}
	dists := make([]Distribution, locs.Len())
	for i := range dists {
		dists[i] = Normal{Loc: locs.Raw()[i], Scale: scales.Raw()[i]}
	}

	if !layout.IsGeo() {
		return trace.SampleEach(SiteCoefMedia, dists, layout.Channels())
	}
	if _, err := trace.SampleEach(SiteChannelCoefMedia, dists, layout.Channels()); err != nil {
		return nil, err
	}
	return trace.SampleEach(SiteCoefMedia, dists, layout.Channels(), layout.Geos())
}

// addExtraFeaturesEffect samples one coefficient per extra feature, per geo
// in a geo model, and adds the contracted effect to the prediction.
func addExtraFeaturesEffect(trace *Trace, prediction, extra *tensor.Dense, layout MediaLayout, custom CustomPriors, defaults map[string]Distribution) (*tensor.Dense, error) {
	if extra.Rank() < 2 {
		return nil, fmt.Errorf("extra features need time and feature axes, got rank %d", extra.Rank())
	}
	coefPrior, err := ResolvePrior(ParamCoefExtraFeatures, custom, defaults)
	if err != nil {
		return nil, err
	}
	shape := append([]int{extra.Shape()[1]}, layout.GeoShape()...)
	coef, err := trace.Sample(ParamCoefExtraFeatures, coefPrior, shape...)
	if err != nil {
		return nil, err
	}
	effect, err := tensor.Contract(extra, coef)
	if err != nil {
		return nil, err
	}
	return prediction.Add(effect)
}
