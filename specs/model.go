package specs

// TransformOptionsSpec carries the per-invocation knobs a media transform
// accepts beyond its sampled parameters.
type TransformOptionsSpec struct {
	// Whether adstock rescales by one minus the lag weight.
	//
	// Nil picks the transform's own default: true for "adstock" and
	// "hill_adstock", false for the exponential variants. Carryover
	// ignores it.
	Normalise *bool `json:"normalise,omitempty"`

	// Size of the carryover lag window. Zero picks the default of 13.
	// Only the "carryover" transform reads it.
	NumberLags int `json:"numberLags,omitempty"`
}

// ModelInputSpec is the complete input of one media mix model declaration.
//
// Media rank decides the model's geometry: rank 2 (time, channel) declares a
// national model, rank 3 (time, channel, geo) declares a geo model with
// per-geo intercepts, noise scales and media coefficients. Any other rank is
// rejected.
type ModelInputSpec struct {
	// Media exposure per timestep and channel, optionally per geo.
	Media TensorSpec `json:"media"`

	// Observed outcome: (time) for national models, (time, geo) for geo
	// models.
	Target TensorSpec `json:"target"`

	// Location of each channel's coefficient prior, shape (channel).
	// Typically the channel's total cost, tying coefficient scale to spend.
	MediaPrior TensorSpec `json:"mediaPrior"`

	// Scale of each channel's coefficient prior, shape (channel).
	MediaSigma TensorSpec `json:"mediaSigma"`

	// Media transform strategy name. One of "adstock", "hill_adstock",
	// "carryover", "exponential_adstock", "exponential_adstock_static_dim",
	// "exponential_adstock_static_decay" or
	// "exponential_adstock_static_dim_decay".
	Transform string `json:"transform"`

	// Prior overrides keyed by parameter name, such as "intercept" or
	// "lag_weight". Parameters without an override keep their defaults.
	CustomPriors map[string]PriorSpec `json:"customPriors,omitempty"`

	// Transform options. The zero value picks every default.
	Options TransformOptionsSpec `json:"options"`

	// Optional non-media covariates: (time, feature) for national models,
	// (time, feature, geo) for geo models. Nil declares no extra features.
	ExtraFeatures *TensorSpec `json:"extraFeatures,omitempty"`

	// Seed for the trace's random source. The same seed over the same
	// input replays the identical trace.
	Seed uint64 `json:"seed,omitempty"`

	// Values substituted for named latent sites instead of drawing from
	// their priors. This is how an inference engine evaluates the model at
	// proposed parameter values.
	Substitutions map[string]TensorSpec `json:"substitutions,omitempty"`
}

// DeclareModel declares one media mix model and returns its trace.
//
// The declaration walks the generative story in a fixed order:
//  1. Sample the intercept and noise scale, one per geo.
//  2. Sample per-channel media coefficients around the cost priors.
//  3. Apply the media transform, sampling its own parameters.
//  4. Record the transformed media as a deterministic site.
//  5. Contract transformed media with the coefficients, add the intercept
//     (plus any extra-feature effect) to form the prediction.
//  6. Record the prediction as a deterministic site.
//  7. Observe the target under a normal likelihood.
//
// Returns error for an unknown transform name, an unsupported media rank, a
// malformed prior override, or a shape that does not broadcast.
//
// This is the spec-level interface using only primitive types.
// See internal.DeclareMediaMixModel for the reference implementation.
type DeclareModel func(input ModelInputSpec) (TraceSpec, error)
