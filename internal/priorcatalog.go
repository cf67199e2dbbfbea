package internal

import "fmt"

// Model-level parameter names.
const (
	ParamIntercept         = "intercept"
	ParamCoefTrend         = "coef_trend"
	ParamSigma             = "sigma"
	ParamCoefExtraFeatures = "coef_extra_features"
)

// Transform-level parameter names.
const (
	ParamExponent              = "exponent"
	ParamLagWeight             = "lag_weight"
	ParamHalfMaxConcentration  = "half_max_effective_concentration"
	ParamSlope                 = "slope"
	ParamAdEffectRetentionRate = "ad_effect_retention_rate"
	ParamPeakEffectDelay       = "peak_effect_delay"
)

// DefaultModelPriors returns a fresh table of the model-level default priors.
//
// The table includes coef_trend for callers that enumerate parameter names,
// although the model itself declares no trend site.
func DefaultModelPriors() map[string]Distribution {
	return map[string]Distribution{
		ParamIntercept:         HalfNormal{Scale: 2},
		ParamCoefTrend:         Normal{Loc: 0, Scale: 1},
		ParamSigma:             Gamma{Concentration: 1, Rate: 1},
		ParamCoefExtraFeatures: Normal{Loc: 0, Scale: 1},
	}
}

// ModelPriorNames returns the model-level parameter names in declaration
// order.
func ModelPriorNames() []string {
	return []string{ParamIntercept, ParamCoefTrend, ParamSigma, ParamCoefExtraFeatures}
}

// DefaultTransformPriors returns a fresh table of the default priors for the
// parameters the given transform samples. Pinned parameters of the static
// variants do not appear; they are constants, not priors.
func DefaultTransformPriors(transform MediaTransform) (map[string]Distribution, error) {
	switch transform.value {
	case TransformCarryover:
		return map[string]Distribution{
			ParamAdEffectRetentionRate: Beta{Concentration1: 1, Concentration0: 1},
			ParamPeakEffectDelay:       HalfNormal{Scale: 2},
			ParamExponent:              Beta{Concentration1: 9, Concentration0: 1},
		}, nil
	case TransformAdstock:
		return map[string]Distribution{
			ParamExponent:  Beta{Concentration1: 9, Concentration0: 1},
			ParamLagWeight: Beta{Concentration1: 2, Concentration0: 1},
		}, nil
	case TransformHillAdstock:
		return map[string]Distribution{
			ParamLagWeight:            Beta{Concentration1: 2, Concentration0: 1},
			ParamHalfMaxConcentration: Gamma{Concentration: 1, Rate: 1},
			ParamSlope:                Gamma{Concentration: 1, Rate: 1},
		}, nil
	case TransformExponentialAdstock:
		return map[string]Distribution{
			ParamLagWeight: Beta{Concentration1: 2, Concentration0: 1},
			ParamSlope:     Gamma{Concentration: 1, Rate: 1},
		}, nil
	case TransformExponentialAdstockStaticDim:
		return map[string]Distribution{
			ParamLagWeight: Beta{Concentration1: 2, Concentration0: 1},
		}, nil
	case TransformExponentialAdstockStaticDecay:
		return map[string]Distribution{
			ParamSlope: Gamma{Concentration: 1, Rate: 1},
		}, nil
	case TransformExponentialAdstockStaticDimDecay:
		return map[string]Distribution{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, transform.value)
	}
}

// TransformPriorNames returns the parameter names associated with the given
// transform. The static variants list lag_weight and slope even though they
// pin one or both, so callers can enumerate every parameter a transform
// family touches.
func TransformPriorNames(transform MediaTransform) ([]string, error) {
	switch transform.value {
	case TransformCarryover:
		return []string{ParamAdEffectRetentionRate, ParamPeakEffectDelay, ParamExponent}, nil
	case TransformAdstock:
		return []string{ParamExponent, ParamLagWeight}, nil
	case TransformHillAdstock:
		return []string{ParamLagWeight, ParamHalfMaxConcentration, ParamSlope}, nil
	case TransformExponentialAdstock,
		TransformExponentialAdstockStaticDim,
		TransformExponentialAdstockStaticDecay,
		TransformExponentialAdstockStaticDimDecay:
		return []string{ParamLagWeight, ParamSlope}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, transform.value)
	}
}
