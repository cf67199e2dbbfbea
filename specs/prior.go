package specs

// DistributionSpec names a probability distribution family with its named
// hyperparameters.
//
// Supported families and their hyperparameters:
//   - "normal": loc, scale
//   - "half_normal": scale
//   - "beta": concentration1, concentration0
//   - "gamma": concentration, rate
//   - "log_normal": loc, scale
//   - "uniform": low, high
//   - "delta": value (all mass on a single point)
type DistributionSpec struct {
	// Family identifier, one of the supported family names above.
	Family string `json:"family"`

	// Hyperparameter values keyed by name.
	//
	// Every hyperparameter of the family must be present and no extra keys
	// are allowed. Example for "beta": {"concentration1": 9, "concentration0": 1}.
	Params map[string]float64 `json:"params"`
}

// PriorSpec overrides the default prior of one named model parameter.
//
// Exactly one field must be set. The three literal forms are conveniences that
// are normalized against the parameter's default prior:
//   - Scalar: pins the parameter to a constant (a delta distribution).
//   - Sequence: positional hyperparameters for the default prior's family.
//   - Params: named hyperparameters for the default prior's family.
//
// A full Distribution replaces the default outright, family and all.
type PriorSpec struct {
	// Complete replacement distribution.
	Distribution *DistributionSpec `json:"distribution,omitempty"`

	// Constant value for the parameter.
	Scalar *float64 `json:"scalar,omitempty"`

	// Positional hyperparameters, bound in the default family's declared
	// order. Example: [9, 1] for a beta-distributed parameter.
	Sequence []float64 `json:"sequence,omitempty"`

	// Named hyperparameters for the default family.
	Params map[string]float64 `json:"params,omitempty"`
}

// NewScalarPrior creates a prior override pinning a parameter to a constant.
func NewScalarPrior(value float64) PriorSpec {
	return PriorSpec{Scalar: &value}
}

// NewSequencePrior creates a prior override from positional hyperparameters
// for the parameter's default distribution family.
func NewSequencePrior(values ...float64) PriorSpec {
	return PriorSpec{Sequence: values}
}

// NewParamsPrior creates a prior override from named hyperparameters for the
// parameter's default distribution family.
func NewParamsPrior(params map[string]float64) PriorSpec {
	return PriorSpec{Params: params}
}

// NewDistributionPrior creates a prior override replacing the default
// distribution outright.
//
// Example: NewDistributionPrior("log_normal", map[string]float64{"loc": 0, "scale": 1}).
func NewDistributionPrior(family string, params map[string]float64) PriorSpec {
	return PriorSpec{Distribution: &DistributionSpec{Family: family, Params: params}}
}
