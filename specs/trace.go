package specs

// Site kind identifiers as they appear in trace output.
const (
	SiteKindSample        = "sample"
	SiteKindDeterministic = "deterministic"
	SiteKindObserved      = "observed"
)

// SiteSpec is one declaration in a model trace.
//
// Sites appear in declaration order. Sample sites hold either a fresh draw
// from their prior or the substituted value they were conditioned on.
// Deterministic sites record derived quantities such as the transformed media
// and the prediction. The observed site holds the target data itself.
type SiteSpec struct {
	// Parameter or node name, such as "intercept" or "media_transformed".
	Name string `json:"name"`

	// One of "sample", "deterministic" or "observed".
	Kind string `json:"kind"`

	// Shape of the site's value. Empty for a rank-0 scalar.
	Shape []int `json:"shape"`

	// The site's value in row-major order.
	Values []float64 `json:"values"`

	// Log density of the value under the site's distribution. Zero for
	// deterministic sites, which carry no distribution.
	LogProb float64 `json:"logProb"`
}

// TraceSpec is the full record of one model declaration.
type TraceSpec struct {
	// Every site in declaration order.
	Sites []SiteSpec `json:"sites"`

	// Joint log density: the sum of every site's LogProb. This is the
	// quantity an external inference engine drives.
	LogDensity float64 `json:"logDensity"`
}
