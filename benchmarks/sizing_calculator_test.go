package benchmarks

import (
	"encoding/json"
	"runtime"
	"testing"
	"unsafe"

	"github.com/chrisconley/peitho/internal"
	"github.com/chrisconley/peitho/specs"
)

// SizeBreakdown provides size estimates for different contexts
type SizeBreakdown struct {
	GoMemoryEstimate int   // Estimated in-memory struct size
	GoMemoryMeasured int   // Measured from runtime.MemStats
	JSONWireFormat   int   // Serialized JSON size
	BinaryEstimate   int   // Raw float64 columns, as a sample store would keep them
	AllocationCount  int   // Number of heap allocations
	AllocatedBytes   int64 // Total bytes allocated
}

// Calculate TraceSpec size breakdown for the traces an engine keeps around
func TestTraceSizeBreakdown(t *testing.T) {
	scenarios := []struct {
		name  string
		input specs.ModelInputSpec
	}{
		{name: "Minimal national (8 weeks, 1 channel)", input: newNationalInput(8, 1)},
		{name: "Realistic national (104 weeks, 3 channels)", input: newNationalInput(104, 3)},
		{name: "Realistic geo (104 weeks, 3 channels, 5 geos)", input: newGeoInput(104, 3, 5)},
	}

	t.Log("\n=== TraceSpec Size Analysis ===\n")

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			trace, err := internal.DeclareMediaMixModel(scenario.input)
			if err != nil {
				t.Fatal(err)
			}
			breakdown := calculateSizeBreakdown(trace)

			t.Logf("\n%s:", scenario.name)
			t.Logf("  Sites:                 %d", len(trace.Sites))
			t.Logf("  Go Memory (estimated): %d bytes", breakdown.GoMemoryEstimate)
			t.Logf("  Go Memory (measured):  %d bytes", breakdown.GoMemoryMeasured)
			t.Logf("  JSON Wire Format:      %d bytes", breakdown.JSONWireFormat)
			t.Logf("  Binary columns:        %d bytes", breakdown.BinaryEstimate)
			t.Logf("  Allocations:           %d", breakdown.AllocationCount)
			t.Logf("  Total Allocated:       %d bytes", breakdown.AllocatedBytes)
		})
	}
}

// Calculate ModelInputSpec size breakdown
func TestModelInputSizeBreakdown(t *testing.T) {
	scenarios := []struct {
		name  string
		input specs.ModelInputSpec
	}{
		{name: "Minimal national", input: newNationalInput(8, 1)},
		{name: "Realistic national", input: newNationalInput(104, 3)},
		{name: "Realistic geo", input: newGeoInput(104, 3, 5)},
	}

	t.Log("\n=== ModelInputSpec Size Analysis ===\n")

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			breakdown := calculateSizeBreakdown(scenario.input)

			t.Logf("\n%s:", scenario.name)
			t.Logf("  Go Memory (estimated): %d bytes", breakdown.GoMemoryEstimate)
			t.Logf("  Go Memory (measured):  %d bytes", breakdown.GoMemoryMeasured)
			t.Logf("  JSON Wire Format:      %d bytes", breakdown.JSONWireFormat)
			t.Logf("  Binary columns:        %d bytes", breakdown.BinaryEstimate)
			t.Logf("  Allocations:           %d", breakdown.AllocationCount)
			t.Logf("  Total Allocated:       %d bytes", breakdown.AllocatedBytes)
		})
	}
}

// calculateSizeBreakdown measures and estimates sizes for any value
func calculateSizeBreakdown(v interface{}) SizeBreakdown {
	breakdown := SizeBreakdown{}

	// Measure JSON wire format
	jsonData, err := json.Marshal(v)
	if err == nil {
		breakdown.JSONWireFormat = len(jsonData)
	}

	// Estimate Go memory based on type
	switch val := v.(type) {
	case specs.TraceSpec:
		breakdown.GoMemoryEstimate = estimateTraceSize(val)
		breakdown.BinaryEstimate = estimateTraceBinarySize(val)
	case specs.ModelInputSpec:
		breakdown.GoMemoryEstimate = estimateModelInputSize(val)
		breakdown.BinaryEstimate = estimateModelInputBinarySize(val)
	}

	// Measure actual memory allocation
	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	// Allocate multiple copies to get measurable difference
	const iterations = 1000
	slice := make([]interface{}, iterations)
	for i := 0; i < iterations; i++ {
		slice[i] = v
	}

	runtime.ReadMemStats(&m2)

	breakdown.GoMemoryMeasured = int((m2.Alloc - m1.Alloc) / iterations)
	breakdown.AllocationCount = int((m2.Mallocs - m1.Mallocs) / iterations)
	breakdown.AllocatedBytes = int64((m2.TotalAlloc - m1.TotalAlloc) / iterations)

	return breakdown
}

// estimateTensorSize estimates Go memory for one TensorSpec
func estimateTensorSize(t specs.TensorSpec) int {
	size := 0
	size += 24 + 8*len(t.Shape)  // shape slice header + ints
	size += 24 + 8*len(t.Values) // values slice header + float64s
	return size
}

// estimateTraceSize estimates Go memory for a TraceSpec
func estimateTraceSize(t specs.TraceSpec) int {
	size := 24 // sites slice header
	for _, site := range t.Sites {
		size += 16 + len(site.Name) // name header + data
		size += 16 + len(site.Kind) // kind header + data
		size += 24 + 8*len(site.Shape)
		size += 24 + 8*len(site.Values)
		size += 8 // log prob
	}
	size += 8 // log density
	return size
}

// estimateTraceBinarySize counts only the float64 columns, the way a sample
// store keeps one posterior draw
func estimateTraceBinarySize(t specs.TraceSpec) int {
	size := 0
	for _, site := range t.Sites {
		size += 8 * len(site.Values)
	}
	return size
}

// estimateModelInputSize estimates Go memory for a ModelInputSpec
func estimateModelInputSize(in specs.ModelInputSpec) int {
	size := 0
	size += estimateTensorSize(in.Media)
	size += estimateTensorSize(in.Target)
	size += estimateTensorSize(in.MediaPrior)
	size += estimateTensorSize(in.MediaSigma)
	size += 16 + len(in.Transform)
	if in.ExtraFeatures != nil {
		size += estimateTensorSize(*in.ExtraFeatures)
	}
	if in.Substitutions != nil {
		size += 48
		for name, value := range in.Substitutions {
			size += 16 + len(name)
			size += estimateTensorSize(value)
		}
	}
	size += 8 // seed
	return size
}

func estimateModelInputBinarySize(in specs.ModelInputSpec) int {
	size := 8 * (len(in.Media.Values) + len(in.Target.Values) +
		len(in.MediaPrior.Values) + len(in.MediaSigma.Values))
	if in.ExtraFeatures != nil {
		size += 8 * len(in.ExtraFeatures.Values)
	}
	return size
}

// Test struct sizes using unsafe.Sizeof
func TestStructSizes(t *testing.T) {
	t.Logf("\n=== Struct Sizes (unsafe.Sizeof) ===\n")

	var tensor specs.TensorSpec
	var prior specs.PriorSpec
	var distribution specs.DistributionSpec
	var options specs.TransformOptionsSpec
	var input specs.ModelInputSpec
	var site specs.SiteSpec
	var trace specs.TraceSpec

	t.Logf("TensorSpec:           %d bytes", unsafe.Sizeof(tensor))
	t.Logf("PriorSpec:            %d bytes", unsafe.Sizeof(prior))
	t.Logf("DistributionSpec:     %d bytes", unsafe.Sizeof(distribution))
	t.Logf("TransformOptionsSpec: %d bytes", unsafe.Sizeof(options))
	t.Logf("ModelInputSpec:       %d bytes", unsafe.Sizeof(input))
	t.Logf("SiteSpec:             %d bytes", unsafe.Sizeof(site))
	t.Logf("TraceSpec:            %d bytes", unsafe.Sizeof(trace))
	t.Logf("slice header:         %d bytes", unsafe.Sizeof([]float64{}))
	t.Logf("map header:           %d bytes", unsafe.Sizeof(map[string]float64{}))
}

// Calculate posterior storage at inference scale
func TestScaleCalculations(t *testing.T) {
	const chains = 4
	const samplesPerChain = 2000
	const keptTraces = chains * samplesPerChain

	scenarios := []struct {
		name        string
		input       specs.ModelInputSpec
		description string
	}{
		{
			name:        "National",
			input:       newNationalInput(104, 3),
			description: "104 weeks, 3 channels",
		},
		{
			name:        "Geo",
			input:       newGeoInput(104, 3, 5),
			description: "104 weeks, 3 channels, 5 geos",
		},
	}

	t.Logf("\n=== Posterior Storage Analysis ===\n")
	t.Logf("Chains: %d, samples per chain: %d, kept traces: %d\n", chains, samplesPerChain, keptTraces)

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			trace, err := internal.DeclareMediaMixModel(scenario.input)
			if err != nil {
				t.Fatal(err)
			}

			fullBytes := estimateTraceBinarySize(trace)
			latentBytes := 0
			for _, site := range trace.Sites {
				if site.Kind == specs.SiteKindSample {
					latentBytes += 8 * len(site.Values)
				}
			}

			fullMB := float64(fullBytes*keptTraces) / (1024 * 1024)
			latentMB := float64(latentBytes*keptTraces) / (1024 * 1024)

			t.Logf("%s (%s):", scenario.name, scenario.description)
			t.Logf("  Full trace per draw:    %d bytes", fullBytes)
			t.Logf("  Latents only per draw:  %d bytes", latentBytes)
			t.Logf("  Full posterior:         %.2f MB", fullMB)
			t.Logf("  Latents-only posterior: %.2f MB", latentMB)
		})
	}
}
