package benchmarks

import (
	"encoding/json"
	"testing"

	"github.com/chrisconley/peitho/internal"
	"github.com/chrisconley/peitho/specs"
)

func declaredTrace(b *testing.B, input specs.ModelInputSpec) specs.TraceSpec {
	b.Helper()
	trace, err := internal.DeclareMediaMixModel(input)
	if err != nil {
		b.Fatal(err)
	}
	return trace
}

// Benchmark JSON serialization of a realistic national trace
func BenchmarkTraceSpec_Realistic_JSONMarshal(b *testing.B) {
	trace := declaredTrace(b, newNationalInput(104, 3))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := json.Marshal(trace)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark JSON deserialization of a realistic national trace
func BenchmarkTraceSpec_Realistic_JSONUnmarshal(b *testing.B) {
	jsonData, err := json.Marshal(declaredTrace(b, newNationalInput(104, 3)))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var trace specs.TraceSpec
		if err := json.Unmarshal(jsonData, &trace); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark JSON roundtrip of a realistic national trace
func BenchmarkTraceSpec_Realistic_JSONRoundtrip(b *testing.B) {
	trace := declaredTrace(b, newNationalInput(104, 3))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		jsonData, err := json.Marshal(trace)
		if err != nil {
			b.Fatal(err)
		}

		var decoded specs.TraceSpec
		if err := json.Unmarshal(jsonData, &decoded); err != nil {
			b.Fatal(err)
		}
	}
}

// Measure actual JSON wire size of declared traces
func BenchmarkTraceSpec_JSONSize(b *testing.B) {
	scenarios := []struct {
		name  string
		input specs.ModelInputSpec
	}{
		{name: "Minimal", input: newNationalInput(8, 1)},
		{name: "Realistic_National", input: newNationalInput(104, 3)},
		{name: "Realistic_Geo", input: newGeoInput(104, 3, 5)},
	}

	for _, scenario := range scenarios {
		b.Run(scenario.name, func(b *testing.B) {
			jsonData, err := json.Marshal(declaredTrace(b, scenario.input))
			if err != nil {
				b.Fatal(err)
			}

			b.ReportMetric(float64(len(jsonData)), "bytes")
			b.Logf("%s trace JSON size: %d bytes", scenario.name, len(jsonData))
		})
	}
}
