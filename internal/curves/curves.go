package curves

import (
	"fmt"
	"math"

	"github.com/chrisconley/peitho/internal/tensor"
)

// Adstock carries media effect forward along the time axis with geometric
// decay: out[0] = data[0], then out[t] = out[t-1]*lagWeight + data[t]. The lag
// weight broadcasts against the per-timestep slice, so a per-channel vector
// decays each channel at its own rate. With normalise the series is scaled by
// (1 - lagWeight) so the long-run total matches the raw spend.
func Adstock(data, lagWeight *tensor.Dense, normalise bool) (*tensor.Dense, error) {
	if data.Rank() < 1 {
		return nil, fmt.Errorf("adstock needs a time axis, got a rank-0 tensor")
	}
	shape := data.Shape()
	weights, err := lagWeight.BroadcastTo(shape[1:])
	if err != nil {
		return nil, fmt.Errorf("adstock lag weight: %w", err)
	}

	out := tensor.Zeros(shape...)
	src, dst, w := data.Raw(), out.Raw(), weights.Raw()
	block := len(w)
	copy(dst[:block], src[:block])
	for t := 1; t < shape[0]; t++ {
		prev := dst[(t-1)*block:]
		cur := dst[t*block:]
		in := src[t*block:]
		for j := 0; j < block; j++ {
			cur[j] = prev[j]*w[j] + in[j]
		}
	}
	if normalise {
		for t := 0; t < shape[0]; t++ {
			row := dst[t*block:]
			for j := 0; j < block; j++ {
				row[j] *= 1 - w[j]
			}
		}
	}
	return out, nil
}

// Carryover spreads each timestep's media effect over a finite window of
// numberLags lags. Lag l carries weight retentionRate^((l - peakDelay)^2), a
// bell over the lags that peaks at peakDelay, so effect can build before it
// fades. Both parameters are per channel, broadcast across geos.
func Carryover(data, retentionRate, peakDelay *tensor.Dense, numberLags int) (*tensor.Dense, error) {
	if numberLags < 1 {
		return nil, fmt.Errorf("carryover needs at least one lag, got %d", numberLags)
	}
	if data.Rank() < 2 {
		return nil, fmt.Errorf("carryover needs time and channel axes, got a rank-%d tensor", data.Rank())
	}
	shape := data.Shape()
	steps, channels := shape[0], shape[1]
	retention, err := retentionRate.BroadcastTo([]int{channels})
	if err != nil {
		return nil, fmt.Errorf("carryover retention rate: %w", err)
	}
	delay, err := peakDelay.BroadcastTo([]int{channels})
	if err != nil {
		return nil, fmt.Errorf("carryover peak delay: %w", err)
	}

	weights := make([]float64, numberLags*channels)
	for l := 0; l < numberLags; l++ {
		for c := 0; c < channels; c++ {
			spread := float64(l) - delay.Raw()[c]
			weights[l*channels+c] = math.Pow(retention.Raw()[c], spread*spread)
		}
	}

	inner := data.Len() / (steps * channels)
	out := tensor.Zeros(shape...)
	src, dst := data.Raw(), out.Raw()
	for t := 0; t < steps; t++ {
		maxLag := numberLags
		if t+1 < maxLag {
			maxLag = t + 1
		}
		for c := 0; c < channels; c++ {
			for j := 0; j < inner; j++ {
				total := 0.0
				for l := 0; l < maxLag; l++ {
					total += weights[l*channels+c] * src[((t-l)*channels+c)*inner+j]
				}
				dst[(t*channels+c)*inner+j] = total
			}
		}
	}
	return out, nil
}

// Hill applies the Hill saturation curve 1 / (1 + (x/K)^-slope), where K is
// the half-max effective concentration. Zero media stays exactly zero.
func Hill(data, halfMax, slope *tensor.Dense) (*tensor.Dense, error) {
	ratio, err := data.Div(halfMax)
	if err != nil {
		return nil, fmt.Errorf("hill half-max concentration: %w", err)
	}
	raised, err := ApplyExponentSafe(ratio, slope.Map(func(s float64) float64 { return -s }))
	if err != nil {
		return nil, fmt.Errorf("hill slope: %w", err)
	}
	return raised.Map(func(v float64) float64 {
		if v == 0 {
			return 0
		}
		return 1 / (1 + v)
	}), nil
}

// Exponential applies the saturating curve 1 - exp(-slope*x), rising from zero
// toward one as media grows.
func Exponential(data, slope *tensor.Dense) (*tensor.Dense, error) {
	out, err := tensor.Zip(data, slope, func(x, s float64) float64 {
		return 1 - math.Exp(-s*x)
	})
	if err != nil {
		return nil, fmt.Errorf("exponential slope: %w", err)
	}
	return out, nil
}

// ApplyExponentSafe raises data to a broadcast elementwise power without the
// infinities a negative exponent of zero would produce: zero stays exactly
// zero, and negative values keep their sign with the power applied to the
// magnitude.
func ApplyExponentSafe(data, exponent *tensor.Dense) (*tensor.Dense, error) {
	out, err := tensor.Zip(data, exponent, func(x, e float64) float64 {
		if x == 0 {
			return 0
		}
		return math.Copysign(math.Pow(math.Abs(x), e), x)
	})
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	return out, nil
}
