// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package warp

import "math"

// ResampleMode selects the resampling kernel used by the source sampler.
type ResampleMode int

const (
	Nearest ResampleMode = iota
	Bilinear
	Cubic
)

func (m ResampleMode) String() string {
	switch m {
	case Nearest:
		return "Nearest"
	case Bilinear:
		return "Bilinear"
	case Cubic:
		return "Cubic"
	}
	return "Unknown"
}

func (m ResampleMode) valid() bool {
	switch m {
	case Nearest, Bilinear, Cubic:
		return true
	}
	return false
}

var resampleModeByName = map[string]ResampleMode{
	"Nearest": Nearest, "Bilinear": Bilinear, "Cubic": Cubic,
}

// ParseResampleMode resolves a resampling mode by its canonical name, for
// CLI flags and JSON request bodies that cannot carry the typed enum
// directly.
func ParseResampleMode(name string) (ResampleMode, error) {
	if m, ok := resampleModeByName[name]; ok {
		return m, nil
	}
	return Nearest, newConfigError("unrecognized resample_mode %q", name)
}

// RadiusFor returns the number of pixels a resampling mode reaches from its
// fractional center: 0 for Nearest, 1 for Bilinear, 2 for Cubic. The driver
// passes it to withinSampleWindow for its reject-coarse bounds check; the tap
// builders below use the matching offsets directly, and sampleWeighted
// re-checks each tap's coordinates without consulting the radius.
func RadiusFor(m ResampleMode) int {
	switch m {
	case Nearest:
		return 0
	case Bilinear:
		return 1
	case Cubic:
		return 2
	}
	return 0
}

// cubicWeight is the Keys cubic convolution kernel with a = -0.5.
func cubicWeight(t float64) float64 {
	const a = -0.5
	t = math.Abs(t)
	switch {
	case t <= 1:
		return (a+2)*t*t*t - (a+3)*t*t + 1
	case t <= 2:
		return a*t*t*t - 5*a*t*t + 8*a*t - 4*a
	default:
		return 0
	}
}

// tap is one weighted contributing sample location.
type tap struct {
	x, y   int
	weight float64
}

// sampleSource returns the resampled (density, real, imag) at the given
// fractional source-window-local coordinate for one band, or ok=false for
// "no contribution" (invalid/absent source, zero accumulated weight, or the
// needed taps fall outside [0,width)x[0,height)).
func (k *Kernel) sampleSource(band int, fx, fy float64) (density, real, imag float64, ok bool) {
	switch k.ResampleMode {
	case Nearest:
		return k.sampleNearest(band, fx, fy)
	case Bilinear:
		taps := bilinearTaps(fx, fy)
		return k.sampleWeighted(band, taps[:])
	case Cubic:
		taps := cubicTaps(fx, fy)
		return k.sampleWeighted(band, taps[:])
	}
	return 0, 0, 0, false
}

func (k *Kernel) sampleNearest(band int, fx, fy float64) (density, real, imag float64, ok bool) {
	x, y := int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || y < 0 || x >= k.SrcWidth || y >= k.SrcHeight {
		return 0, 0, 0, false
	}
	i := x + y*k.SrcWidth
	if !k.sourcePixelValid(band, i) {
		return 0, 0, 0, false
	}
	d := k.sourceDensity(i)
	if d == 0 {
		return 0, 0, 0, false
	}
	r, im, err := Load(k.ElementFormat, k.SrcBands[band], i)
	if err != nil {
		return 0, 0, 0, false
	}
	return d, r, im, true
}

// Sample values are representative of a whole pixel cell spanning [i, i+1)
// with the cell center at i+0.5 — the same convention the driver uses to
// build fx/fy and Nearest uses via a direct floor. Bilinear and cubic must
// shift by -0.5 before flooring so a coordinate exactly on a cell center
// resolves to alpha=0 (full weight on that cell) and a coordinate exactly on
// a cell boundary resolves to alpha=0.5 (even split between neighbors).
func bilinearTaps(fx, fy float64) (taps [4]tap) {
	fx, fy = fx-0.5, fy-0.5
	xl, yl := int(math.Floor(fx)), int(math.Floor(fy))
	alpha, beta := fx-float64(xl), fy-float64(yl)
	return [4]tap{
		{xl, yl, (1 - alpha) * (1 - beta)},
		{xl + 1, yl, alpha * (1 - beta)},
		{xl, yl + 1, (1 - alpha) * beta},
		{xl + 1, yl + 1, alpha * beta},
	}
}

func cubicTaps(fx, fy float64) (taps [16]tap) {
	fx, fy = fx-0.5, fy-0.5
	xl, yl := int(math.Floor(fx)), int(math.Floor(fy))
	alpha, beta := fx-float64(xl), fy-float64(yl)
	var wx, wy [4]float64
	for i := 0; i < 3; i++ {
		wx[i] = cubicWeight(float64(i-1) - alpha)
		wy[i] = cubicWeight(float64(i-1) - beta)
	}
	// The last weight is one minus the other three, so each 1-D weight set
	// sums to one up to a single rounding instead of the accumulated error
	// of four separate polynomial evaluations.
	wx[3] = 1 - (wx[0] + wx[1] + wx[2])
	wy[3] = 1 - (wy[0] + wy[1] + wy[2])
	n := 0
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			taps[n] = tap{xl + i - 1, yl + j - 1, wx[i] * wy[j]}
			n++
		}
	}
	return taps
}

// withinSampleWindow reports whether sampleSource's taps for (fx,fy) all
// fall inside [0,SrcWidth)x[0,SrcHeight), without building the tap list.
// Nearest reads the single cell at floor(fx); Bilinear/Cubic shift by -0.5
// first (see bilinearTaps/cubicTaps) and then read offsets -(radius-1)..
// radius around the shifted floor, so the margin check below must apply the
// same shift or it silently rejects samples the sampler would in fact serve
// — notably any coordinate exactly on or near a cell center at the window
// edge.
func (k *Kernel) withinSampleWindow(fx, fy float64, radius int) bool {
	if k.ResampleMode == Nearest {
		x, y := int(math.Floor(fx)), int(math.Floor(fy))
		return x >= 0 && y >= 0 && x < k.SrcWidth && y < k.SrcHeight
	}
	fx, fy = fx-0.5, fy-0.5
	xl, yl := int(math.Floor(fx)), int(math.Floor(fy))
	lowOff := radius - 1
	return xl >= lowOff && xl+radius < k.SrcWidth && yl >= lowOff && yl+radius < k.SrcHeight
}

// sampleWeighted accumulates an arbitrary list of taps: each tap's effective
// weight is its spatial weight times its density times (1 if valid else 0);
// out-of-window taps contribute nothing, same as invalid ones. Accumulated
// weight W=0 means "no contribution"; otherwise density is W clamped to 1.0
// and the value is the weighted average.
func (k *Kernel) sampleWeighted(band int, taps []tap) (density, real, imag float64, ok bool) {
	var sumW, sumR, sumI float64
	for _, t := range taps {
		if t.x < 0 || t.y < 0 || t.x >= k.SrcWidth || t.y >= k.SrcHeight {
			continue
		}
		i := t.x + t.y*k.SrcWidth
		if !k.sourcePixelValid(band, i) {
			continue
		}
		d := k.sourceDensity(i)
		if d == 0 {
			continue
		}
		r, im, err := Load(k.ElementFormat, k.SrcBands[band], i)
		if err != nil {
			continue
		}
		w := t.weight * d
		sumW += w
		sumR += w * r
		sumI += w * im
	}
	if sumW == 0 {
		return 0, 0, 0, false
	}
	density = sumW
	if density > 1.0 {
		density = 1.0
	}
	return density, sumR / sumW, sumI / sumW, true
}
