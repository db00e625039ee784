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

import (
	"math"
	"testing"
)

func byteBuffer(values []float64) []byte {
	buf := make([]byte, len(values))
	for i, v := range values {
		Store(Byte, buf, i, v, 0)
	}
	return buf
}

func float64Buffer(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		Store(Float64, buf, i, v, 0)
	}
	return buf
}

func TestBilinearUniformNeighborhoodReturnsExactValue(t *testing.T) {
	const v = 42.0
	k := &Kernel{
		ResampleMode:  Bilinear,
		ElementFormat: Float64,
		BandCount:     1,
		SrcWidth:      4,
		SrcHeight:     4,
		SrcBands:      [][]byte{float64Buffer(repeat(v, 16))},
	}
	d, r, _, ok := k.sampleSource(0, 1.5, 1.5)
	if !ok {
		t.Fatal("expected a contribution")
	}
	if r != v {
		t.Errorf("got %v, want %v", r, v)
	}
	if d != 1.0 {
		t.Errorf("expected density 1.0 for a fully valid neighborhood, got %v", d)
	}
}

func TestCubicUniformNeighborhoodReturnsExactValue(t *testing.T) {
	const v = 7.0
	k := &Kernel{
		ResampleMode:  Cubic,
		ElementFormat: Float64,
		BandCount:     1,
		SrcWidth:      6,
		SrcHeight:     6,
		SrcBands:      [][]byte{float64Buffer(repeat(v, 36))},
	}
	d, r, _, ok := k.sampleSource(0, 2.5, 2.5)
	if !ok {
		t.Fatal("expected a contribution")
	}
	if r != v {
		t.Errorf("got %v, want %v", r, v)
	}
	if d != 1.0 {
		t.Errorf("expected density 1.0, got %v", d)
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// TestBilinearFourCorners checks that a 2x2 source {10,20,30,40} sampled at
// its exact geometric center averages all four corners equally to 25.
func TestBilinearFourCorners(t *testing.T) {
	k := &Kernel{
		ResampleMode:  Bilinear,
		ElementFormat: Float64,
		BandCount:     1,
		SrcWidth:      2,
		SrcHeight:     2,
		SrcBands:      [][]byte{float64Buffer([]float64{10, 20, 30, 40})},
	}
	_, r, _, ok := k.sampleSource(0, 1.0, 1.0)
	if !ok {
		t.Fatal("expected a contribution")
	}
	if r != 25 {
		t.Errorf("got %v, want 25", r)
	}
}

// TestCubicMonotonicRamp checks that a monotone ramp resampled with cubic
// convolution stays monotone non-decreasing.
func TestCubicMonotonicRamp(t *testing.T) {
	src := []float64{10, 20, 30, 40, 50, 60}
	k := &Kernel{
		ResampleMode:  Cubic,
		ElementFormat: Float64,
		BandCount:     1,
		SrcWidth:      6,
		SrcHeight:     1,
		SrcBands:      [][]byte{float64Buffer(src)},
	}
	var prev float64 = math.Inf(-1)
	for i := 0; i <= 10; i++ {
		fx := float64(i) * 0.5
		_, r, _, ok := k.sampleSource(0, fx, 0.5)
		if !ok {
			continue // edges may fall outside the 4x4 window, acceptable
		}
		if r < prev-1e-9 {
			t.Errorf("sequence not monotone at x=%v: got %v after %v", fx, r, prev)
		}
		prev = r
	}
}

func TestNearestOutOfWindowIsNoContribution(t *testing.T) {
	k := &Kernel{
		ResampleMode:  Nearest,
		ElementFormat: Byte,
		BandCount:     1,
		SrcWidth:      4,
		SrcHeight:     4,
		SrcBands:      [][]byte{byteBuffer(repeat(5, 16))},
	}
	if _, _, _, ok := k.sampleSource(0, -0.5, 0); ok {
		t.Error("expected no contribution for an out-of-window sample")
	}
	if _, _, _, ok := k.sampleSource(0, 4.5, 0); ok {
		t.Error("expected no contribution for an out-of-window sample")
	}
}

func TestZeroDensityIsNoContribution(t *testing.T) {
	k := &Kernel{
		ResampleMode:      Nearest,
		ElementFormat:     Byte,
		BandCount:         1,
		SrcWidth:          2,
		SrcHeight:         2,
		SrcBands:          [][]byte{byteBuffer([]float64{1, 2, 3, 4})},
		SrcUnifiedDensity: DensityPlane{0, 0, 0, 0},
	}
	if _, _, _, ok := k.sampleSource(0, 0, 0); ok {
		t.Error("zero density must be 'no contribution', not 'valid with weight 0'")
	}
}

func TestInvalidMaskIsNoContribution(t *testing.T) {
	k := &Kernel{
		ResampleMode:    Nearest,
		ElementFormat:   Byte,
		BandCount:       1,
		SrcWidth:        2,
		SrcHeight:       2,
		SrcBands:        [][]byte{byteBuffer([]float64{1, 2, 3, 4})},
		SrcUnifiedValid: BitPlane{0}, // all invalid
	}
	if _, _, _, ok := k.sampleSource(0, 0, 0); ok {
		t.Error("an all-invalid unified mask must suppress every contribution")
	}
}

func TestComplexInterpolationIndependence(t *testing.T) {
	// Real channel is a ramp, imaginary channel is constant; changing the
	// imaginary plane must not perturb the real interpolation and vice versa.
	buf := make([]byte, 8*2*4) // CFloat64, 4 elements
	Store(CFloat64, buf, 0, 0, 100)
	Store(CFloat64, buf, 1, 10, 100)
	Store(CFloat64, buf, 2, 0, 200)
	Store(CFloat64, buf, 3, 10, 200)

	k := &Kernel{
		ResampleMode:  Bilinear,
		ElementFormat: CFloat64,
		BandCount:     1,
		SrcWidth:      2,
		SrcHeight:     2,
		SrcBands:      [][]byte{buf},
	}
	_, r, im, ok := k.sampleSource(0, 1.0, 1.0)
	if !ok {
		t.Fatal("expected a contribution")
	}
	if r != 5 {
		t.Errorf("real part got %v, want 5", r)
	}
	if im != 150 {
		t.Errorf("imaginary part got %v, want 150", im)
	}
}
