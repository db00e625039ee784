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
	"testing"

	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/floats/scalar"
)

// TestBilinearWeightsArePartitionOfUnity draws random fractional positions
// over a fully valid, fully dense 4x4 field and checks that a fully
// in-window bilinear sample returns a density of exactly 1.0 (the four
// weights always sum to one) to within a few ULPs of floating-point error.
func TestBilinearWeightsArePartitionOfUnity(t *testing.T) {
	const v = 10.0
	k := &Kernel{
		ResampleMode:  Bilinear,
		ElementFormat: Float64,
		BandCount:     1,
		SrcWidth:      4,
		SrcHeight:     4,
		SrcBands:      [][]byte{float64Buffer(repeat(v, 16))},
	}

	for trial := 0; trial < 200; trial++ {
		fx := 1.0 + float64(fastrand.Uint32())/float64(1<<32) // stay within [1,2) so all taps land inside the window
		fy := 1.0 + float64(fastrand.Uint32())/float64(1<<32)

		d, r, _, ok := k.sampleSource(0, fx, fy)
		if !ok {
			t.Fatalf("trial %d at (%v,%v): expected a contribution", trial, fx, fy)
		}
		if !scalar.EqualWithinULP(d, 1.0, 4) {
			t.Errorf("trial %d at (%v,%v): density %v not within ULP tolerance of 1.0", trial, fx, fy, d)
		}
		if !scalar.EqualWithinAbsOrRel(r, v, 1e-9, 1e-9) {
			t.Errorf("trial %d: uniform field should return %v, got %v", trial, v, r)
		}
	}
}

// TestCubicWeightsArePartitionOfUnity repeats the same check for cubic
// convolution over a fully in-window 6x6 field.
func TestCubicWeightsArePartitionOfUnity(t *testing.T) {
	const v = 3.0
	k := &Kernel{
		ResampleMode:  Cubic,
		ElementFormat: Float64,
		BandCount:     1,
		SrcWidth:      6,
		SrcHeight:     6,
		SrcBands:      [][]byte{float64Buffer(repeat(v, 36))},
	}

	for trial := 0; trial < 200; trial++ {
		fx := 2.0 + float64(fastrand.Uint32())/float64(1<<32) // [2,3) keeps every tap in [0,6)
		fy := 2.0 + float64(fastrand.Uint32())/float64(1<<32)

		d, r, _, ok := k.sampleSource(0, fx, fy)
		if !ok {
			t.Fatalf("trial %d at (%v,%v): expected a contribution", trial, fx, fy)
		}
		if !scalar.EqualWithinULP(d, 1.0, 8) {
			t.Errorf("trial %d at (%v,%v): density %v not within ULP tolerance of 1.0", trial, fx, fy, d)
		}
		if !scalar.EqualWithinAbsOrRel(r, v, 1e-9, 1e-9) {
			t.Errorf("trial %d: uniform field should return %v, got %v", trial, v, r)
		}
	}
}
