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

// Package geotransform provides a reference implementation of the warp
// kernel's external transformer contract: a six-parameter affine mapping in
// the GDAL convention (origin + two axis vectors), inverted and evaluated
// with gonum's dense matrices. This lives outside the kernel itself — the
// kernel only ever calls a TransformFunc it is handed, and never assumes
// anything about how that function computes its answer.
package geotransform

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Affine is a forward src-to-dst transform in the six-parameter GDAL
// convention: dst_x = a + b*src_x + c*src_y, dst_y = d + e*src_x + f*src_y.
type Affine struct {
	A, B, C, D, E, F float64
}

// NewTranslation builds an Affine that only translates by (offX, offY).
func NewTranslation(offX, offY float64) Affine {
	return Affine{A: offX, B: 1, C: 0, D: offY, E: 0, F: 1}
}

// NewScale builds an Affine that scales about the origin.
func NewScale(scaleX, scaleY float64) Affine {
	return Affine{A: 0, B: scaleX, C: 0, D: 0, E: 0, F: scaleY}
}

// Apply evaluates the forward transform at (x,y).
func (a Affine) Apply(x, y float64) (dx, dy float64) {
	return a.A + a.B*x + a.C*y, a.D + a.E*x + a.F*y
}

// matrix returns the 2x2 linear part as a gonum dense matrix.
func (a Affine) matrix() *mat.Dense {
	return mat.NewDense(2, 2, []float64{a.B, a.C, a.E, a.F})
}

// Invert returns the inverse affine transform, or an error if the linear
// part is singular.
func (a Affine) Invert() (Affine, error) {
	m := a.matrix()
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Affine{}, errors.New("affine transform is not invertible: " + err.Error())
	}
	ib, ic := inv.At(0, 0), inv.At(0, 1)
	ie, if_ := inv.At(1, 0), inv.At(1, 1)

	// Solve for the inverse offset: inverse(x) = M^-1 * (x - offset).
	offset := mat.NewVecDense(2, []float64{a.A, a.D})
	var negOffset mat.VecDense
	negOffset.ScaleVec(-1, offset)
	var ia2 mat.VecDense
	ia2.MulVec(&inv, &negOffset)

	return Affine{
		A: ia2.AtVec(0), B: ib, C: ic,
		D: ia2.AtVec(1), E: ie, F: if_,
	}, nil
}

// Transformer adapts an Affine (and its inverse) to the kernel's
// TransformFunc contract: called only in the destination-to-source
// direction, rewriting x/y/z in place and marking every point successful
// since an invertible affine transform never fails pointwise.
type Transformer struct {
	forward Affine
	inverse Affine
}

// NewTransformer precomputes the inverse of fwd (source-to-destination) so
// that repeated destination-to-source calls avoid re-inverting per row.
func NewTransformer(fwd Affine) (*Transformer, error) {
	inv, err := fwd.Invert()
	if err != nil {
		return nil, err
	}
	return &Transformer{forward: fwd, inverse: inv}, nil
}

// TransformFunc matches warp.TransformFunc's signature without importing
// the warp package, so callers wire it in with a one-line adapter:
//
//	k.Transformer = warp.TransformFunc(t.TransformFunc)
func (t *Transformer) TransformFunc(dstToSrc bool, x, y, z []float64, success []int32) bool {
	for i := range x {
		if dstToSrc {
			x[i], y[i] = t.inverse.Apply(x[i], y[i])
		} else {
			x[i], y[i] = t.forward.Apply(x[i], y[i])
		}
		success[i] = 1
	}
	return true
}
