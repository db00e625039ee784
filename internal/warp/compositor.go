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

// compositeContribution writes one sampled contribution into the
// destination at pixel index i for the given band: the pixel value via the
// codec, the strongest-contribution density (dst_density[i] <- max(old, d)),
// and the validity bit. Policy is at-most-one writeback per destination
// pixel per warp chunk; the driver enforces that by consulting dst_valid
// before ever calling the sampler for a pixel, so this function does not
// re-check it.
func (k *Kernel) compositeContribution(band, i int, density, real, imag float64) error {
	if err := Store(k.ElementFormat, k.DstBands[band], i, real, imag); err != nil {
		return err
	}
	if k.DstDensity != nil {
		if density > float64(k.DstDensity[i]) {
			k.DstDensity[i] = float32(density)
		}
	}
	if k.DstValid != nil {
		k.DstValid.SetValid(i)
	}
	return nil
}
