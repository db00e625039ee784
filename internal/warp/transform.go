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

// TransformFunc maps n points from overall-image destination pixel space to
// overall-image source pixel space, in place. The kernel calls it only with
// dstToSrc=true. success[k] is set nonzero by the callee on success, zero on
// a per-point failure; the callee's own return value is the overall
// success, and an overall false still requires success[] to be populated as
// if every point failed, for callers that only check success[].
type TransformFunc func(dstToSrc bool, x, y, z []float64, success []int32) bool
