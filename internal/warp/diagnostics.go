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
	"runtime"

	"github.com/pbnjay/memory"
)

// Diagnostics reports sizing hints for operators that slice an overall warp
// into chunks upstream of this kernel. The kernel itself never consults
// these values; they exist purely to help a caller pick a chunk size and a
// MaxGoroutines setting before building a Kernel.
type Diagnostics struct {
	TotalMemoryMB int
	NumCPU        int
}

// NewDiagnostics reports the host's total memory and available CPUs, for
// callers sizing chunks and goroutine counts before building a Kernel.
func NewDiagnostics() Diagnostics {
	return Diagnostics{
		TotalMemoryMB: int(memory.TotalMemory() / 1024 / 1024),
		NumCPU:        runtime.NumCPU(),
	}
}

// SuggestedChunkRows estimates how many destination rows of dstWidth,
// bandCount bands at bytesPerElement bytes per element fit in a fraction of total
// memory, leaving headroom for the source window and scratch arrays.
func (d Diagnostics) SuggestedChunkRows(dstWidth, bandCount, bytesPerElement int, fractionOfMemory float64) int {
	if dstWidth <= 0 || bandCount <= 0 || bytesPerElement <= 0 {
		return 0
	}
	budgetBytes := float64(d.TotalMemoryMB) * 1024 * 1024 * fractionOfMemory
	rowBytes := float64(dstWidth * bandCount * bytesPerElement)
	if rowBytes <= 0 {
		return 0
	}
	rows := int(budgetBytes / rowBytes)
	if rows < 1 {
		rows = 1
	}
	return rows
}
