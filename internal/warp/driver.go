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
	"sync"
	"sync/atomic"
)

// PerformWarp validates the kernel, then resamples every destination pixel,
// reporting progress after each row and honoring cooperative cancellation.
// Rows run in row-major order when MaxGoroutines is 1 and concurrently, in
// no fixed order, when it is larger. Zero-sized geometry is a successful
// no-op.
func (k *Kernel) PerformWarp() error {
	if err := k.Validate(); err != nil {
		return err
	}
	if k.DstWidth == 0 || k.DstHeight == 0 || k.SrcWidth == 0 || k.SrcHeight == 0 {
		return nil
	}

	logCPUFeatures()
	LogPrintf("warp: src %dx%d -> dst %dx%d format=%v bands=%d mode=%v goroutines=%d\n",
		k.SrcWidth, k.SrcHeight, k.DstWidth, k.DstHeight, k.ElementFormat, k.BandCount, k.ResampleMode, k.MaxGoroutines)

	progress := scaledProgress(k.Progress, k.ProgressBase, k.ProgressScale)
	radius := RadiusFor(k.ResampleMode)

	if k.MaxGoroutines <= 1 {
		return k.performWarpSequential(progress, radius)
	}
	return k.performWarpParallel(progress, radius)
}

func (k *Kernel) performWarpSequential(progress ProgressFunc, radius int) error {
	scratch := getScanlineScratch(k.DstWidth)
	defer scratch.release()

	for iDstY := 0; iDstY < k.DstHeight; iDstY++ {
		if err := k.warpRow(iDstY, scratch, radius); err != nil {
			return err
		}
		if !progress(float64(iDstY+1)/float64(k.DstHeight), "") {
			return newCancelledError()
		}
	}
	return nil
}

// performWarpParallel distributes scanlines across up to MaxGoroutines
// workers, each with its own scratch arrays and its own call into the
// transformer — the caller's Transformer must tolerate concurrent calls, or
// the caller should run one Kernel per worker. Every destination pixel still
// has a unique (row) owner, so pixel and dst_density writes never race.
// dst_valid is packed one bit per pixel, so when DstWidth isn't a multiple
// of 32 two adjacent rows can own different bits of the same uint32 word;
// BitPlane.SetValid handles that with an atomic compare-and-swap rather than
// relying on row ownership to keep words disjoint.
func (k *Kernel) performWarpParallel(progress ProgressFunc, radius int) error {
	sem := make(chan struct{}, k.MaxGoroutines)
	var wg sync.WaitGroup
	var firstErr atomic.Value // holds error
	var cancelled atomic.Bool
	var completedRows atomic.Int64

	for iDstY := 0; iDstY < k.DstHeight; iDstY++ {
		if cancelled.Load() || firstErr.Load() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			defer func() { <-sem }()
			if cancelled.Load() || firstErr.Load() != nil {
				return
			}
			scratch := getScanlineScratch(k.DstWidth)
			defer scratch.release()
			if err := k.warpRow(row, scratch, radius); err != nil {
				firstErr.CompareAndSwap(nil, err)
				return
			}
			done := completedRows.Add(1)
			if !progress(float64(done)/float64(k.DstHeight), "") {
				cancelled.Store(true)
			}
		}(iDstY)
	}
	wg.Wait()

	if e := firstErr.Load(); e != nil {
		return e.(error)
	}
	if cancelled.Load() {
		return newCancelledError()
	}
	return nil
}

// warpRow builds the coordinate arrays for one destination scanline, calls
// the transformer, then resamples and composites every column that mapped
// successfully and whose mapped source coordinate falls inside the window.
func (k *Kernel) warpRow(iDstY int, scratch *scanlineScratch, radius int) error {
	width := k.DstWidth
	x, y, z, success := scratch.x[:width], scratch.y[:width], scratch.z[:width], scratch.success[:width]

	for col := 0; col < width; col++ {
		x[col] = float64(col) + 0.5 + float64(k.DstXOff)
		y[col] = float64(iDstY) + 0.5 + float64(k.DstYOff)
		z[col] = 0
	}

	if ok := k.Transformer(true, x, y, z, success); !ok {
		return newTransformerError(iDstY)
	}

	for col := 0; col < width; col++ {
		if success[col] == 0 {
			continue
		}
		sx := x[col] - float64(k.SrcXOff)
		sy := y[col] - float64(k.SrcYOff)

		if !k.withinSampleWindow(sx, sy, radius) {
			continue
		}

		dstIndex := col + iDstY*width
		if k.DstValid != nil && k.DstValid.IsValid(dstIndex) {
			continue // already written by a prior operation on this chunk
		}

		for b := 0; b < k.BandCount; b++ {
			density, real, imag, ok := k.sampleSource(b, sx, sy)
			if !ok {
				continue
			}
			if err := k.compositeContribution(b, dstIndex, density, real, imag); err != nil {
				return err
			}
		}
	}
	return nil
}
