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

import "sync"

// Pools of constant-sized scanline scratch arrays, keyed by size, to reduce
// allocation overhead across warp invocations.

var poolFloat64 = struct {
	sync.RWMutex
	m map[int]*sync.Pool
}{m: make(map[int]*sync.Pool)}

var poolInt32 = struct {
	sync.RWMutex
	m map[int]*sync.Pool
}{m: make(map[int]*sync.Pool)}

func getSizedPoolFloat64(size int) *sync.Pool {
	poolFloat64.RLock()
	pool := poolFloat64.m[size]
	poolFloat64.RUnlock()
	if pool == nil {
		pool = &sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		}
		poolFloat64.Lock()
		poolFloat64.m[size] = pool
		poolFloat64.Unlock()
	}
	return pool
}

// getFloat64FromPool retrieves a zeroed []float64 of the given size from the pool.
func getFloat64FromPool(size int) []float64 {
	pool := getSizedPoolFloat64(size)
	arr := pool.Get().([]float64)
	for i := range arr {
		arr[i] = 0
	}
	return arr
}

// putFloat64IntoPool returns an array to the pool.
func putFloat64IntoPool(arr []float64) {
	pool := getSizedPoolFloat64(cap(arr))
	pool.Put(arr[:cap(arr)])
}

func getSizedPoolInt32(size int) *sync.Pool {
	poolInt32.RLock()
	pool := poolInt32.m[size]
	poolInt32.RUnlock()
	if pool == nil {
		pool = &sync.Pool{
			New: func() interface{} {
				return make([]int32, size)
			},
		}
		poolInt32.Lock()
		poolInt32.m[size] = pool
		poolInt32.Unlock()
	}
	return pool
}

// getInt32FromPool retrieves a zeroed []int32 of the given size from the pool.
func getInt32FromPool(size int) []int32 {
	pool := getSizedPoolInt32(size)
	arr := pool.Get().([]int32)
	for i := range arr {
		arr[i] = 0
	}
	return arr
}

// putInt32IntoPool returns an array to the pool.
func putInt32IntoPool(arr []int32) {
	pool := getSizedPoolInt32(cap(arr))
	pool.Put(arr[:cap(arr)])
}

// scanlineScratch holds one row's worth of coordinate/success arrays, drawn
// from the pools above at entry and released via release() on every exit
// path, including early errors and cancellation.
type scanlineScratch struct {
	x, y, z []float64
	success []int32
}

func getScanlineScratch(width int) *scanlineScratch {
	return &scanlineScratch{
		x:       getFloat64FromPool(width),
		y:       getFloat64FromPool(width),
		z:       getFloat64FromPool(width),
		success: getInt32FromPool(width),
	}
}

func (s *scanlineScratch) release() {
	putFloat64IntoPool(s.x)
	putFloat64IntoPool(s.y)
	putFloat64IntoPool(s.z)
	putInt32IntoPool(s.success)
}
