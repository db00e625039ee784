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
	"encoding/binary"
	"math"
)

// ElementFormat tags the numeric layout of one band's byte buffer.
type ElementFormat int

const (
	Unknown ElementFormat = iota
	Byte
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
	CInt16
	CInt32
	CFloat32
	CFloat64
)

// IsComplex reports whether the format stores an (real,imag) pair per element.
func (f ElementFormat) IsComplex() bool {
	switch f {
	case CInt16, CInt32, CFloat32, CFloat64:
		return true
	}
	return false
}

// BandStride returns the number of element slots one pixel occupies:
// 2 for complex formats, 1 for real formats. Centralized here so the
// sampler and compositor never re-derive stride inline.
func (f ElementFormat) BandStride() int {
	if f.IsComplex() {
		return 2
	}
	return 1
}

// byteSize returns the size in bytes of one scalar slot (real or imaginary half).
func (f ElementFormat) byteSize() int {
	switch f {
	case Byte:
		return 1
	case Int16, UInt16, CInt16:
		return 2
	case Int32, UInt32, Float32, CInt32, CFloat32:
		return 4
	case Float64, CFloat64:
		return 8
	}
	return 0
}

// ElementSize returns the size in bytes of one scalar slot (real or
// imaginary half) — the exported counterpart of byteSize for callers
// outside the package that need to size their own buffers.
func (f ElementFormat) ElementSize() int {
	return f.byteSize()
}

// Valid reports whether f is one of the eleven recognized formats (any
// constant above except Unknown).
func (f ElementFormat) Valid() bool {
	return f != Unknown && f.byteSize() != 0
}

func (f ElementFormat) String() string {
	switch f {
	case Byte:
		return "Byte"
	case Int16:
		return "Int16"
	case UInt16:
		return "UInt16"
	case Int32:
		return "Int32"
	case UInt32:
		return "UInt32"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case CInt16:
		return "CInt16"
	case CInt32:
		return "CInt32"
	case CFloat32:
		return "CFloat32"
	case CFloat64:
		return "CFloat64"
	}
	return "Unknown"
}

var elementFormatByName = map[string]ElementFormat{
	"Byte": Byte, "Int16": Int16, "UInt16": UInt16, "Int32": Int32, "UInt32": UInt32,
	"Float32": Float32, "Float64": Float64,
	"CInt16": CInt16, "CInt32": CInt32, "CFloat32": CFloat32, "CFloat64": CFloat64,
}

// ParseElementFormat resolves a format by its canonical name, for CLI flags
// and JSON request bodies that cannot carry the typed enum directly.
func ParseElementFormat(name string) (ElementFormat, error) {
	if f, ok := elementFormatByName[name]; ok {
		return f, nil
	}
	return Unknown, newConfigError("unrecognized element_format %q", name)
}

// saturation bounds for the integer formats.
var intBounds = map[ElementFormat][2]float64{
	Byte:   {0, 255},
	Int16:  {-32768, 32767},
	UInt16: {0, 65535},
	Int32:  {-2147483648, 2147483647},
	UInt32: {0, 4294967295},
	CInt16: {-32768, 32767},
	CInt32: {-2147483648, 2147483647},
}

// Load reads element i from buf (a real/imag pair for complex formats,
// imag=0 for real formats).
func Load(format ElementFormat, buf []byte, i int) (real, imag float64, err error) {
	if !format.Valid() {
		return 0, 0, newUnsupportedFormatError(format)
	}
	stride := format.BandStride()
	sz := format.byteSize()
	off := (i * stride) * sz
	real = loadScalar(format, buf[off:])
	if stride == 2 {
		imag = loadScalar(format, buf[off+sz:])
	}
	return real, imag, nil
}

func loadScalar(format ElementFormat, b []byte) float64 {
	switch format {
	case Byte:
		return float64(b[0])
	case Int16, CInt16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case UInt16:
		return float64(binary.LittleEndian.Uint16(b))
	case Int32, CInt32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case UInt32:
		return float64(binary.LittleEndian.Uint32(b))
	case Float32, CFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case Float64, CFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// Store writes element i into buf, saturating and truncating toward zero for
// integer formats, and storing directly for floating formats. For real
// formats the imaginary input is discarded.
func Store(format ElementFormat, buf []byte, i int, real, imag float64) error {
	if !format.Valid() {
		return newUnsupportedFormatError(format)
	}
	stride := format.BandStride()
	sz := format.byteSize()
	off := (i * stride) * sz
	storeScalar(format, buf[off:], real)
	if stride == 2 {
		storeScalar(format, buf[off+sz:], imag)
	}
	return nil
}

func storeScalar(format ElementFormat, b []byte, v float64) {
	if bounds, isInt := intBounds[format]; isInt {
		storeInt(format, b, v, bounds[0], bounds[1])
		return
	}
	switch format {
	case Float32, CFloat32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case Float64, CFloat64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// storeInt implements the saturating, truncate-toward-zero integer store:
// NaN stores as zero, values below min saturate to min, above max to max,
// otherwise truncate toward zero (C-style cast semantics).
func storeInt(format ElementFormat, b []byte, v, min, max float64) {
	var truncated float64
	if math.IsNaN(v) {
		truncated = 0
	} else if v < min {
		truncated = min
	} else if v > max {
		truncated = max
	} else {
		truncated = math.Trunc(v)
	}

	switch format {
	case Byte:
		b[0] = byte(truncated)
	case Int16, CInt16:
		binary.LittleEndian.PutUint16(b, uint16(int16(truncated)))
	case UInt16:
		binary.LittleEndian.PutUint16(b, uint16(truncated))
	case Int32, CInt32:
		binary.LittleEndian.PutUint32(b, uint32(int32(truncated)))
	case UInt32:
		binary.LittleEndian.PutUint32(b, uint32(truncated))
	}
}
