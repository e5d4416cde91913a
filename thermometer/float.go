// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermometer

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Status is the IEEE 11073-20601 special value state of a Float.
type Status uint8

//go:generate go tool golang.org/x/tools/cmd/stringer -type Status -linecomment
const (
	StatusValid            Status = iota // valid
	StatusNaN                            // NaN
	StatusNRes                           // NRes
	StatusPositiveInfinity               // +INF
	StatusNegativeInfinity               // -INF
	StatusReserved                       // reserved
)

// Float is an IEEE 11073-20601 decimal value. When Status is
// StatusValid the value is Mantissa×10^Exponent, otherwise Mantissa
// and Exponent are zero.
type Float struct {
	Mantissa int32
	Exponent int8
	Status   Status
}

// Valid returns whether f holds a numeric value.
func (f Float) Valid() bool { return f.Status == StatusValid }

// Float64 returns the value of f. Negative exponents are applied by
// division by an exact power of ten so that, for example, 979e-1 is
// the float64 nearest to 97.9.
func (f Float) Float64() float64 {
	switch f.Status {
	case StatusValid:
	case StatusPositiveInfinity:
		return math.Inf(1)
	case StatusNegativeInfinity:
		return math.Inf(-1)
	default:
		return math.NaN()
	}
	if f.Exponent < 0 {
		return float64(f.Mantissa) / math.Pow10(-int(f.Exponent))
	}
	return float64(f.Mantissa) * math.Pow10(int(f.Exponent))
}

func (f Float) String() string {
	if !f.Valid() {
		return f.Status.String()
	}
	prec := -1
	if f.Exponent < 0 {
		prec = -int(f.Exponent)
	}
	return strconv.FormatFloat(f.Float64(), 'f', prec, 64)
}

// Field sizes in bytes.
const (
	floatSize  = 4
	sfloatSize = 2
)

// 24-bit FLOAT mantissa special values; the exponent is zero.
const (
	floatNaN      = 0x007fffff
	floatNRes     = 0x00800000
	floatPosInf   = 0x007ffffe
	floatNegInf   = 0x00800002
	floatReserved = 0x00800001

	floatMantissaMax = 1<<23 - 1
	floatMantissaMin = -1 << 23
)

// 16-bit SFLOAT special values.
const (
	sfloatNaN      = 0x07ff
	sfloatNRes     = 0x0800
	sfloatPosInf   = 0x07fe
	sfloatNegInf   = 0x0802
	sfloatReserved = 0x0801
)

// decodeFloat decodes a 4-byte little-endian FLOAT.
func decodeFloat(b []byte) Float {
	raw := binary.LittleEndian.Uint32(b)
	switch raw {
	case floatNaN:
		return Float{Status: StatusNaN}
	case floatNRes:
		return Float{Status: StatusNRes}
	case floatPosInf:
		return Float{Status: StatusPositiveInfinity}
	case floatNegInf:
		return Float{Status: StatusNegativeInfinity}
	case floatReserved:
		return Float{Status: StatusReserved}
	}
	return Float{
		Mantissa: leInt24(b),
		Exponent: int8(b[3]),
	}
}

// decodeFixed decodes a 2-byte little-endian signed value in tenths.
// SFLOAT special value patterns are reported as invalid.
func decodeFixed(b []byte) Float {
	raw := binary.LittleEndian.Uint16(b)
	switch raw {
	case sfloatNaN:
		return Float{Status: StatusNaN}
	case sfloatNRes:
		return Float{Status: StatusNRes}
	case sfloatPosInf:
		return Float{Status: StatusPositiveInfinity}
	case sfloatNegInf:
		return Float{Status: StatusNegativeInfinity}
	case sfloatReserved:
		return Float{Status: StatusReserved}
	}
	return Float{Mantissa: int32(int16(raw)), Exponent: -1}
}

// putFloat writes f into dst as a 4-byte little-endian FLOAT.
func putFloat(dst []byte, f Float) error {
	var raw uint32
	switch f.Status {
	case StatusValid:
		if f.Mantissa < floatMantissaMin || floatMantissaMax < f.Mantissa {
			return fmt.Errorf("mantissa out of range: %d", f.Mantissa)
		}
		raw = uint32(f.Mantissa)&0x00ffffff | uint32(uint8(f.Exponent))<<24
		if floatPosInf <= raw && raw <= floatNegInf {
			return fmt.Errorf("mantissa is special value: %#x", raw)
		}
	case StatusNaN:
		raw = floatNaN
	case StatusNRes:
		raw = floatNRes
	case StatusPositiveInfinity:
		raw = floatPosInf
	case StatusNegativeInfinity:
		raw = floatNegInf
	case StatusReserved:
		raw = floatReserved
	default:
		return fmt.Errorf("invalid status: %d", f.Status)
	}
	binary.LittleEndian.PutUint32(dst, raw)
	return nil
}

func leInt24(b []byte) int32 {
	_ = b[2] // bounds check hint to compiler; see golang.org/issue/14808
	return int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
}
