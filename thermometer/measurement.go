// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermometer

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Flags is the flags field of a temperature measurement.
type Flags byte

const (
	FlagFahrenheit Flags = 1 << 0
	FlagTimeStamp  Flags = 1 << 1
	FlagType       Flags = 1 << 2

	// Bits 3-7 are reserved for future use.
)

func (f Flags) String() string {
	var s strings.Builder
	for _, b := range []struct {
		flag Flags
		name string
	}{
		{FlagFahrenheit, "Fahrenheit"},
		{FlagTimeStamp, "TimeStamp"},
		{FlagType, "Type"},
	} {
		if f&b.flag == 0 {
			continue
		}
		if s.Len() != 0 {
			s.WriteByte('|')
		}
		s.WriteString(b.name)
	}
	if r := f &^ (FlagFahrenheit | FlagTimeStamp | FlagType); r != 0 {
		if s.Len() != 0 {
			s.WriteByte('|')
		}
		fmt.Fprintf(&s, "%#x", byte(r))
	}
	if s.Len() == 0 {
		return "0"
	}
	return s.String()
}

// Unit is a temperature unit.
type Unit uint8

const (
	Celsius    Unit = 0
	Fahrenheit Unit = 1
)

// String returns the single character unit code.
func (u Unit) String() string {
	switch u {
	case Celsius:
		return "C"
	case Fahrenheit:
		return "F"
	default:
		return fmt.Sprintf("Unit(%d)", uint8(u))
	}
}

// Site is the temperature type, the location of a temperature measurement.
type Site uint8

//go:generate go tool golang.org/x/tools/cmd/stringer -type Site -linecomment
const (
	SiteUnknown          Site = iota // unknown
	SiteArmpit                       // armpit
	SiteBody                         // body
	SiteEar                          // ear
	SiteFinger                       // finger
	SiteGastrointestinal             // gastrointestinal tract
	SiteMouth                        // mouth
	SiteRectum                       // rectum
	SiteToe                          // toe
	SiteTympanum                     // tympanum
)

func siteFor(b byte) Site {
	if b > byte(SiteTympanum) {
		return SiteUnknown
	}
	return Site(b)
}

const dateTimeSize = 7

// DateTime is a measurement time stamp. Zero Year, Month and Day values
// indicate the field is not known.
type DateTime struct {
	Year   uint16
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
}

// Time returns the time stamp as a time.Time in loc. It returns false
// if any of the date fields is not known.
func (d DateTime) Time(loc *time.Location) (time.Time, bool) {
	if d.Year == 0 || d.Month == 0 || d.Day == 0 {
		return time.Time{}, false
	}
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), int(d.Hour), int(d.Minute), int(d.Second), 0, loc), true
}

// String returns the ISO 8601 local date and time representation of d.
// Unknown date fields are rendered as zeros.
func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// check returns an error if any field of d is out of range. The
// offset and length are used to annotate the returned error.
func (d DateTime) check(off, n int) error {
	for _, f := range []struct {
		name     string
		val, max int
	}{
		{name: "month", val: int(d.Month), max: 12},
		{name: "day", val: int(d.Day), max: 31},
		{name: "hour", val: int(d.Hour), max: 23},
		{name: "minute", val: int(d.Minute), max: 59},
		{name: "second", val: int(d.Second), max: 59},
	} {
		if f.max < f.val {
			return &DecodeError{Kind: ErrInvalidDateTime, Field: f.name, Offset: off, Len: n, Value: f.val}
		}
	}
	// Year 0 is not known, otherwise 1582-9999.
	if d.Year != 0 && (d.Year < 1582 || 9999 < d.Year) {
		return &DecodeError{Kind: ErrInvalidDateTime, Field: "year", Offset: off, Len: n, Value: int(d.Year)}
	}
	return nil
}

func (d *DateTime) unmarshal(b []byte) {
	_ = b[dateTimeSize-1]
	*d = DateTime{
		Year:   binary.LittleEndian.Uint16(b),
		Month:  b[2],
		Day:    b[3],
		Hour:   b[4],
		Minute: b[5],
		Second: b[6],
	}
}

func (d DateTime) put(dst []byte) {
	_ = dst[dateTimeSize-1]
	binary.LittleEndian.PutUint16(dst, d.Year)
	dst[2] = d.Month
	dst[3] = d.Day
	dst[4] = d.Hour
	dst[5] = d.Minute
	dst[6] = d.Second
}

// Measurement is a temperature measurement. The zero value is a valid
// zero Celsius measurement with no time stamp and an unknown site.
//
// Measurement values are not altered after construction; a new
// measurement replaces an old one.
type Measurement struct {
	temp     Float
	unit     Unit
	site     Site
	dateTime DateTime
	hasTime  bool
}

// NewMeasurement returns a Measurement. If dt is nil the measurement
// has no time stamp.
func NewMeasurement(t Float, u Unit, s Site, dt *DateTime) Measurement {
	m := Measurement{
		temp: t,
		unit: u,
		site: siteFor(byte(s)),
	}
	if dt != nil {
		m.dateTime = *dt
		m.hasTime = true
	}
	return m
}

// Temperature returns the measured temperature in the measurement's
// unit. It returns false if the device reported an invalid value.
func (m Measurement) Temperature() (float64, bool) {
	if !m.temp.Valid() {
		return 0, false
	}
	return m.temp.Float64(), true
}

// Value returns the decimal temperature value.
func (m Measurement) Value() Float { return m.temp }

// Unit returns the temperature unit.
func (m Measurement) Unit() Unit { return m.unit }

// Site returns the temperature type.
func (m Measurement) Site() Site { return m.site }

// DateTime returns the time stamp of the measurement and whether it
// was present.
func (m Measurement) DateTime() (DateTime, bool) { return m.dateTime, m.hasTime }

func (m Measurement) String() string {
	s := fmt.Sprintf("%s %s (%s)", m.temp, m.unit, m.site)
	if m.hasTime {
		s += " " + m.dateTime.String()
	}
	return s
}

// Decode decodes a Temperature Measurement or Intermediate Temperature
// characteristic value.
//
// If the device reports a special value in place of the temperature,
// the decoded measurement is returned along with an error wrapping
// ErrInvalidTemperature. For all other errors the returned
// measurement is the zero value.
func Decode(data []byte) (Measurement, error) {
	var m Measurement
	err := m.UnmarshalBinary(data)
	return m, err
}

func (m *Measurement) UnmarshalBinary(data []byte) error {
	// https://www.bluetooth.com/specifications/specs/health-thermometer-service-1-0/

	// 3.1.1.1 Flags Field
	// | 0x4  | 0x2 | 0x1  |
	// | type | ts  | unit |
	*m = Measurement{}
	if len(data) < 1+sfloatSize {
		return &DecodeError{Kind: ErrTooShort, Field: "temperature", Offset: 1, Len: len(data)}
	}
	flags := Flags(data[0])
	var optional int
	if flags&FlagTimeStamp != 0 {
		optional += dateTimeSize
	}
	if flags&FlagType != 0 {
		optional++
	}

	// The standard temperature field is a 32-bit FLOAT. Some devices
	// send a 16-bit value in tenths of a degree; these are identified
	// by a payload too short to hold a FLOAT and the flagged fields.
	var (
		temp   Float
		offset = 1
	)
	if len(data) >= offset+floatSize+optional {
		temp = decodeFloat(data[offset:])
		offset += floatSize
	} else {
		temp = decodeFixed(data[offset:])
		offset += sfloatSize
	}

	rec := Measurement{temp: temp, unit: Celsius}
	if flags&FlagFahrenheit != 0 {
		rec.unit = Fahrenheit
	}
	if flags&FlagTimeStamp != 0 {
		if len(data) < offset+dateTimeSize {
			return &DecodeError{Kind: ErrTruncatedDateTime, Field: "time stamp", Offset: offset, Len: len(data)}
		}
		rec.dateTime.unmarshal(data[offset:])
		err := rec.dateTime.check(offset, len(data))
		if err != nil {
			return err
		}
		rec.hasTime = true
		offset += dateTimeSize
	}
	if flags&FlagType != 0 {
		if len(data) < offset+1 {
			return &DecodeError{Kind: ErrTruncatedType, Field: "temperature type", Offset: offset, Len: len(data)}
		}
		rec.site = siteFor(data[offset])
	}
	// Any remaining bytes belong to fields defined after this
	// version of the service and are ignored.

	*m = rec
	if !temp.Valid() {
		return &DecodeError{Kind: ErrInvalidTemperature, Field: "temperature", Offset: 1, Len: len(data), Value: int(temp.Status)}
	}
	return nil
}

// MarshalBinary encodes m as a Temperature Measurement characteristic
// value with a FLOAT temperature field.
func (m Measurement) MarshalBinary() ([]byte, error) {
	if m.unit != Celsius && m.unit != Fahrenheit {
		return nil, fmt.Errorf("invalid unit: %d", m.unit)
	}
	var flags Flags
	n := 1 + floatSize
	if m.unit == Fahrenheit {
		flags |= FlagFahrenheit
	}
	if m.hasTime {
		flags |= FlagTimeStamp
		n += dateTimeSize
	}
	if m.site != SiteUnknown {
		flags |= FlagType
		n++
	}

	buf := make([]byte, n)
	buf[0] = byte(flags)
	offset := 1
	err := putFloat(buf[offset:], m.temp)
	if err != nil {
		return nil, err
	}
	offset += floatSize
	if m.hasTime {
		err = m.dateTime.check(offset, n)
		if err != nil {
			return nil, err
		}
		m.dateTime.put(buf[offset:])
		offset += dateTimeSize
	}
	if m.site != SiteUnknown {
		buf[offset] = byte(m.site)
	}
	return buf, nil
}

// Pair is a named measurement field.
type Pair struct {
	Key   string
	Value any
}

// Pairs returns the measurement fields in serialization order.
// An invalid temperature and an absent time stamp have nil values.
func (m Measurement) Pairs() []Pair {
	var temp, dt any
	if t, ok := m.Temperature(); ok {
		temp = t
	}
	if m.hasTime {
		dt = m.dateTime.String()
	}
	return []Pair{
		{Key: "Temperature", Value: temp},
		{Key: "Format", Value: m.unit.String()},
		{Key: "Type", Value: m.site.String()},
		{Key: "DateTime", Value: dt},
	}
}

// MarshalJSON returns the measurement fields as a flat JSON object.
func (m Measurement) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m.Pairs() {
		if i != 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
