// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermometer

import (
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

var decodeTests = []struct {
	name    string
	data    []byte
	want    Measurement
	wantErr error
}{
	{
		name: "fahrenheit_time_type",
		data: mustHex("07 d3 03 00 ff e5 07 07 08 0f 22 00 01"),
		want: Measurement{
			temp:     Float{Mantissa: 979, Exponent: -1},
			unit:     Fahrenheit,
			site:     SiteArmpit,
			dateTime: DateTime{Year: 2021, Month: 7, Day: 8, Hour: 15, Minute: 34, Second: 0},
			hasTime:  true,
		},
	},
	{
		name: "celsius_time_type",
		data: mustHex("06 6b 01 00 ff e5 07 07 09 0c 15 00 01"),
		want: Measurement{
			temp:     Float{Mantissa: 363, Exponent: -1},
			unit:     Celsius,
			site:     SiteArmpit,
			dateTime: DateTime{Year: 2021, Month: 7, Day: 9, Hour: 12, Minute: 21, Second: 0},
			hasTime:  true,
		},
	},
	{
		name: "fahrenheit_float_only",
		data: mustHex("01 d8 03 00 ff"),
		want: Measurement{
			temp: Float{Mantissa: 984, Exponent: -1},
			unit: Fahrenheit,
		},
	},
	{
		name: "fahrenheit_fixed_only",
		data: mustHex("01 d3 03"),
		want: Measurement{
			temp: Float{Mantissa: 979, Exponent: -1},
			unit: Fahrenheit,
		},
	},
	{
		name: "celsius_fixed_only",
		data: mustHex("00 6b 01"),
		want: Measurement{
			temp: Float{Mantissa: 363, Exponent: -1},
			unit: Celsius,
		},
	},
	{
		name: "negative_fixed",
		data: mustHex("00 9c ff"),
		want: Measurement{
			temp: Float{Mantissa: -100, Exponent: -1},
		},
	},
	{
		name: "negative_float_mantissa",
		data: mustHex("00 9c ff ff fe"),
		want: Measurement{
			temp: Float{Mantissa: -100, Exponent: -2},
		},
	},
	{
		name: "fixed_time_type",
		data: mustHex("06 6b 01 e5 07 07 09 0c 15 00 09"),
		want: Measurement{
			temp:     Float{Mantissa: 363, Exponent: -1},
			site:     SiteTympanum,
			dateTime: DateTime{Year: 2021, Month: 7, Day: 9, Hour: 12, Minute: 21},
			hasTime:  true,
		},
	},
	{
		name: "type_only",
		data: mustHex("04 6b 01 00 ff 03"),
		want: Measurement{
			temp: Float{Mantissa: 363, Exponent: -1},
			site: SiteEar,
		},
	},
	{
		name: "unmapped_type",
		data: mustHex("04 6b 01 00 ff 2a"),
		want: Measurement{
			temp: Float{Mantissa: 363, Exponent: -1},
			site: SiteUnknown,
		},
	},
	{
		name: "reserved_flags",
		data: mustHex("f9 6b 01 00 ff"),
		want: Measurement{
			temp: Float{Mantissa: 363, Exponent: -1},
			unit: Fahrenheit,
		},
	},
	{
		name: "trailing_bytes",
		data: mustHex("04 6b 01 00 ff 06 de ad be ef"),
		want: Measurement{
			temp: Float{Mantissa: 363, Exponent: -1},
			site: SiteMouth,
		},
	},
	{
		name: "unknown_date",
		data: mustHex("02 6b 01 00 ff 00 00 00 00 0c 15 00"),
		want: Measurement{
			temp:     Float{Mantissa: 363, Exponent: -1},
			dateTime: DateTime{Hour: 12, Minute: 21},
			hasTime:  true,
		},
	},
	{
		name: "float_nan",
		data: mustHex("05 ff ff 7f 00 01"),
		want: Measurement{
			temp: Float{Status: StatusNaN},
			unit: Fahrenheit,
			site: SiteArmpit,
		},
		wantErr: ErrInvalidTemperature,
	},
	{
		name: "float_nres",
		data: mustHex("00 00 00 80 00"),
		want: Measurement{
			temp: Float{Status: StatusNRes},
		},
		wantErr: ErrInvalidTemperature,
	},
	{
		name: "fixed_nan",
		data: mustHex("00 ff 07"),
		want: Measurement{
			temp: Float{Status: StatusNaN},
		},
		wantErr: ErrInvalidTemperature,
	},
	{
		name:    "empty",
		data:    nil,
		wantErr: ErrTooShort,
	},
	{
		name:    "too_short",
		data:    mustHex("00 6b"),
		wantErr: ErrTooShort,
	},
	{
		name:    "truncated_time",
		data:    mustHex("02 d3 03 e5 07 07"),
		wantErr: ErrTruncatedDateTime,
	},
	{
		name:    "truncated_type",
		data:    mustHex("04 d3 03"),
		wantErr: ErrTruncatedType,
	},
	{
		name:    "truncated_type_after_time",
		data:    mustHex("06 d3 03 e5 07 07 08 0f 22 00"),
		wantErr: ErrTruncatedType,
	},
	{
		name:    "invalid_month",
		data:    mustHex("02 d3 03 00 ff e5 07 0d 08 0f 22 00"),
		wantErr: ErrInvalidDateTime,
	},
	{
		name:    "invalid_day",
		data:    mustHex("02 d3 03 00 ff e5 07 07 20 0f 22 00"),
		wantErr: ErrInvalidDateTime,
	},
	{
		name:    "invalid_hour",
		data:    mustHex("02 d3 03 00 ff e5 07 07 08 18 22 00"),
		wantErr: ErrInvalidDateTime,
	},
	{
		name:    "invalid_minute",
		data:    mustHex("02 d3 03 00 ff e5 07 07 08 0f 3c 00"),
		wantErr: ErrInvalidDateTime,
	},
	{
		name:    "invalid_second",
		data:    mustHex("02 d3 03 00 ff e5 07 07 08 0f 22 3c"),
		wantErr: ErrInvalidDateTime,
	},
	{
		name:    "invalid_year",
		data:    mustHex("02 d3 03 00 ff 10 00 07 08 0f 22 00"),
		wantErr: ErrInvalidDateTime,
	},

	// FLOAT payloads missing a flagged trailing byte are too short for
	// the FLOAT layout and are read as the 16-bit layout.
	{
		name: "float_nan_missing_type",
		data: mustHex("04 ff ff 7f 00"),
		want: Measurement{
			temp: Float{Mantissa: -1, Exponent: -1},
			site: SiteUnknown,
		},
	},
	{
		name:    "float_time_missing_type",
		data:    mustHex("06 6b 01 00 ff e5 07 07 09 0c 15 00"),
		wantErr: ErrInvalidDateTime,
	},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Decode(test.data)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("unexpected error: got:%v want:%v", err, test.wantErr)
			}
			if err != nil {
				var derr *DecodeError
				if !errors.As(err, &derr) {
					t.Errorf("unexpected error type: %T", err)
				}
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("unexpected result:\ngot: %#v\nwant:%#v", got, test.want)
			}

			again, err2 := Decode(test.data)
			if got != again || !errors.Is(err2, test.wantErr) {
				t.Errorf("decode not idempotent:\nfirst: %#v %v\nsecond:%#v %v", got, err, again, err2)
			}
		})
	}
}

func TestUnmarshalBinaryReplaces(t *testing.T) {
	m := Measurement{
		temp:     Float{Mantissa: 979, Exponent: -1},
		unit:     Fahrenheit,
		site:     SiteArmpit,
		dateTime: DateTime{Year: 2021, Month: 7, Day: 8},
		hasTime:  true,
	}
	err := m.UnmarshalBinary(mustHex("02 d3 03 e5"))
	if !errors.Is(err, ErrTruncatedDateTime) {
		t.Fatalf("unexpected error: got:%v want:%v", err, ErrTruncatedDateTime)
	}
	if m != (Measurement{}) {
		t.Errorf("stale fields retained after failed decode: %#v", m)
	}
}

func TestFixedTemperature(t *testing.T) {
	for raw := -2000; raw <= 2000; raw++ {
		if raw >= sfloatPosInf && raw <= sfloatNegInf {
			continue
		}
		for _, flags := range []Flags{0, FlagFahrenheit} {
			data := []byte{byte(flags), byte(raw), byte(raw >> 8)}
			m, err := Decode(data)
			if err != nil {
				t.Fatalf("unexpected error for %#x: %v", data, err)
			}
			got, ok := m.Temperature()
			if !ok {
				t.Fatalf("unexpected invalid temperature for %#x", data)
			}
			want := float64(int16(raw)) / 10
			if got != want {
				t.Errorf("unexpected temperature for %#x: got:%v want:%v", data, got, want)
			}
			wantUnit := Celsius
			if flags&FlagFahrenheit != 0 {
				wantUnit = Fahrenheit
			}
			if m.Unit() != wantUnit {
				t.Errorf("unexpected unit for %#x: got:%v want:%v", data, m.Unit(), wantUnit)
			}
			if _, ok := m.DateTime(); ok {
				t.Errorf("unexpected time stamp for %#x", data)
			}
			if m.Site() != SiteUnknown {
				t.Errorf("unexpected site for %#x: %v", data, m.Site())
			}
		}
	}
}

func TestConcreteTemperature(t *testing.T) {
	m, err := Decode(mustHex("07 d3 03 00 ff e5 07 07 08 0f 22 00 01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	temp, ok := m.Temperature()
	if !ok || temp != 97.9 {
		t.Errorf("unexpected temperature: got:%v (%t) want:97.9", temp, ok)
	}
	dt, ok := m.DateTime()
	if !ok {
		t.Fatal("missing time stamp")
	}
	ts, ok := dt.Time(time.UTC)
	want := time.Date(2021, time.July, 8, 15, 34, 0, 0, time.UTC)
	if !ok || !ts.Equal(want) {
		t.Errorf("unexpected time: got:%v want:%v", ts, want)
	}
	if got := m.String(); got != "97.9 F (armpit) 2021-07-08T15:34:00" {
		t.Errorf("unexpected string: %q", got)
	}
}

var roundTripTests = []Measurement{
	NewMeasurement(Float{Mantissa: 979, Exponent: -1}, Fahrenheit, SiteArmpit, &DateTime{Year: 2021, Month: 7, Day: 8, Hour: 15, Minute: 34}),
	NewMeasurement(Float{Mantissa: 363, Exponent: -1}, Celsius, SiteBody, nil),
	NewMeasurement(Float{Mantissa: -4000, Exponent: -2}, Celsius, SiteFinger, &DateTime{Year: 1999, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59}),
	NewMeasurement(Float{Mantissa: 37, Exponent: 0}, Celsius, SiteGastrointestinal, &DateTime{}),
	NewMeasurement(Float{Mantissa: floatMantissaMax, Exponent: 127}, Fahrenheit, SiteRectum, nil),
	NewMeasurement(Float{Mantissa: floatMantissaMin, Exponent: -128}, Fahrenheit, SiteToe, nil),
	NewMeasurement(Float{Status: StatusPositiveInfinity}, Celsius, SiteMouth, nil),
}

func TestRoundTrip(t *testing.T) {
	for _, m := range roundTripTests {
		t.Run(m.String(), func(t *testing.T) {
			b, err := m.MarshalBinary()
			if err != nil {
				t.Fatalf("unexpected error marshaling: %v", err)
			}
			got, err := Decode(b)
			if err != nil && m.Value().Valid() {
				t.Fatalf("unexpected error decoding %#x: %v", b, err)
			}
			if got != m {
				t.Errorf("unexpected round trip result for %#x:\ngot: %#v\nwant:%#v", b, got, m)
			}
		})
	}
}

func TestMarshalBinary(t *testing.T) {
	want := mustHex("07 d3 03 00 ff e5 07 07 08 0f 22 00 01")
	m, err := Decode(want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected encoding:\ngot: %#x\nwant:%#x", got, want)
	}

	for _, bad := range []Measurement{
		NewMeasurement(Float{Mantissa: 1 << 23}, Celsius, SiteBody, nil),
		NewMeasurement(Float{Mantissa: floatNaN}, Celsius, SiteBody, nil),
		NewMeasurement(Float{Mantissa: 363, Exponent: -1}, Unit(2), SiteBody, nil),
		NewMeasurement(Float{Mantissa: 363, Exponent: -1}, Celsius, SiteBody, &DateTime{Month: 13}),
	} {
		_, err := bad.MarshalBinary()
		if err == nil {
			t.Errorf("expected error for %#v", bad)
		}
	}
}

var jsonTests = []struct {
	name string
	data []byte
	want string
}{
	{
		name: "full",
		data: mustHex("07 d3 03 00 ff e5 07 07 08 0f 22 00 01"),
		want: `{"Temperature":97.9,"Format":"F","Type":"armpit","DateTime":"2021-07-08T15:34:00"}`,
	},
	{
		name: "minimal",
		data: mustHex("00 6b 01"),
		want: `{"Temperature":36.3,"Format":"C","Type":"unknown","DateTime":null}`,
	},
	{
		name: "nan",
		data: mustHex("00 ff ff 7f 00"),
		want: `{"Temperature":null,"Format":"C","Type":"unknown","DateTime":null}`,
	},
}

func TestMarshalJSON(t *testing.T) {
	for _, test := range jsonTests {
		t.Run(test.name, func(t *testing.T) {
			m, _ := Decode(test.data)
			got, err := m.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != test.want {
				t.Errorf("unexpected JSON:\ngot: %s\nwant:%s", got, test.want)
			}
		})
	}
}

func TestPairs(t *testing.T) {
	m, err := Decode(mustHex("06 6b 01 00 ff e5 07 07 09 0c 15 00 01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Pair{
		{Key: "Temperature", Value: 36.3},
		{Key: "Format", Value: "C"},
		{Key: "Type", Value: "armpit"},
		{Key: "DateTime", Value: "2021-07-09T12:21:00"},
	}
	got := m.Pairs()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected pairs:\ngot: %#v\nwant:%#v", got, want)
	}
}

var flagsStringTests = []struct {
	flags Flags
	want  string
}{
	{flags: 0, want: "0"},
	{flags: 0x07, want: "Fahrenheit|TimeStamp|Type"},
	{flags: 0x06, want: "TimeStamp|Type"},
	{flags: 0x09, want: "Fahrenheit|0x8"},
}

func TestFlagsString(t *testing.T) {
	for _, test := range flagsStringTests {
		got := test.flags.String()
		if got != test.want {
			t.Errorf("unexpected string for %#x: got:%q want:%q", byte(test.flags), got, test.want)
		}
	}
}

func TestDecodeErrorString(t *testing.T) {
	_, err := Decode(mustHex("02 d3 03 00 ff e5 07 0d 08 0f 22 00"))
	want := "invalid time stamp: month out of range: 13"
	if err == nil || err.Error() != want {
		t.Errorf("unexpected error: got:%v want:%s", err, want)
	}
	_, err = Decode(mustHex("00"))
	want = "measurement too short: temperature at offset 1 of 1 bytes"
	if err == nil || err.Error() != want {
		t.Errorf("unexpected error: got:%v want:%s", err, want)
	}
}
