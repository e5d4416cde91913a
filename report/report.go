// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report assembles temperature measurements, device identity and
// participant identifiers into flat JSON documents.
package report

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/kortschak/thermo/devinfo"
	"github.com/kortschak/thermo/thermometer"
)

// ErrNoBarcode is returned by New when no participant barcode is given.
var ErrNoBarcode = errors.New("no participant barcode")

// Document is a flat measurement document. It marshals to a JSON
// object with sorted keys.
type Document struct {
	fields map[string]any
	key    string
}

type options struct {
	name, address string
	info          devinfo.Info
	barcode       string
	battery       int
	now           time.Time
}

// Option is a document construction option.
type Option func(*options)

// WithDevice sets the name and address of the measuring device.
func WithDevice(name, address string) Option {
	return func(o *options) {
		o.name = name
		o.address = address
	}
}

// WithInfo sets the device information of the measuring device.
func WithInfo(info devinfo.Info) Option {
	return func(o *options) { o.info = info }
}

// WithBattery sets the battery level percentage of the measuring
// device. Negative levels are omitted.
func WithBattery(level int) Option {
	return func(o *options) { o.battery = level }
}

// WithBarcode sets the participant barcode. White space is removed.
func WithBarcode(barcode string) Option {
	return func(o *options) {
		o.barcode = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, barcode)
	}
}

// WithTime sets the time the document is created. The default is the
// time New is called.
func WithTime(t time.Time) Option {
	return func(o *options) { o.now = t }
}

// New returns a document for m.
func New(m thermometer.Measurement, opts ...Option) (Document, error) {
	o := options{battery: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.barcode == "" {
		return Document{}, ErrNoBarcode
	}
	if o.now.IsZero() {
		o.now = time.Now()
	}

	fields := make(map[string]any)
	for _, p := range m.Pairs() {
		fields[p.Key] = p.Value
	}
	for k, v := range o.info.Pairs() {
		fields[k] = v
	}
	if o.name != "" {
		fields["DeviceName"] = o.name
	}
	if o.address != "" {
		fields["DeviceAddress"] = o.address
	}
	if o.battery >= 0 {
		fields["BatteryLevel"] = o.battery
	}
	fields["Barcode"] = o.barcode

	device := "thermometer"
	if o.name != "" {
		device = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return '_'
		}, o.name)
	}
	return Document{
		fields: fields,
		key:    strings.Join([]string{o.barcode, o.now.Format("20060102"), device}, "_"),
	}, nil
}

// Key returns the document key, <barcode>_<yyyymmdd>_<device>.
func (d Document) Key() string { return d.key }

// Get returns the value of the named field.
func (d Document) Get(name string) (any, bool) {
	v, ok := d.fields[name]
	return v, ok
}

func (d Document) MarshalJSON() ([]byte, error) { return json.Marshal(d.fields) }
