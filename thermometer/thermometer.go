// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package thermometer implements handling of the standard 1809 Bluetooth
// health thermometer service.
//
// Measurement decoding does not depend on a Bluetooth connection; Decode
// may be used with payloads obtained from any source.
package thermometer

import (
	"fmt"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/thermo/internal/forkbeard"
)

const (
	ServiceID                 = "1809"
	MeasurementID             = "2a1c"
	TypeID                    = "2a1d"
	IntermediateTemperatureID = "2a1e"
)

var (
	htService      = must(bluetooth.ParseUUID(ServiceID))
	htMeasurement  = must(bluetooth.ParseUUID(MeasurementID))
	htType         = must(bluetooth.ParseUUID(TypeID))
	htIntermediate = must(bluetooth.ParseUUID(IntermediateTemperatureID))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Listener implements handling of temperature measurement indications
// and intermediate temperature notifications.
type Listener struct {
	char bluetooth.DeviceCharacteristic
}

// NewListener returns a new Listener for temperature measurements from
// the provided connected Bluetooth device. The h function is called with
// each received measurement. Each call receives a freshly decoded
// measurement; on error the measurement is the value documented by Decode.
func NewListener(dev *bluetooth.Device, h func(Measurement, error)) (*Listener, error) {
	return newListener(dev, htMeasurement, h)
}

// NewIntermediateListener returns a new Listener for intermediate
// temperature values sent by the device while a measurement is in
// progress.
func NewIntermediateListener(dev *bluetooth.Device, h func(Measurement, error)) (*Listener, error) {
	return newListener(dev, htIntermediate, h)
}

func newListener(dev *bluetooth.Device, id bluetooth.UUID, h func(Measurement, error)) (*Listener, error) {
	char, err := forkbeard.DeviceCharacteristic(dev, htService, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get temperature device characteristic: %w", err)
	}
	err = char.EnableNotifications(func(buf []byte) {
		h(Decode(buf))
	})
	if err != nil {
		return nil, err
	}
	return &Listener{char: char}, nil
}

// Close disables temperature notifications from the connected sensor.
func (l *Listener) Close() error { return l.char.EnableNotifications(nil) }

// ReadSite returns the static temperature type of the provided device.
// Devices that report a type with each measurement do not expose it.
func ReadSite(dev *bluetooth.Device) (Site, error) {
	char, err := forkbeard.DeviceCharacteristic(dev, htService, htType)
	if err != nil {
		return SiteUnknown, fmt.Errorf("failed to get temperature type characteristic: %w", err)
	}
	resp, err := forkbeard.ReadCharacteristic(char)
	if err != nil {
		return SiteUnknown, fmt.Errorf("failed read temperature type characteristic: %w", err)
	}
	if len(resp) == 0 {
		return SiteUnknown, &DecodeError{Kind: ErrTruncatedType, Field: "temperature type", Len: 0}
	}
	return siteFor(resp[0]), nil
}
