// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package devinfo implements reading of the standard 180a Bluetooth
// device information service characteristics.
package devinfo

import (
	"fmt"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/thermo/internal/forkbeard"
)

const (
	ServiceID            = "180a"
	ModelNumberID        = "2a24"
	SerialNumberID       = "2a25"
	FirmwareRevisionID   = "2a26"
	HardwareRevisionID   = "2a27"
	SoftwareRevisionID   = "2a28"
	ManufacturerNameID   = "2a29"
	deviceInformationLen = 6
)

var deviceInformationService = must(bluetooth.ParseUUID(ServiceID))

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Info is the identity of a device.
type Info struct {
	Manufacturer     string
	Model            string
	Serial           string
	HardwareRevision string
	FirmwareRevision string
	SoftwareRevision string
}

// fields returns the characteristic IDs of the Info fields and
// pointers to their storage.
func (i *Info) fields() [deviceInformationLen]struct {
	id  string
	key string
	dst *string
} {
	return [...]struct {
		id  string
		key string
		dst *string
	}{
		{ManufacturerNameID, "Manufacturer", &i.Manufacturer},
		{ModelNumberID, "Model", &i.Model},
		{SerialNumberID, "SerialNumber", &i.Serial},
		{HardwareRevisionID, "HardwareRevision", &i.HardwareRevision},
		{FirmwareRevisionID, "FirmwareRevision", &i.FirmwareRevision},
		{SoftwareRevisionID, "SoftwareRevision", &i.SoftwareRevision},
	}
}

// Read returns the device information for the provided Bluetooth device.
// Characteristics the device does not provide are left empty.
func Read(dev *bluetooth.Device) (Info, error) {
	// https://www.bluetooth.com/specifications/specs/device-information-service-1-1/

	var info Info
	fields := info.fields()
	ids := make([]bluetooth.UUID, len(fields))
	for i, f := range fields {
		ids[i] = must(bluetooth.ParseUUID(f.id))
	}
	chars, err := forkbeard.Characteristics(dev, deviceInformationService, ids...)
	if err != nil {
		return Info{}, fmt.Errorf("failed to get device information characteristics: %w", err)
	}
	for i, f := range fields {
		c, ok := chars[ids[i]]
		if !ok {
			continue
		}
		*f.dst, err = forkbeard.ReadString(c)
		if err != nil {
			return Info{}, fmt.Errorf("failed read %s characteristic: %w", f.key, err)
		}
	}
	return info, nil
}

// Pairs returns the non-empty identity fields keyed by name.
func (i Info) Pairs() map[string]string {
	p := make(map[string]string)
	for _, f := range i.fields() {
		if *f.dst != "" {
			p[f.key] = *f.dst
		}
	}
	return p
}
