// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forkbeard provides helper functions for interacting with
// characteristics of connected Bluetooth devices.
package forkbeard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"tinygo.org/x/bluetooth"
)

// ErrNotFound is returned when a requested characteristic is not
// provided by a device service.
var ErrNotFound = errors.New("device characteristic not found")

// DeviceCharacteristic returns a specified bluetooth.DeviceCharacteristic
// from a Bluetooth service.
func DeviceCharacteristic(dev *bluetooth.Device, srvID, charID bluetooth.UUID) (bluetooth.DeviceCharacteristic, error) {
	chars, err := Characteristics(dev, srvID, charID)
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, err
	}
	c, ok := chars[charID]
	if !ok {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("%w: %s", ErrNotFound, charID)
	}
	return c, nil
}

// Characteristics returns the subset of the requested characteristics
// that are provided by a Bluetooth service, keyed by UUID. Absent
// characteristics are not an error.
func Characteristics(dev *bluetooth.Device, srvID bluetooth.UUID, charIDs ...bluetooth.UUID) (map[bluetooth.UUID]bluetooth.DeviceCharacteristic, error) {
	srv, err := dev.DiscoverServices([]bluetooth.UUID{srvID})
	if err != nil {
		return nil, fmt.Errorf("failed to discover service %s: %w", srvID, err)
	}
	found := make(map[bluetooth.UUID]bluetooth.DeviceCharacteristic)
	for _, s := range srv {
		// Discovery fails if any named characteristic is absent,
		// so discover all of them and select.
		chars, err := s.DiscoverCharacteristics(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to discover characteristics of %s: %w", srvID, err)
		}
		selectUUIDs(found, chars, charIDs)
	}
	return found, nil
}

// selectUUIDs adds the elements of chars with a UUID in ids to dst.
func selectUUIDs[C interface{ UUID() bluetooth.UUID }](dst map[bluetooth.UUID]C, chars []C, ids []bluetooth.UUID) {
	for _, c := range chars {
		id := c.UUID()
		if slices.Contains(ids, id) {
			dst[id] = c
		}
	}
}

// ReadCharacteristic reads data from a Bluetooth characteristic.
func ReadCharacteristic(char bluetooth.DeviceCharacteristic) ([]byte, error) {
	mtu, err := char.GetMTU()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain mtu of characteristic: %w", err)
	}
	buf := make([]byte, mtu)
	n, err := char.Read(buf)
	if err != nil && err != io.EOF {
		return buf[:n], fmt.Errorf("failed to read response from characteristic: %w", err)
	}
	return buf[:n], nil
}

// ReadString reads a UTF-8 string characteristic. Trailing NUL padding
// is removed.
func ReadString(char bluetooth.DeviceCharacteristic) (string, error) {
	b, err := ReadCharacteristic(char)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(b, "\x00")), nil
}
