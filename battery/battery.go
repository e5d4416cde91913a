// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package battery implements reading of the standard 180f Bluetooth
// battery service characteristic.
package battery

import (
	"errors"
	"fmt"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/thermo/internal/forkbeard"
)

const (
	ServiceID             = "180f"
	LevelCharacteristicID = "2a19"
)

var (
	batteryService             = must(bluetooth.ParseUUID(ServiceID))
	batteryLevelCharacteristic = must(bluetooth.ParseUUID(LevelCharacteristicID))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// ErrInvalidLevel is returned when a battery level characteristic
// value is empty or is not a percentage.
var ErrInvalidLevel = errors.New("invalid battery level")

// Decode returns the battery level percentage held in data.
func Decode(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLevel)
	}
	if data[0] > 100 {
		return 0, fmt.Errorf("%w: %d%%", ErrInvalidLevel, data[0])
	}
	return int(data[0]), nil
}

// Level returns the battery level for the provided Bluetooth device.
func Level(dev *bluetooth.Device) (int, error) {
	// https://www.bluetooth.com/specifications/specs/battery-service/

	c, err := forkbeard.DeviceCharacteristic(dev, batteryService, batteryLevelCharacteristic)
	if err != nil {
		return 0, fmt.Errorf("failed to get battery level characteristic: %w", err)
	}
	resp, err := forkbeard.ReadCharacteristic(c)
	if err != nil {
		return 0, fmt.Errorf("failed read battery level characteristic: %w", err)
	}
	return Decode(resp)
}
