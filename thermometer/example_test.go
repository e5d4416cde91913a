// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermometer_test

import (
	"errors"
	"fmt"

	"github.com/kortschak/thermo/thermometer"
)

func ExampleDecode() {
	buf := []byte{0x07, 0xd3, 0x03, 0x00, 0xff, 0xe5, 0x07, 0x07, 0x08, 0x0f, 0x22, 0x00, 0x01}
	m, err := thermometer.Decode(buf)
	if err != nil {
		fmt.Println(err)
		return
	}
	temp, _ := m.Temperature()
	dt, _ := m.DateTime()
	fmt.Println(temp, m.Unit(), m.Site(), dt)

	// Output:
	// 97.9 F armpit 2021-07-08T15:34:00
}

func ExampleDecode_invalid() {
	buf := []byte{0x04, 0xff, 0xff, 0x7f, 0x00, 0x06}
	m, err := thermometer.Decode(buf)
	if errors.Is(err, thermometer.ErrInvalidTemperature) {
		_, ok := m.Temperature()
		fmt.Println(ok, m.Value(), m.Site())
	}

	// Output:
	// false NaN mouth
}
