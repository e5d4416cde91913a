// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermometer

import (
	"errors"
	"fmt"
)

// Decode error kinds. Errors returned by Decode wrap exactly one
// of these and can be tested with errors.Is.
var (
	ErrTooShort           = errors.New("measurement too short")
	ErrTruncatedDateTime  = errors.New("truncated time stamp")
	ErrTruncatedType      = errors.New("truncated temperature type")
	ErrInvalidDateTime    = errors.New("invalid time stamp")
	ErrInvalidTemperature = errors.New("invalid temperature")
)

// DecodeError is the error type returned by Decode.
type DecodeError struct {
	// Kind is the decode error kind.
	Kind error
	// Field is the name of the field being decoded.
	Field string
	// Offset is the byte offset of the field.
	Offset int
	// Len is the length of the payload.
	Len int
	// Value is the offending field value, if any.
	Value int
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrTooShort, ErrTruncatedDateTime, ErrTruncatedType:
		return fmt.Sprintf("%v: %s at offset %d of %d bytes", e.Kind, e.Field, e.Offset, e.Len)
	case ErrInvalidTemperature:
		return fmt.Sprintf("%v: %s", e.Kind, Status(e.Value))
	default:
		return fmt.Sprintf("%v: %s out of range: %d", e.Kind, e.Field, e.Value)
	}
}

func (e *DecodeError) Unwrap() error { return e.Kind }
