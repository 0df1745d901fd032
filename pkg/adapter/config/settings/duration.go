// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"strings"
	"time"
)

// Duration is a time.Duration which is decoded from (and encoded as)
// its human-readable text form, like 1h30m, in YAML files and
// environment variables.
type Duration time.Duration

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// The data format must be accepted by the time.ParseDuration function.
// The d receiver is only updated if data is valid.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String formats d like time.Duration.String without its zero trailing
// units, so 12h0m0s is shown as 12h and 1m0s as 1m.
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}
