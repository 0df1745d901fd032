// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/momeni/furucamera/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNil2Zero(t *testing.T) {
	var b *bool
	settings.Nil2Zero(&b)
	require.NotNil(t, b)
	assert.False(t, *b)

	v := true
	b = &v
	settings.Nil2Zero(&b)
	assert.Same(t, &v, b)
}

func TestOverwriteNil(t *testing.T) {
	def := ":8080"
	var addr *string
	settings.OverwriteNil(&addr, &def)
	require.NotNil(t, addr)
	assert.Equal(t, ":8080", *addr)
	assert.NotSame(t, &def, addr, "default is copied")

	given := ":9090"
	addr = &given
	settings.OverwriteNil(&addr, &def)
	assert.Equal(t, ":9090", *addr)
}

func TestVerifyRange(t *testing.T) {
	minb, maxb := 1, 10
	var n *int
	assert.NoError(t, settings.VerifyRange(&n, &minb, &maxb), "nil is valid")

	for _, v := range []int{1, 5, 10} {
		n = &v
		assert.NoError(t, settings.VerifyRange(&n, &minb, &maxb))
	}

	v := 11
	n = &v
	err := settings.VerifyRange(&n, &minb, &maxb)
	var oor *settings.OutOfRangeError[int]
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 11, oor.Value)
	assert.EqualError(t, err, "11 is greater than max 10")
	assert.Equal(t, 11, *n, "value is not modified")

	v = 0
	assert.EqualError(t, settings.VerifyRange(&n, &minb, nil),
		"0 is less than min 1",
	)
	assert.NoError(t, settings.VerifyRange(&n, nil, &maxb))

	assert.Panics(t, func() {
		_ = settings.VerifyRange(&n, &maxb, &minb)
	})
}

func TestDurationYAML(t *testing.T) {
	var s struct {
		TTL  settings.Duration  `yaml:"ttl"`
		Idle *settings.Duration `yaml:"idle"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("ttl: 1h30m\nidle: 90s\n"), &s))
	assert.Equal(t, settings.Duration(90*time.Minute), s.TTL)
	assert.Equal(t, settings.Duration(90*time.Second), *s.Idle)

	err := yaml.Unmarshal([]byte("ttl: soon\n"), &s)
	assert.Error(t, err)
}

func ExampleDuration_String() {
	for _, d := range []time.Duration{
		12 * time.Hour, time.Minute, 90 * time.Second, 0,
	} {
		fmt.Println(settings.Duration(d))
	}
	// Output:
	// 12h
	// 1m
	// 1m30s
	// 0s
}
