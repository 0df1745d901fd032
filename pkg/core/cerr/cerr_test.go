// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("listing: %w", cerr.Unavailable(base))
	assert.Equal(t, http.StatusServiceUnavailable, cerr.StatusCode(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "listing: [503] boom", wrapped.Error())

	assert.Equal(t, http.StatusNotFound, cerr.StatusCode(cerr.NotFound(base)))
	assert.Equal(t, http.StatusInternalServerError, cerr.StatusCode(base))
}
