// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/stretchr/testify/assert"
)

func TestFormErr(t *testing.T) {
	tooLarge := fmt.Errorf("multipart: NextPart: %w",
		&http.MaxBytesError{Limit: 1024},
	)
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		serdser.FormErr(tooLarge).HTTPStatusCode,
	)
	assert.Equal(t, http.StatusBadRequest,
		serdser.FormErr(errors.New("no multipart boundary")).HTTPStatusCode,
	)
}
