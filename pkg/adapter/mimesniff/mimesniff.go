// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mimesniff detects the content types of uploaded files by
// their leading bytes and maps content types to file extensions.
package mimesniff

import (
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Unknown is the content type which is reported for undetectable data.
const Unknown = "application/octet-stream"

// DetectReader reads the leading bytes of r and returns their content
// type, without its parameters (such as charset). The consumed bytes
// are not returned into r.
func DetectReader(r io.Reader) (string, error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	return essence(m.String()), nil
}

// Declared returns ct if it specifies a concrete content type, or
// an empty string if it is empty or the generic binary type.
func Declared(ct string) string {
	ct = essence(ct)
	if ct == Unknown {
		return ""
	}
	return ct
}

// Extension returns the file extension (without the leading dot) of
// the contentType, or an empty string if it is unknown.
func Extension(contentType string) string {
	if m := mimetype.Lookup(essence(contentType)); m != nil {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	return ""
}

func essence(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
