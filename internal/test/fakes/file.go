// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"bytes"
	"errors"
	"io"
)

// ErrUnreadable is returned by opening an unreadable File.
var ErrUnreadable = errors.New("file is unreadable")

// File is an in-memory model.File.
type File struct {
	FileName string
	Type     string
	Data     []byte

	// Unreadable makes Open fail.
	Unreadable bool
}

// Image creates a File with the image/png content type.
func Image(name string) *File {
	return &File{FileName: name, Type: "image/png", Data: []byte("png:" + name)}
}

// Text creates a File with the text/plain content type.
func Text(name string) *File {
	return &File{FileName: name, Type: "text/plain", Data: []byte(name)}
}

func (f *File) Name() string        { return f.FileName }
func (f *File) ContentType() string { return f.Type }
func (f *File) Size() int64         { return int64(len(f.Data)) }

func (f *File) Open() (io.ReadCloser, error) {
	if f.Unreadable {
		return nil, ErrUnreadable
	}
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}
