// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/furucamera/pkg/adapter/mimesniff"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
)

// FormFile adapts an uploaded multipart file to the model.File
// interface. Its content type is taken from the part header, or it is
// sniffed from the leading bytes when the header is missing or only
// declares a generic binary type.
type FormFile struct {
	fh          *multipart.FileHeader
	contentType string
}

var _ model.File = (*FormFile)(nil)

// NewFormFile wraps fh, sniffing its content type if necessary.
// A file which cannot be sniffed gets an empty content type, so it is
// not taken as an image.
func NewFormFile(ctx context.Context, fh *multipart.FileHeader) *FormFile {
	ff := &FormFile{fh: fh}
	if ct := mimesniff.Declared(fh.Header.Get("Content-Type")); ct != "" {
		ff.contentType = ct
		return ff
	}
	ct, err := ff.sniff()
	if err != nil {
		log.Warn(ctx, "sniffing uploaded file failed",
			slog.String("name", fh.Filename), log.Err("err", err),
		)
		return ff
	}
	ff.contentType = ct
	return ff
}

func (ff *FormFile) sniff() (string, error) {
	f, err := ff.fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", ff.fh.Filename, err)
	}
	defer f.Close()
	return mimesniff.DetectReader(f)
}

func (ff *FormFile) Name() string {
	return ff.fh.Filename
}

func (ff *FormFile) ContentType() string {
	return ff.contentType
}

func (ff *FormFile) Size() int64 {
	return ff.fh.Size
}

func (ff *FormFile) Open() (io.ReadCloser, error) {
	return ff.fh.Open()
}

// FormFiles returns the files of the field multipart form field.
// A request without a multipart body yields an error, while a missing
// field yields no files.
func FormFiles(c *gin.Context, field string) ([]model.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}
	fhs := form.File[field]
	files := make([]model.File, 0, len(fhs))
	for _, fh := range fhs {
		files = append(files, NewFormFile(c, fh))
	}
	return files, nil
}

// FormErr classifies an error of parsing a multipart form. A body which
// exceeds the request size limit yields a 413 error and other failures
// yield a 400 error.
func FormErr(err error) *cerr.Error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return cerr.TooLarge(err)
	}
	return cerr.BadRequest(err)
}
