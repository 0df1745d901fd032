// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"encoding/base64"
	"io"
	"strings"
)

// File is an image file which is selected or dropped by an admin.
// Open may be called more than once; each call returns a reader which
// starts from the beginning of the file contents.
type File interface {
	Name() string        // original file name, like ae1.JPG
	ContentType() string // declared or sniffed mime type
	Size() int64
	Open() (io.ReadCloser, error)
}

// IsImage reports if the f file has an image/* content type.
func IsImage(f File) bool {
	return strings.HasPrefix(f.ContentType(), "image/")
}

// IsDataURI reports if an image reference is an inline data URI
// instead of a remote URL.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// DataURI encodes the data bytes as a self-contained data URI having
// the given mime type and base64 encoding.
func DataURI(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) +
		base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// ParseImageURLs splits a comma-separated text block of image URLs,
// trims each entry, and drops the empty ones. Order is preserved.
func ParseImageURLs(text string) []string {
	parts := strings.Split(text, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// MergeImages returns the intake images followed by the URLs which are
// parsed from the urlText, as submitted by the admin listing form.
func MergeImages(intake []string, urlText string) []string {
	urls := ParseImageURLs(urlText)
	all := make([]string, 0, len(intake)+len(urls))
	all = append(all, intake...)
	return append(all, urls...)
}

// SplitImages is the reverse of MergeImages which is used when an
// existing listing is opened for editing. Inline data URIs are given
// back to the intake and remote URLs are joined as the URL text.
func SplitImages(images []string) (intake []string, urlText string) {
	intake = make([]string, 0, len(images))
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if IsDataURI(img) {
			intake = append(intake, img)
		} else {
			urls = append(urls, img)
		}
	}
	return intake, strings.Join(urls, ", ")
}
