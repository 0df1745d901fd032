// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// DefaultBucket is the object storage bucket of the listing images.
const DefaultBucket = "camera-images"

// UploadPrefix is the key prefix of all uploaded images.
const UploadPrefix = "uploads/"

// stdExtension infers an extension from the mime registry of the
// standard library, used when no better lookup is configured.
func stdExtension(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return strings.TrimPrefix(exts[0], ".")
}

func randomToken() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36), nil
}

// sanitizeExt lowercases ext and keeps its letters and digits.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext)
}

// uploadKey returns uploads/<unix-millis>-<base36 token>.<ext> for f.
// The ext is taken from the f file name, or is inferred from its
// content type, or is bin as the last resort.
func (listings *UseCase) uploadKey(f model.File) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generating random token: %w", err)
	}
	ext := sanitizeExt(path.Ext(f.Name()))
	if ext == "" {
		ext = sanitizeExt(listings.extOf(f.ContentType()))
	}
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf(
		"%s%d-%s.%s", UploadPrefix, listings.now().UnixMilli(), token, ext,
	), nil
}

// UploadImage stores f in the default bucket and returns its public URL.
// See UploadImageTo for details.
func (listings *UseCase) UploadImage(ctx context.Context, f model.File) (string, error) {
	return listings.UploadImageTo(ctx, listings.bucket, f)
}

// UploadImageTo stores f in bucket under a freshly generated key with
// the cache directive of the configured cache ttl and returns its
// public URL. An existing object is never overwritten. An empty bucket
// selects the default bucket. On failure, an empty URL is returned and
// the error is logged; the caller decides about any fallback.
func (listings *UseCase) UploadImageTo(
	ctx context.Context, bucket string, f model.File,
) (string, error) {
	if bucket == "" {
		bucket = listings.bucket
	}
	key, err := listings.uploadKey(f)
	if err != nil {
		log.Error(ctx, "upload key generation failed", log.Err("err", err))
		return "", err
	}
	rc, err := f.Open()
	if err != nil {
		log.Error(ctx, "opening upload file failed",
			slog.String("name", f.Name()), log.Err("err", err),
		)
		return "", cerr.BadRequest(fmt.Errorf("opening %q: %w", f.Name(), err))
	}
	defer rc.Close()
	err = listings.images.Put(ctx, bucket, repo.Object{
		Key:         key,
		Body:        rc,
		Size:        f.Size(),
		ContentType: f.ContentType(),
		CacheControl: fmt.Sprintf(
			"max-age=%d", int64(listings.cacheTTL/time.Second),
		),
	})
	if err != nil {
		log.Error(ctx, "uploading image failed",
			slog.String("bucket", bucket), slog.String("key", key),
			log.Err("err", err),
		)
		if errors.Is(err, repo.ErrObjectExists) {
			return "", cerr.Conflict(fmt.Errorf("upload %s: %w", key, err))
		}
		return "", backendErr(fmt.Errorf("upload %s: %w", key, err))
	}
	u := listings.images.URL(bucket, key)
	log.Info(ctx, "image uploaded",
		slog.String("bucket", bucket), slog.String("url", u),
	)
	return u, nil
}

// ImageKey derives the object key of an uploaded image from its URL
// by taking the last path segment under UploadPrefix. It is a best
// effort heuristic, so a URL which was not produced by UploadImage may
// map to an unrelated (usually missing) key. Inline data URIs and URLs
// without a path segment have no key.
func ImageKey(ref string) (string, bool) {
	if ref == "" || model.IsDataURI(ref) {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	seg := ref[strings.LastIndex(ref, "/")+1:]
	if seg == "" {
		return "", false
	}
	return UploadPrefix + seg, true
}

// DeleteImage removes the imageURL object from the default bucket.
// See DeleteImageFrom for details.
func (listings *UseCase) DeleteImage(ctx context.Context, imageURL string) (bool, error) {
	return listings.DeleteImageFrom(ctx, listings.bucket, imageURL)
}

// DeleteImageFrom removes the object of imageURL from bucket and
// reports if it was removed. If the derived key matches no object,
// false is returned without an error. An empty bucket selects the
// default bucket. Backend failures are logged and returned.
func (listings *UseCase) DeleteImageFrom(
	ctx context.Context, bucket, imageURL string,
) (bool, error) {
	if bucket == "" {
		bucket = listings.bucket
	}
	key, ok := ImageKey(imageURL)
	if !ok {
		log.Debug(ctx, "image reference has no object key",
			log.ImageRef("ref", imageURL),
		)
		return false, nil
	}
	exists, err := listings.images.Exists(ctx, bucket, key)
	if err != nil {
		log.Error(ctx, "checking image object failed",
			slog.String("bucket", bucket), slog.String("key", key),
			log.Err("err", err),
		)
		return false, backendErr(fmt.Errorf("stat %s: %w", key, err))
	}
	if !exists {
		return false, nil
	}
	if err = listings.images.Remove(ctx, bucket, key); err != nil {
		log.Error(ctx, "removing image object failed",
			slog.String("bucket", bucket), slog.String("key", key),
			log.Err("err", err),
		)
		return false, backendErr(fmt.Errorf("remove %s: %w", key, err))
	}
	log.Info(ctx, "image deleted",
		slog.String("bucket", bucket), slog.String("key", key),
	)
	return true, nil
}
