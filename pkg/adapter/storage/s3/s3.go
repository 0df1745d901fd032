// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package s3 implements the repo.ImageStore interface on top of an S3
// compatible object storage, using the MinIO client module.
// Objects are expected to be publicly readable, so their URL can be
// used directly as a listing image reference.
package s3

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// Options contains the object storage connection settings.
type Options struct {
	Endpoint  string // host:port, without a scheme
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool

	// PublicBaseURL is the scheme and host (and an optional path
	// prefix) which must be used in place of the endpoint in the
	// public object URLs. It may be empty.
	PublicBaseURL string
}

// Store is an object storage client. It is safe for concurrent use.
type Store struct {
	client  *minio.Client
	baseURL string
}

// New creates an object storage client. It does not connect to the
// storage server, so an unreachable server is only reported by the
// later operations.
func New(o Options) (*Store, error) {
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
		Region: o.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %q: %w", o.Endpoint, err)
	}
	base := o.PublicBaseURL
	if base == "" {
		base = client.EndpointURL().String()
	}
	return &Store{
		client:  client,
		baseURL: strings.TrimSuffix(base, "/"),
	}, nil
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type policy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// PublicReadPolicy returns a bucket policy document which allows
// anonymous users to get the objects of bucket.
func PublicReadPolicy(bucket string) (string, error) {
	b, err := json.Marshal(policy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling bucket policy: %w", err)
	}
	return string(b), nil
}

// EnsureBucket creates bucket if it does not exist yet. If public is
// true, anonymous read access is granted on its objects too.
func (s *Store) EnsureBucket(ctx context.Context, bucket string, public bool) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", bucket, err)
	}
	if !exists {
		err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("making bucket %q: %w", bucket, err)
		}
		log.Info(ctx, "bucket is created", slog.String("bucket", bucket))
	}
	if !public {
		return nil
	}
	p, err := PublicReadPolicy(bucket)
	if err != nil {
		return err
	}
	if err = s.client.SetBucketPolicy(ctx, bucket, p); err != nil {
		return fmt.Errorf("setting bucket %q policy: %w", bucket, err)
	}
	return nil
}

// Put stores obj in bucket. An existing object is never overwritten
// and repo.ErrObjectExists is returned instead. The existence check and
// the upload are not atomic, but object keys carry a random token too.
func (s *Store) Put(ctx context.Context, bucket string, obj repo.Object) error {
	exists, err := s.Exists(ctx, bucket, obj.Key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("putting %s/%s: %w", bucket, obj.Key, repo.ErrObjectExists)
	}
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	info, err := s.client.PutObject(ctx, bucket, obj.Key, obj.Body, size,
		minio.PutObjectOptions{
			ContentType:  obj.ContentType,
			CacheControl: obj.CacheControl,
		},
	)
	if err != nil {
		return fmt.Errorf("putting %s/%s: %w", bucket, obj.Key, err)
	}
	log.Debug(ctx, "object is stored",
		slog.String("bucket", info.Bucket),
		slog.String("key", info.Key),
		slog.Int64("size", info.Size),
	)
	return nil
}

// URL returns the public URL of the key object in bucket.
func (s *Store) URL(bucket, key string) string {
	return s.baseURL + "/" + bucket + "/" + key
}

// Exists reports if the key object exists in bucket.
func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("stating %s/%s: %w", bucket, key, err)
}

// Remove deletes the key object from bucket.
func (s *Store) Remove(ctx context.Context, bucket, key string) error {
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("removing %s/%s: %w", bucket, key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	er := minio.ToErrorResponse(err)
	return er.Code == "NoSuchKey" || er.StatusCode == http.StatusNotFound
}
