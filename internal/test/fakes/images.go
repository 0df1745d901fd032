// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/momeni/furucamera/pkg/core/repo"
)

// StoredObject is an object which was put in an ImageStore.
type StoredObject struct {
	Data         []byte
	ContentType  string
	CacheControl string
}

// ImageStore is an in-memory repo.ImageStore which serves its objects
// under the BaseURL.
type ImageStore struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string]StoredObject // by bucket/key
	puts    int
	removes int
	err     error
}

// NewImageStore creates an empty in-memory image store.
func NewImageStore(baseURL string) *ImageStore {
	return &ImageStore{
		BaseURL: baseURL,
		objects: make(map[string]StoredObject),
	}
}

// Fail makes the following operations return err (if not nil).
func (s *ImageStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Puts returns the number of Put calls so far, including failed ones.
func (s *ImageStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Removes returns the number of Remove calls so far.
func (s *ImageStore) Removes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removes
}

// Object returns the bucket/key object, if it exists.
func (s *ImageStore) Object(bucket, key string) (StoredObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[bucket+"/"+key]
	return obj, ok
}

// Len returns the number of stored objects.
func (s *ImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Add stores data as the bucket/key object directly.
func (s *ImageStore) Add(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = StoredObject{Data: data}
}

func (s *ImageStore) Put(ctx context.Context, bucket string, obj repo.Object) error {
	data, err := io.ReadAll(obj.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.err != nil {
		return s.err
	}
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	k := bucket + "/" + obj.Key
	if _, ok := s.objects[k]; ok {
		return repo.ErrObjectExists
	}
	s.objects[k] = StoredObject{
		Data:         data,
		ContentType:  obj.ContentType,
		CacheControl: obj.CacheControl,
	}
	return nil
}

func (s *ImageStore) URL(bucket, key string) string {
	return s.BaseURL + "/" + bucket + "/" + key
}

func (s *ImageStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.objects[bucket+"/"+key]
	return ok, nil
}

func (s *ImageStore) Remove(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	if s.err != nil {
		return s.err
	}
	delete(s.objects, bucket+"/"+key)
	return nil
}
