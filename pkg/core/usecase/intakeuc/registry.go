// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package intakeuc implements the image intake use case. An intake is
// the draft list of images of one listing form which is being filled
// by an admin. Images may be dropped on the drop zone or selected by
// the file picker, in batches. Each accepted file is uploaded as an
// independent task and represented by its public URL, or by an inline
// data URI when the upload fails. The resulting ordered list is merged
// with the manually entered image URLs when the form is submitted.
package intakeuc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
)

// Default values of the registry settings.
const (
	DefaultMaxBatch = 10
	DefaultDraftTTL = time.Hour
)

// Uploader stores image files and removes the stored objects.
// The listingsuc.UseCase type implements it.
type Uploader interface {
	UploadImage(ctx context.Context, f model.File) (string, error)
	DeleteImage(ctx context.Context, imageURL string) (bool, error)
}

// Observer is informed about the outcome of each image batch.
type Observer interface {
	ObserveBatch(ctx context.Context, s BatchStats)
}

// BatchStats summarizes one processed or rejected batch.
type BatchStats struct {
	Via      Via
	Rejected error // nil if the batch was accepted
	Uploaded int
	Inlined  int
	Failed   int
	Duration time.Duration
}

// Registry keeps the open intake drafts, keyed by their UUID.
// Drafts which are not touched for the draft TTL are evicted whenever
// a new draft is opened. It is safe for concurrent use.
type Registry struct {
	uploader Uploader

	maxBatch    int
	parallelism int
	orphans     OrphanPolicy
	ttl         time.Duration
	observer    Observer
	now         func() time.Time

	mu     sync.Mutex
	drafts map[uuid.UUID]*Intake
}

// New instantiates a drafts registry which uploads files through the
// u uploader.
func New(u Uploader, opts ...Option) (*Registry, error) {
	r := &Registry{
		uploader: u,
		drafts:   make(map[uuid.UUID]*Intake),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if r.maxBatch == 0 {
		r.maxBatch = DefaultMaxBatch
	}
	if r.parallelism == 0 {
		r.parallelism = 1
	}
	if r.orphans == "" {
		r.orphans = OrphanKeep
	}
	if r.ttl == 0 {
		r.ttl = DefaultDraftTTL
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// MaxBatch returns the maximum number of image files of a batch.
func (r *Registry) MaxBatch() int {
	return r.maxBatch
}

// Open creates a new idle draft holding the existing images, which are
// the inline images of a listing being edited, or nil for a new one.
// The onChange callback, if not nil, receives the whole images list
// whenever it changes. Expired drafts are evicted before adding the
// new one.
func (r *Registry) Open(
	ctx context.Context, existing []string, onChange func([]string),
) *Intake {
	now := r.now()
	in := &Intake{
		id:       uuid.New(),
		reg:      r,
		onChange: onChange,
		state:    StateIdle,
		images:   append([]string{}, existing...),
		touched:  now,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.drafts {
		if d.expired(now) {
			delete(r.drafts, id)
			log.Debug(ctx, "evicted idle intake draft", log.UUID("intake", id))
		}
	}
	r.drafts[in.id] = in
	log.Info(ctx, "intake draft opened",
		log.UUID("intake", in.id), slog.Int("images", len(in.images)),
	)
	return in
}

// Get finds the id draft. Expired drafts are reported as not found,
// even if they are not evicted yet.
func (r *Registry) Get(id uuid.UUID) (*Intake, error) {
	r.mu.Lock()
	in, ok := r.drafts[id]
	r.mu.Unlock()
	if !ok || in.expired(r.now()) {
		return nil, cerr.NotFound(fmt.Errorf("intake %s: %w", id, ErrNoDraft))
	}
	return in, nil
}

// Close discards the id draft and reports if it was open.
// Stored objects of its images are kept since they may be referenced
// by a submitted listing.
func (r *Registry) Close(ctx context.Context, id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.drafts[id]
	delete(r.drafts, id)
	if ok {
		log.Info(ctx, "intake draft closed", log.UUID("intake", id))
	}
	return ok
}

// Len returns the number of drafts in the registry, including the
// expired ones which are not evicted yet.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

func (r *Registry) observe(ctx context.Context, s BatchStats) {
	if r.observer != nil {
		r.observer.ObserveBatch(ctx, s)
	}
}
