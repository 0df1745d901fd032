// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package intakeuc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	"golang.org/x/sync/errgroup"
)

// State of an intake draft.
type State string

// Intake states. A draft is dragging while files are dragged over its
// drop zone and uploading while a batch is being processed.
const (
	StateIdle      State = "idle"
	StateDragging  State = "dragging"
	StateUploading State = "uploading"
)

// Via tells how a batch of files was delivered.
type Via string

// Batch delivery methods.
const (
	ViaDrop   Via = "drop"
	ViaPicker Via = "picker"
)

// OrphanPolicy decides about the stored object of a removed image.
type OrphanPolicy string

// Orphan policies. With OrphanKeep, removing an image from a draft
// only updates the list. With OrphanDelete, the stored object of a
// removed remote image is deleted too, on a best-effort basis.
const (
	OrphanKeep   OrphanPolicy = "keep"
	OrphanDelete OrphanPolicy = "delete"
)

// ParseOrphanPolicy converts s to an OrphanPolicy.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch p := OrphanPolicy(s); p {
	case OrphanKeep, OrphanDelete:
		return p, nil
	default:
		return "", fmt.Errorf("unknown orphan policy %q", s)
	}
}

// Sentinel errors of the intake operations. They are wrapped by the
// cerr package in order to carry their HTTP status codes.
var (
	ErrNoImages        = errors.New("batch has no image files")
	ErrTooManyFiles    = errors.New("batch has too many image files")
	ErrBusy            = errors.New("another batch is being processed")
	ErrIndexOutOfRange = errors.New("image index is out of range")
	ErrNoDraft         = errors.New("intake draft does not exist")
)

// Outcome describes the result of an intake operation.
// Notices must be shown to the admin in order, even when an error is
// returned alongside the outcome.
type Outcome struct {
	Images  []string       `json:"images"`
	Added   int            `json:"added"`
	Notices []model.Notice `json:"notices"`
}

// Snapshot is a point in time copy of a draft.
type Snapshot struct {
	ID     uuid.UUID `json:"id"`
	State  State     `json:"state"`
	Images []string  `json:"images"`
}

// Intake is one draft list of images. It is safe for concurrent use,
// but only one batch may be processed at a time.
type Intake struct {
	id       uuid.UUID
	reg      *Registry
	onChange func([]string)

	mu      sync.Mutex
	state   State
	images  []string
	touched time.Time
}

// ID returns the draft identifier.
func (in *Intake) ID() uuid.UUID {
	return in.id
}

// Snapshot returns the current state and images of the draft.
func (in *Intake) Snapshot() Snapshot {
	in.mu.Lock()
	defer in.mu.Unlock()
	return Snapshot{
		ID:     in.id,
		State:  in.state,
		Images: slices.Clone(in.images),
	}
}

// Images returns a copy of the current images list.
func (in *Intake) Images() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return slices.Clone(in.images)
}

func (in *Intake) expired(now time.Time) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state != StateUploading && now.Sub(in.touched) > in.reg.ttl
}

// lock acquires the draft mutex and marks the draft as used.
func (in *Intake) lock() {
	in.mu.Lock()
	in.touched = in.reg.now()
}

func busy(id uuid.UUID) error {
	return cerr.Conflict(fmt.Errorf("intake %s: %w", id, ErrBusy))
}

// DragEnter records that files are dragged over the drop zone.
// It is a no-op if the draft is already dragging.
func (in *Intake) DragEnter() error {
	in.lock()
	defer in.mu.Unlock()
	if in.state == StateUploading {
		return busy(in.id)
	}
	in.state = StateDragging
	return nil
}

// DragLeave records that dragged files have left the drop zone.
// It is a no-op unless the draft is dragging.
func (in *Intake) DragLeave() error {
	in.lock()
	defer in.mu.Unlock()
	if in.state == StateUploading {
		return busy(in.id)
	}
	in.state = StateIdle
	return nil
}

// Drop ends a dragging and processes the dropped files as one batch.
func (in *Intake) Drop(ctx context.Context, files []model.File) (Outcome, error) {
	in.lock()
	if in.state == StateUploading {
		in.mu.Unlock()
		return Outcome{}, busy(in.id)
	}
	in.state = StateIdle
	in.mu.Unlock()
	return in.process(ctx, ViaDrop, files)
}

// Select processes the files which are chosen by the file picker as
// one batch.
func (in *Intake) Select(ctx context.Context, files []model.File) (Outcome, error) {
	return in.process(ctx, ViaPicker, files)
}

// process accepts the image files among files, uploads each of them as
// an independent task, and appends the resulting references to the
// draft in the batch order. A file which cannot be uploaded is inlined
// as a data URI. A file which cannot be read is skipped with a
// destructive notice. If files contain no image file or more than the
// max batch size of image files, the whole batch is rejected before
// any upload attempt and the draft is left unchanged.
func (in *Intake) process(
	ctx context.Context, via Via, files []model.File,
) (Outcome, error) {
	ctx = log.WithAttrs(ctx, log.UUID("intake", in.id))
	start := time.Now()
	accepted := make([]model.File, 0, len(files))
	for _, f := range files {
		if model.IsImage(f) {
			accepted = append(accepted, f)
		}
	}
	in.lock()
	if in.state == StateUploading {
		in.mu.Unlock()
		return Outcome{}, busy(in.id)
	}
	var rejected error
	var notice model.Notice
	switch limit := in.reg.maxBatch; {
	case len(accepted) == 0:
		rejected = ErrNoImages
		notice = model.Failure("Invalid files", "Please select only image files")
	case len(accepted) > limit:
		rejected = ErrTooManyFiles
		notice = model.Failure("Too many files", fmt.Sprintf(
			"Please select no more than %d images at once", limit,
		))
	}
	if rejected != nil {
		out := Outcome{
			Images:  slices.Clone(in.images),
			Notices: []model.Notice{notice},
		}
		in.mu.Unlock()
		log.Warn(ctx, "image batch is rejected",
			slog.String("via", string(via)),
			slog.Int("files", len(files)),
			slog.Int("images", len(accepted)),
			log.Err("reason", rejected),
		)
		in.reg.observe(ctx, BatchStats{
			Via: via, Rejected: rejected, Duration: time.Since(start),
		})
		return out, cerr.BadRequest(fmt.Errorf(
			"%d of %d files are images: %w",
			len(accepted), len(files), rejected,
		))
	}
	in.state = StateUploading
	in.mu.Unlock()

	refs := make([]string, len(accepted))
	failures := make([]*model.Notice, len(accepted))
	uploaded := make([]bool, len(accepted))
	var g errgroup.Group
	g.SetLimit(in.reg.parallelism)
	for i, f := range accepted {
		g.Go(func() error {
			refs[i], uploaded[i], failures[i] = in.intakeFile(ctx, f)
			return nil
		})
	}
	_ = g.Wait() // tasks report their failures as notices

	stats := BatchStats{Via: via}
	out := Outcome{}
	added := make([]string, 0, len(accepted))
	for i := range accepted {
		switch {
		case failures[i] != nil:
			stats.Failed++
			out.Notices = append(out.Notices, *failures[i])
		case uploaded[i]:
			stats.Uploaded++
			added = append(added, refs[i])
		default:
			stats.Inlined++
			added = append(added, refs[i])
		}
	}
	in.lock()
	in.images = append(in.images, added...)
	in.state = StateIdle
	out.Images = slices.Clone(in.images)
	in.mu.Unlock()

	out.Added = len(added)
	out.Notices = append(out.Notices, model.Success(
		"Images uploaded",
		fmt.Sprintf("Successfully added %d image(s)", out.Added),
	))
	in.emit(out.Images)
	stats.Duration = time.Since(start)
	in.reg.observe(ctx, stats)
	log.Info(ctx, "image batch is processed",
		slog.String("via", string(via)),
		slog.Int("uploaded", stats.Uploaded),
		slog.Int("inlined", stats.Inlined),
		slog.Int("failed", stats.Failed),
	)
	return out, nil
}

// intakeFile uploads f and returns its public URL. If uploading fails,
// the f contents are returned as a data URI instead. The uploaded flag
// tells which one was returned. If f cannot be read, a notice is
// returned which must be shown to the admin.
func (in *Intake) intakeFile(
	ctx context.Context, f model.File,
) (ref string, uploaded bool, failure *model.Notice) {
	u, err := in.reg.uploader.UploadImage(ctx, f)
	if err == nil {
		return u, true, nil
	}
	log.Warn(ctx, "uploading image failed, inlining it",
		slog.String("name", f.Name()), log.Err("err", err),
	)
	data, err := readAll(f)
	if err != nil {
		log.Error(ctx, "reading image file failed",
			slog.String("name", f.Name()), log.Err("err", err),
		)
		n := model.Failure("Upload error", "Failed to process "+f.Name())
		return "", false, &n
	}
	return model.DataURI(f.ContentType(), data), false, nil
}

func readAll(f model.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// RemoveImage removes exactly the index-th image of the draft.
func (in *Intake) RemoveImage(ctx context.Context, index int) (Outcome, error) {
	ctx = log.WithAttrs(ctx, log.UUID("intake", in.id))
	in.lock()
	if index < 0 || index >= len(in.images) {
		n := len(in.images)
		in.mu.Unlock()
		return Outcome{}, cerr.BadRequest(fmt.Errorf(
			"removing image %d of %d: %w", index, n, ErrIndexOutOfRange,
		))
	}
	removed := in.images[index]
	in.images = slices.Delete(slices.Clone(in.images), index, index+1)
	images := slices.Clone(in.images)
	in.mu.Unlock()

	in.emit(images)
	in.dropOrphans(ctx, removed)
	log.Info(ctx, "image removed from intake",
		slog.Int("index", index), log.ImageRef("ref", removed),
	)
	return Outcome{
		Images: images,
		Notices: []model.Notice{model.Success(
			"Image removed", "Image has been removed from the listing",
		)},
	}, nil
}

// ClearAll removes all images of the draft.
func (in *Intake) ClearAll(ctx context.Context) (Outcome, error) {
	ctx = log.WithAttrs(ctx, log.UUID("intake", in.id))
	in.lock()
	removed := in.images
	in.images = []string{}
	in.mu.Unlock()

	in.emit([]string{})
	in.dropOrphans(ctx, removed...)
	log.Info(ctx, "intake images cleared", slog.Int("removed", len(removed)))
	return Outcome{
		Images: []string{},
		Notices: []model.Notice{model.Success(
			"All images cleared", "All uploaded images have been removed",
		)},
	}, nil
}

func (in *Intake) emit(images []string) {
	if in.onChange != nil {
		in.onChange(images)
	}
}

// dropOrphans applies the orphan policy on the removed references.
// Errors are only logged.
func (in *Intake) dropOrphans(ctx context.Context, removed ...string) {
	if in.reg.orphans != OrphanDelete {
		return
	}
	for _, ref := range removed {
		if model.IsDataURI(ref) {
			continue
		}
		if _, err := in.reg.uploader.DeleteImage(ctx, ref); err != nil {
			log.Warn(ctx, "deleting orphan image failed",
				log.ImageRef("ref", ref), log.Err("err", err),
			)
		}
	}
}
