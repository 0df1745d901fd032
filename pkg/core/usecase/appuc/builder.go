// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/furucamera/pkg/core/repo"
	"github.com/momeni/furucamera/pkg/core/scram"
	"github.com/momeni/furucamera/pkg/core/usecase/authuc"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which can be instantiated by a
// configuration struct have one NewX method here which takes their
// repository packages dependencies and applies the configured settings
// as use case options. The configuration struct implements it.
type Builder interface {
	// NewListingsUseCase creates a listingsuc UseCase object having
	// the provided database connection pool, listings repository,
	// image object store, and optional fallback store (fb may be nil).
	NewListingsUseCase(
		p repo.Pool, l repo.Listings, s repo.ImageStore,
		fb repo.FallbackStore,
	) (*listingsuc.UseCase, error)

	// NewIntakeUseCase creates an intake drafts registry which uploads
	// the accepted files using u. The o observer may be nil.
	NewIntakeUseCase(
		u intakeuc.Uploader, o intakeuc.Observer,
	) (*intakeuc.Registry, error)

	// NewAuthUseCase creates an admin authentication use case which
	// checks the configured password hash using v.
	NewAuthUseCase(v scram.Verifier) (*authuc.UseCase, error)
}
