// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which instantiates
// all other use cases using a Builder (the configuration struct) and
// provides them to the resources packages.
package appuc

import (
	"fmt"

	"github.com/momeni/furucamera/pkg/core/repo"
	"github.com/momeni/furucamera/pkg/core/scram"
	"github.com/momeni/furucamera/pkg/core/usecase/authuc"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

// Deps lists the adapter layer implementations which are required by
// the use cases. The Fallback and Observer fields are optional.
type Deps struct {
	Pool     repo.Pool
	Listings repo.Listings
	Images   repo.ImageStore
	Fallback repo.FallbackStore
	Verifier scram.Verifier
	Observer intakeuc.Observer
}

// UseCase represents an application use case. It holds the use case
// objects which are built once, when the application starts.
type UseCase struct {
	listingsUseCase *listingsuc.UseCase
	intakeUseCase   *intakeuc.Registry
	authUseCase     *authuc.UseCase
}

// New instantiates an application use case object, asking b to build
// all supported use cases using d dependencies.
func New(b Builder, d Deps) (*UseCase, error) {
	luc, err := b.NewListingsUseCase(d.Pool, d.Listings, d.Images, d.Fallback)
	if err != nil {
		return nil, fmt.Errorf("creating listings use case: %w", err)
	}
	iuc, err := b.NewIntakeUseCase(luc, d.Observer)
	if err != nil {
		return nil, fmt.Errorf("creating intake use case: %w", err)
	}
	auc, err := b.NewAuthUseCase(d.Verifier)
	if err != nil {
		return nil, fmt.Errorf("creating auth use case: %w", err)
	}
	return &UseCase{
		listingsUseCase: luc,
		intakeUseCase:   iuc,
		authUseCase:     auc,
	}, nil
}

// ListingsUseCase returns the listings use case object.
func (app *UseCase) ListingsUseCase() *listingsuc.UseCase {
	return app.listingsUseCase
}

// IntakeUseCase returns the image intake drafts registry.
func (app *UseCase) IntakeUseCase() *intakeuc.Registry {
	return app.intakeUseCase
}

// AuthUseCase returns the admin authentication use case object.
func (app *UseCase) AuthUseCase() *authuc.UseCase {
	return app.authUseCase
}
