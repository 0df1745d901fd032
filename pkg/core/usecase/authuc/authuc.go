// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authuc contains the admin authentication use case. There is
// a single admin account whose username and SCRAM password hash are
// taken from the configuration file, so no plaintext password needs to
// be stored anywhere. A successful login only opens the admin console
// gate; it does not issue any token.
package authuc

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/scram"
)

// ErrBadCredentials indicates that the username or password is wrong.
// It does not tell which one.
var ErrBadCredentials = errors.New("invalid credentials")

// UseCase represents the admin authentication use case.
type UseCase struct {
	verifier scram.Verifier
	username string
	passHash string
}

// New instantiates an authentication use case for the username admin
// whose password must match the passHash hash string, as checked by
// the v verifier.
func New(v scram.Verifier, username, passHash string) (*UseCase, error) {
	if username == "" {
		return nil, errors.New("admin username is empty")
	}
	if passHash == "" {
		return nil, errors.New("admin password hash is empty")
	}
	if _, err := v.Verify("", passHash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &UseCase{verifier: v, username: username, passHash: passHash}, nil
}

// Login checks the given credentials. It returns an Authentication
// error wrapping ErrBadCredentials if they do not match the admin
// account.
func (auth *UseCase) Login(ctx context.Context, username, pass string) error {
	userOK := subtle.ConstantTimeCompare(
		[]byte(username), []byte(auth.username),
	) == 1
	passOK, err := auth.verifier.Verify(pass, auth.passHash)
	if err != nil {
		log.Error(ctx, "verifying admin password failed", log.Err("err", err))
		return fmt.Errorf("verifying password: %w", err)
	}
	if !userOK || !passOK {
		log.Warn(ctx, "admin login failed", slog.String("username", username))
		return cerr.Authentication(ErrBadCredentials)
	}
	log.Info(ctx, "admin logged in", slog.String("username", username))
	return nil
}
