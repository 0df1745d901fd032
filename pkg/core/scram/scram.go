// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interfaces for Salted Challenge
// Response Authentication Mechanism (SCRAM) password hashes. For the
// corresponding implementation, check the adapter layer.
//
// The admin console password is never kept as plaintext. Instead, its
// SCRAM hash string is configured and each login attempt is verified
// by recomputing the hash of the given password with the same salt and
// iterations count. The hash-password command produces such a string.
package scram

// Hasher computes SCRAM hash strings for a fixed underlying hash
// function (e.g., SHA256).
type Hasher interface {
	// Hash computes a hash string following the standard scram hash
	// format, so it can be stored and used later for authentication.
	//
	// The pass argument must be non-empty. If salt is empty, a random
	// salt is generated. The iters must be at least equal to 4096.
	// The returned string conforms to the following format.
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	Hash(pass, salt string, iters int) (string, error)
}

// Verifier checks a plaintext password against a hash string which
// was produced by a Hasher.
type Verifier interface {
	// Verify reports if pass matches the hash string. An error is
	// returned when hash may not be parsed or belongs to another
	// mechanism, so a misconfiguration is not taken as a wrong
	// password silently.
	Verify(pass, hash string) (bool, error)
}

// HashVerifier is implemented by mechanisms which both hash and verify.
type HashVerifier interface {
	Hasher
	Verifier
}
