// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Notice is a dismissible user-facing notification. Destructive ones
// report a failure, while others report a success or a summary.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive,omitempty"`
}

// Success creates a non-destructive notice.
func Success(title, description string) Notice {
	return Notice{Title: title, Description: description}
}

// Failure creates a destructive notice.
func Failure(title, description string) Notice {
	return Notice{Title: title, Description: description, Destructive: true}
}
