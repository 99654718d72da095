// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strings"
)

// MaxMessageLength is the longest input the backend accepts for a single
// message. Mirrors the service's request validation so over-length input is
// rejected before any network call.
const MaxMessageLength = 2000

// Validation errors. These are resolved entirely at the input boundary and
// never enter a session's message log.
var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message exceeds maximum length")
)

// ValidateInput checks a candidate message before submission.
// Whitespace-only input counts as empty. Length is measured in runes, the
// same unit the backend validates against.
func ValidateInput(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}
	if len([]rune(content)) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
