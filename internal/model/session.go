// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSION SUMMARY TYPE
// =============================================================================

// SessionSummary is a read-only projection of a session as reported by the
// directory endpoint. It is not causally linked to the active session except
// by a matching SessionID; IsActive reflects the server's view and may be
// stale between refreshes.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
	IsActive     bool      `json:"is_active"`
}

// Title returns a short display label for the session.
func (s SessionSummary) Title() string {
	if len(s.SessionID) >= 8 {
		return s.SessionID[:8]
	}
	return s.SessionID
}

// =============================================================================
// SESSION ID GENERATION
// =============================================================================

// NewSessionID returns a fresh opaque session identifier. The backend also
// accepts server-generated IDs; both sides use uuid4 so identifiers from
// either origin are interchangeable.
func NewSessionID() string {
	return uuid.NewString()
}
