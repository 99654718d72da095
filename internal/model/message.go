// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync/atomic"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// CONTEXT DOCUMENT TYPE
// =============================================================================

// ContextDocument is a retrieved knowledge-base entry attached to an
// assistant message. Documents are owned by the message that carries them
// and are never mutated after attachment.
type ContextDocument struct {
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Category  string  `json:"category,omitempty"`
	Relevance float64 `json:"relevance"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ChatMessage represents a single turn in a session log.
type ChatMessage struct {
	// Identity. Server-assigned for assistant turns that came from the
	// service; client-generated (see NextMessageID) for everything else.
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Content
	Content string `json:"content"`

	// IsError marks an assistant turn that communicates a failed request
	// rather than a generated answer. Retry removes exactly these turns.
	IsError bool `json:"is_error,omitempty"`

	// Assistant metadata from the service
	Score        *float64          `json:"score,omitempty"` // evaluation score, 0..1
	Sources      []ContextDocument `json:"sources,omitempty"`
	ResponseTime float64           `json:"response_time,omitempty"` // seconds
	IsMedical    bool              `json:"is_medical,omitempty"`
	QueryType    string            `json:"query_type,omitempty"`
}

// NewUserMessage creates a user turn with a client-generated ID.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		ID:        NextMessageID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewErrorMessage creates an assistant turn that records a failed request.
func NewErrorMessage(detail string) ChatMessage {
	return ChatMessage{
		ID:        NextMessageID(),
		Role:      RoleAssistant,
		Content:   "Request failed: " + detail,
		CreatedAt: time.Now(),
		IsError:   true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m ChatMessage) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// HasSources returns true if the message carries retrieved context.
func (m ChatMessage) HasSources() bool {
	return len(m.Sources) > 0
}

// =============================================================================
// MESSAGE ID GENERATION
// =============================================================================

// messageCounter disambiguates IDs generated within the same millisecond.
var messageCounter atomic.Int64

// NextMessageID returns a client-side message identifier: unix milliseconds
// shifted left with an in-process counter folded into the low bits.
// Uniqueness is best-effort (the server's IDs are authoritative); within a
// single process the sequence is strictly increasing.
func NextMessageID() int64 {
	seq := messageCounter.Add(1)
	return time.Now().UnixMilli()<<10 | (seq & 0x3ff)
}
