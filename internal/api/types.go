// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"strings"
	"time"

	"github.com/morganforge/medchat-tui/internal/model"
)

// =============================================================================
// TIMESTAMP TYPE
// =============================================================================

// Timestamp wraps time.Time to accept both RFC 3339 timestamps and the
// zone-less ISO 8601 form the backend emits for history entries
// ("2025-06-01T10:30:00.123456"). Zone-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

// timestampLayouts lists accepted formats, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SendMessageRequest is the body for POST /chat/message.
type SendMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SendMessageResponse is the reply to POST /chat/message.
type SendMessageResponse struct {
	MessageID        int64                   `json:"message_id"`
	SessionID        string                  `json:"session_id"`
	Response         string                  `json:"response"`
	EvaluationScore  *float64                `json:"evaluation_score,omitempty"`
	RetrievedContext []model.ContextDocument `json:"retrieved_context"`
	ResponseTime     float64                 `json:"response_time"`
	Timestamp        Timestamp               `json:"timestamp"`
	IsMedical        bool                    `json:"is_medical"`
	QueryType        string                  `json:"query_type,omitempty"`
}

// HistoryMessage is a single entry in a history reply.
type HistoryMessage struct {
	ID               int64                   `json:"id"`
	MessageType      string                  `json:"message_type"` // "user" or "assistant"
	Content          string                  `json:"content"`
	Timestamp        Timestamp               `json:"timestamp"`
	EvaluationScore  *float64                `json:"evaluation_score,omitempty"`
	RetrievedContext []model.ContextDocument `json:"retrieved_context"`
}

// HistoryResponse is the reply to GET /chat/history/{session_id}.
type HistoryResponse struct {
	SessionID  string           `json:"session_id"`
	Messages   []HistoryMessage `json:"messages"`
	TotalCount int              `json:"total_count"`
	HasMore    bool             `json:"has_more"`
}

// sessionEntry is the wire form of a directory listing entry.
type sessionEntry struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    Timestamp `json:"created_at"`
	MessageCount int       `json:"message_count"`
	IsActive     bool      `json:"is_active"`
}

// HealthResponse is the reply to GET /health/.
type HealthResponse struct {
	Status     string         `json:"status"`
	Timestamp  Timestamp      `json:"timestamp"`
	Version    string         `json:"version"`
	Services   map[string]any `json:"services"`
	SystemInfo map[string]any `json:"system_info"`
}

// IsHealthy reports whether the service considers itself fully operational.
func (h *HealthResponse) IsHealthy() bool {
	return h.Status == "healthy"
}

// serviceError is the error body the backend attaches to non-2xx replies.
type serviceError struct {
	Detail string `json:"detail"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// ToChatMessage converts a history entry into the client's message type.
func (h HistoryMessage) ToChatMessage() model.ChatMessage {
	role := model.RoleAssistant
	if h.MessageType == string(model.RoleUser) {
		role = model.RoleUser
	}
	return model.ChatMessage{
		ID:        h.ID,
		Role:      role,
		Content:   h.Content,
		CreatedAt: h.Timestamp.Time,
		Score:     h.EvaluationScore,
		Sources:   h.RetrievedContext,
	}
}

// ToChatMessage converts a send reply into the assistant turn to append.
// The server-assigned ID and timestamp take precedence over anything
// generated client-side.
func (r *SendMessageResponse) ToChatMessage() model.ChatMessage {
	return model.ChatMessage{
		ID:           r.MessageID,
		Role:         model.RoleAssistant,
		Content:      r.Response,
		CreatedAt:    r.Timestamp.Time,
		Score:        r.EvaluationScore,
		Sources:      r.RetrievedContext,
		ResponseTime: r.ResponseTime,
		IsMedical:    r.IsMedical,
		QueryType:    r.QueryType,
	}
}

// toSummary converts a wire entry to the model projection.
func (s sessionEntry) toSummary() model.SessionSummary {
	return model.SessionSummary{
		SessionID:    s.SessionID,
		CreatedAt:    s.CreatedAt.Time,
		MessageCount: s.MessageCount,
		IsActive:     s.IsActive,
	}
}
