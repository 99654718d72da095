// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/morganforge/medchat-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to pretty-printed JSON.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// jsonTranscript is the stable wire shape of an exported transcript.
type jsonTranscript struct {
	SessionID  string        `json:"session_id"`
	ExportedAt time.Time     `json:"exported_at"`
	Generator  string        `json:"generator"`
	Messages   []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID           int64                   `json:"id"`
	Role         string                  `json:"role"`
	Content      string                  `json:"content"`
	Timestamp    time.Time               `json:"timestamp"`
	IsError      bool                    `json:"is_error,omitempty"`
	Score        *float64                `json:"evaluation_score,omitempty"`
	ResponseTime float64                 `json:"response_time,omitempty"`
	QueryType    string                  `json:"query_type,omitempty"`
	IsMedical    bool                    `json:"is_medical"`
	Sources      []model.ContextDocument `json:"sources,omitempty"`
}

// Export converts a transcript to JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	out := jsonTranscript{
		SessionID:  t.SessionID,
		ExportedAt: t.ExportedAt,
		Generator:  "medchat-tui",
		Messages:   make([]jsonMessage, 0, len(t.Messages)),
	}

	for _, msg := range t.Messages {
		out.Messages = append(out.Messages, jsonMessage{
			ID:           msg.ID,
			Role:         string(msg.Role),
			Content:      msg.Content,
			Timestamp:    msg.CreatedAt,
			IsError:      msg.IsError,
			Score:        msg.Score,
			ResponseTime: msg.ResponseTime,
			QueryType:    msg.QueryType,
			IsMedical:    msg.IsMedical,
			Sources:      msg.Sources,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
