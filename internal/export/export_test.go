// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/medchat-tui/internal/model"
)

func sampleTranscript() *Transcript {
	score := 0.91
	return &Transcript{
		SessionID:  "abcd1234-5678-90ab-cdef-000000000000",
		ExportedAt: time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC),
		Messages: []model.ChatMessage{
			{
				ID:        1,
				Role:      model.RoleUser,
				Content:   "What are the symptoms of hypertension?",
				CreatedAt: time.Date(2026, 8, 30, 13, 58, 0, 0, time.UTC),
			},
			{
				ID:           2,
				Role:         model.RoleAssistant,
				Content:      "Hypertension is often asymptomatic.",
				CreatedAt:    time.Date(2026, 8, 30, 13, 58, 2, 0, time.UTC),
				Score:        &score,
				ResponseTime: 1.8,
				IsMedical:    true,
				Sources: []model.ContextDocument{
					{Question: "What is hypertension?", Category: "cardiology", Relevance: 0.95},
				},
			},
			{
				ID:        3,
				Role:      model.RoleAssistant,
				Content:   "Request failed: medchat service is unreachable",
				CreatedAt: time.Date(2026, 8, 30, 13, 59, 0, 0, time.UTC),
				IsError:   true,
			},
		},
	}
}

func TestMarkdownExport(t *testing.T) {
	data, err := NewMarkdownExporter().Export(sampleTranscript())
	require.NoError(t, err)

	out := string(data)
	for _, want := range []string{
		"session: abcd1234",
		"[User]",
		"[Assistant]",
		"[Error]",
		"symptoms of hypertension",
		"Score: 0.91",
		"Response time: 1.8s",
		"cardiology",
		"relevance 0.95",
	} {
		assert.Contains(t, out, want)
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	data, err := NewJSONExporter().Export(sampleTranscript())
	require.NoError(t, err)

	var decoded struct {
		SessionID string `json:"session_id"`
		Generator string `json:"generator"`
		Messages  []struct {
			Role    string `json:"role"`
			IsError bool   `json:"is_error"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded), "output is not valid JSON")

	assert.Equal(t, "medchat-tui", decoded.Generator)
	require.Len(t, decoded.Messages, 3)
	assert.True(t, decoded.Messages[2].IsError, "error turn lost its is_error flag")
}

func TestExportEmptyTranscript(t *testing.T) {
	empty := &Transcript{SessionID: "s", ExportedAt: time.Now()}

	_, err := NewMarkdownExporter().Export(empty)
	assert.Error(t, err, "markdown export should refuse an empty transcript")

	_, err = NewJSONExporter().Export(empty)
	assert.Error(t, err, "json export should refuse an empty transcript")
}

func TestForFormat(t *testing.T) {
	_, err := ForFormat("markdown")
	assert.NoError(t, err)

	_, err = ForFormat("json")
	assert.NoError(t, err)

	_, err = ForFormat("pdf")
	assert.Error(t, err)
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTranscript(sampleTranscript(), dir, "markdown")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, dir), "path %q not under export dir", path)
	assert.Contains(t, path, "medchat-abcd1234-")
	assert.True(t, strings.HasSuffix(path, ".md"), "path %q missing markdown extension", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Medical Chat Transcript")
}
