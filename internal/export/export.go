// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT TYPES
// =============================================================================

// Transcript is a snapshot of a session log prepared for export.
type Transcript struct {
	SessionID  string
	ExportedAt time.Time
	Messages   []model.ChatMessage
}

// NewTranscript snapshots the given log for export.
func NewTranscript(sessionID string, messages []model.ChatMessage) *Transcript {
	return &Transcript{
		SessionID:  sessionID,
		ExportedAt: time.Now(),
		Messages:   messages,
	}
}

// Exporter converts a transcript to a specific output format.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// ForFormat returns the exporter for a format name ("markdown" or "json").
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "markdown", "md":
		return NewMarkdownExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteTranscript exports the transcript into dir and returns the written
// path. The filename carries the session prefix and a timestamp so repeated
// exports never collide.
func WriteTranscript(t *Transcript, dir, format string) (string, error) {
	exporter, err := ForFormat(format)
	if err != nil {
		return "", err
	}

	data, err := exporter.Export(t)
	if err != nil {
		return "", err
	}

	prefix := t.SessionID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	name := fmt.Sprintf("medchat-%s-%s%s",
		prefix,
		t.ExportedAt.Format("20060102-150405"),
		exporter.FileExtension())

	path := filepath.Join(dir, name)
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

// DefaultDir returns the default export directory, the user's working
// directory.
func DefaultDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
