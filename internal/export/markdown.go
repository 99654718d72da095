// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("session: %s\n", t.SessionID))
	sb.WriteString(fmt.Sprintf("messages: %d\n", len(t.Messages)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", t.ExportedAt.Format(time.RFC3339)))
	sb.WriteString("generator: medchat-tui\n")
	sb.WriteString("---\n\n")

	sb.WriteString("# Medical Chat Transcript\n\n")

	for i, msg := range t.Messages {
		sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
			e.formatRoleLabel(msg),
			msg.CreatedAt.Format("2006-01-02 15:04:05")))

		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if meta := e.formatReplyMeta(msg); meta != "" {
			sb.WriteString(meta)
			sb.WriteString("\n\n")
		}

		if msg.HasSources() {
			sb.WriteString("**Sources**:\n\n")
			for _, src := range msg.Sources {
				line := fmt.Sprintf("- %s", src.Question)
				if src.Category != "" {
					line += fmt.Sprintf(" (%s)", src.Category)
				}
				if src.Relevance > 0 {
					line += fmt.Sprintf(" - relevance %s", util.FloatToString(src.Relevance))
				}
				sb.WriteString(line)
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from medchat TUI on %s*\n",
		t.ExportedAt.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// formatRoleLabel returns a formatted label for the message.
func (e *MarkdownExporter) formatRoleLabel(msg model.ChatMessage) string {
	if msg.IsError {
		return "[Error]"
	}
	switch msg.Role {
	case model.RoleUser:
		return "[User]"
	case model.RoleAssistant:
		return "[Assistant]"
	default:
		return string(msg.Role)
	}
}

// formatReplyMeta formats score and timing for assistant replies.
func (e *MarkdownExporter) formatReplyMeta(msg model.ChatMessage) string {
	if msg.Role != model.RoleAssistant || msg.IsError {
		return ""
	}

	var parts []string
	if msg.Score != nil {
		parts = append(parts, fmt.Sprintf("Score: %s", util.FloatToString(*msg.Score)))
	}
	if msg.ResponseTime > 0 {
		parts = append(parts, fmt.Sprintf("Response time: %ss", util.FloatToStringPrec(msg.ResponseTime, 1)))
	}
	if msg.QueryType != "" {
		parts = append(parts, fmt.Sprintf("Type: %s", msg.QueryType))
	}
	if !msg.IsMedical {
		parts = append(parts, "Outside medical knowledge base")
	}

	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("<sub>%s</sub>", strings.Join(parts, " | "))
}
