// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
	"github.com/morganforge/medchat-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat turn as a styled bubble.
type MessageBubble struct {
	Message     model.ChatMessage
	Width       int
	ShowSources bool
	ShowScores  bool
	theme       *styles.Theme
}

// NewMessageBubble creates a bubble for the given turn.
func NewMessageBubble(msg model.ChatMessage, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:     msg,
		Width:       80,
		ShowSources: true,
		ShowScores:  true,
		theme:       theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsError {
		return b.renderErrorBubble()
	}
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	default:
		return b.renderAssistantBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned feel
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := maxInt(b.Width-12, 20)
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	header := b.theme.MessageMeta.Italic(true).Render("you " + b.renderTimestamp())

	leftMargin := maxInt(b.Width-contentWidth-4, 0)
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT BUBBLE - Teal tones, left-aligned, with reply metadata
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := maxInt(b.Width-12, 20)
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.AssistantBubble.Width(contentWidth).Render(wrapped)

	header := b.theme.MessageMeta.Italic(true).Render("assistant " + b.renderTimestamp())

	parts := []string{header, bubble}

	if meta := b.renderMeta(); meta != "" {
		parts = append(parts, meta)
	}
	if !b.Message.IsMedical {
		parts = append(parts, b.theme.NonMedicalNote.Render("general answer, outside the medical knowledge base"))
	}
	if b.ShowSources && b.Message.HasSources() {
		parts = append(parts, b.renderSources(maxContentWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderMeta renders the score and response time line under a reply.
func (b *MessageBubble) renderMeta() string {
	var parts []string
	if b.ShowScores && b.Message.Score != nil {
		parts = append(parts, "score "+util.FloatToString(*b.Message.Score))
	}
	if b.Message.ResponseTime > 0 {
		parts = append(parts, util.FloatToStringPrec(b.Message.ResponseTime, 1)+"s")
	}
	if b.Message.QueryType != "" {
		parts = append(parts, b.Message.QueryType)
	}
	if len(parts) == 0 {
		return ""
	}
	return b.theme.MessageMeta.Render(strings.Join(parts, " | "))
}

// renderSources renders the retrieved context snippets below a reply.
func (b *MessageBubble) renderSources(width int) string {
	var sb strings.Builder
	sb.WriteString(b.theme.SourceHeader.Render("sources"))
	for _, src := range b.Message.Sources {
		sb.WriteString("\n")
		line := src.Question
		if src.Category != "" {
			line += " (" + src.Category + ")"
		}
		sb.WriteString(util.TruncateWidth(line, width))
	}
	return b.theme.SourceBlock.Render(sb.String())
}

// ==========================================================================
// ERROR BUBBLE - Rose tones for failed turns
// ==========================================================================

func (b *MessageBubble) renderErrorBubble() string {
	maxContentWidth := maxInt(b.Width-12, 20)
	wrapped := wordWrap(b.Message.Content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.ErrorBubble.Width(contentWidth).Render(wrapped)
	header := b.theme.MessageMeta.Italic(true).Render("error " + b.renderTimestamp())
	hint := b.theme.MessageMeta.Render("press ctrl+r to retry")

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble, hint)
}

func (b *MessageBubble) renderTimestamp() string {
	if b.Message.CreatedAt.IsZero() {
		return ""
	}
	return b.Message.CreatedAt.Format("15:04")
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders the ordered session log as a column of bubbles.
type MessageList struct {
	messages    []model.ChatMessage
	width       int
	showSources bool
	showScores  bool
	theme       *styles.Theme
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		width:       80,
		showSources: true,
		showScores:  true,
		theme:       theme,
	}
}

// SetWidth sets the rendering width.
func (l *MessageList) SetWidth(width int) {
	l.width = width
}

// SetDisplayOptions controls source and score visibility.
func (l *MessageList) SetDisplayOptions(showSources, showScores bool) {
	l.showSources = showSources
	l.showScores = showScores
}

// SetMessages replaces the displayed log.
func (l *MessageList) SetMessages(messages []model.ChatMessage) {
	l.messages = messages
}

// View renders all messages in insertion order.
func (l *MessageList) View() string {
	if len(l.messages) == 0 {
		return l.theme.MessageMeta.Italic(true).Render("Ask a medical question to get started.")
	}

	var sb strings.Builder
	for i, msg := range l.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		bubble := NewMessageBubble(msg, l.theme)
		bubble.SetWidth(l.width)
		bubble.ShowSources = l.showSources
		bubble.ShowScores = l.showScores
		sb.WriteString(bubble.View())
	}
	return sb.String()
}
