// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/medchat-tui/internal/health"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
	"github.com/morganforge/medchat-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom line: connection badge, session info, and
// key hints.
type StatusBar struct {
	width         int
	state         health.State
	serverVersion string
	sessionTitle  string
	messageCount  int
	loading       bool
	replyTag      string
	theme         *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		width: 80,
		theme: theme,
	}
}

// SetWidth updates the rendering width.
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetConnection updates the connection badge.
func (sb *StatusBar) SetConnection(state health.State, serverVersion string) {
	sb.state = state
	sb.serverVersion = serverVersion
}

// SetSession updates the active session summary.
func (sb *StatusBar) SetSession(title string, messageCount int) {
	sb.sessionTitle = title
	sb.messageCount = messageCount
}

// SetLoading toggles the in-flight indicator.
func (sb *StatusBar) SetLoading(loading bool) {
	sb.loading = loading
}

// SetReplyTag shows the classification of the latest assistant turn
// (query type, or "general" for answers outside the medical knowledge base).
func (sb *StatusBar) SetReplyTag(tag string) {
	sb.replyTag = tag
}

// View renders the status bar.
func (sb *StatusBar) View() string {
	badge := sb.renderBadge()

	var info []string
	if sb.sessionTitle != "" {
		info = append(info, sb.sessionTitle)
	}
	info = append(info, countLabel(sb.messageCount))
	if sb.replyTag != "" {
		info = append(info, sb.replyTag)
	}
	if sb.loading {
		info = append(info, "waiting...")
	}

	left := badge + " " + strings.Join(info, " | ")

	hints := sb.theme.ShortcutKey.Render("ctrl+n") + sb.theme.ShortcutDesc.Render(" new ") +
		sb.theme.ShortcutKey.Render("ctrl+b") + sb.theme.ShortcutDesc.Render(" sessions ") +
		sb.theme.ShortcutKey.Render("ctrl+c") + sb.theme.ShortcutDesc.Render(" quit")

	gap := sb.width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}

	return sb.theme.StatusBar.Width(sb.width).Render(
		left + strings.Repeat(" ", gap) + hints,
	)
}

func (sb *StatusBar) renderBadge() string {
	label := sb.state.String()
	if sb.state == health.StateConnected && sb.serverVersion != "" {
		label += " v" + util.TruncateRunes(sb.serverVersion, 12)
	}

	switch sb.state {
	case health.StateConnected:
		return sb.theme.StatusConnected.Render(styles.StatusIndicators.Active + " " + label)
	case health.StateReconnecting:
		return sb.theme.StatusReconnecting.Render(styles.StatusIndicators.Pending + " " + label)
	default:
		return sb.theme.StatusDisconnected.Render(styles.StatusIndicators.Error + " " + label)
	}
}
