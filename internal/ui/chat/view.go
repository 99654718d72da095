// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/util"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the full interface.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	chat := m.viewport.View()
	if side := m.sidebar.View(); side != "" {
		chat = lipgloss.JoinHorizontal(lipgloss.Top, side, chat)
	}
	b.WriteString(chat)
	b.WriteString("\n")

	b.WriteString(m.renderBanner())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.statusbar.View())

	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("MedChat")
	subtitle := m.theme.HeaderSubtitle.Render("medical question answering")
	return m.theme.Header.Width(m.width).Render(title + "  " + subtitle)
}

// renderBanner shows the most urgent single line: input validation error,
// recorded remote error, transient notice, or the thinking indicator.
func (m *Model) renderBanner() string {
	switch {
	case m.inputError != "":
		return m.theme.ErrorBanner.Render(util.TruncateWidth(m.inputError, m.width-2))
	case m.store.LastError() != "":
		return m.theme.ErrorBanner.Render(util.TruncateWidth(m.store.LastError(), m.width-2))
	case m.store.IsLoading():
		return m.spinner.View() + m.theme.ThinkingText.Render(" thinking...")
	case m.statusNotice != "":
		return m.theme.ThinkingText.Render(util.TruncateWidth(m.statusNotice, m.width-2))
	default:
		return ""
	}
}

func (m *Model) renderInput() string {
	count := len([]rune(m.input.Value()))
	counter := fmt.Sprintf("%d/%d", count, model.MaxMessageLength)

	style := m.theme.CharCount
	switch {
	case count >= model.MaxMessageLength:
		style = m.theme.CharCountDanger
	case count >= model.MaxMessageLength-200:
		style = m.theme.CharCountWarning
	}

	line := m.input.View()
	gap := m.width - lipgloss.Width(line) - lipgloss.Width(counter) - 6
	if gap < 1 {
		gap = 1
	}

	return m.theme.InputContainer.Width(m.width - 2).Render(
		line + strings.Repeat(" ", gap) + style.Render(counter),
	)
}
