// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
	"github.com/morganforge/medchat-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR COMPONENT
// =============================================================================

// Sidebar renders the session directory and tracks the cursor within it.
type Sidebar struct {
	sessions []model.SessionSummary
	cursor   int
	width    int
	height   int
	open     bool

	// activeID marks the session currently loaded in the chat pane.
	activeID string

	theme *styles.Theme
}

// NewSidebar creates a sidebar with the given initial visibility.
func NewSidebar(theme *styles.Theme, open bool) *Sidebar {
	return &Sidebar{
		width:  28,
		height: 20,
		open:   open,
		theme:  theme,
	}
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetSessions replaces the displayed directory. The cursor is clamped so it
// always points at a real entry.
func (s *Sidebar) SetSessions(sessions []model.SessionSummary) {
	s.sessions = sessions
	if s.cursor >= len(sessions) {
		s.cursor = maxInt(len(sessions)-1, 0)
	}
}

// SetActive marks the session loaded in the chat pane.
func (s *Sidebar) SetActive(sessionID string) {
	s.activeID = sessionID
}

// IsOpen reports sidebar visibility.
func (s *Sidebar) IsOpen() bool {
	return s.open
}

// Toggle flips sidebar visibility and returns the new state.
func (s *Sidebar) Toggle() bool {
	s.open = !s.open
	return s.open
}

// Width returns the rendered width, zero when closed.
func (s *Sidebar) Width() int {
	if !s.open {
		return 0
	}
	return s.width
}

// CursorUp moves the selection up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the selection down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.sessions)-1 {
		s.cursor++
	}
}

// Selected returns the session under the cursor, if any.
func (s *Sidebar) Selected() (model.SessionSummary, bool) {
	if len(s.sessions) == 0 {
		return model.SessionSummary{}, false
	}
	return s.sessions[s.cursor], true
}

// View renders the sidebar, or "" when closed.
func (s *Sidebar) View() string {
	if !s.open {
		return ""
	}

	innerWidth := maxInt(s.width-4, 10)

	var sb strings.Builder
	sb.WriteString(s.theme.SidebarTitle.Render("Sessions"))
	sb.WriteString("\n")

	if len(s.sessions) == 0 {
		sb.WriteString(s.theme.SessionMeta.Render("no stored sessions"))
	}

	visible := maxInt(s.height-3, 1)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := minInt(start+visible, len(s.sessions))

	for i := start; i < end; i++ {
		sess := s.sessions[i]
		line := util.TruncateWidth(sess.Title(), innerWidth-8)
		meta := " " + util.TruncateWidth(countLabel(sess.MessageCount), 7)

		style := s.theme.SessionItem
		switch {
		case i == s.cursor:
			style = s.theme.SessionItemSelected
		case sess.SessionID == s.activeID:
			style = s.theme.SessionItemActive
		}

		sb.WriteString("\n")
		sb.WriteString(style.Render(line))
		sb.WriteString(s.theme.SessionMeta.Render(meta))
	}

	return s.theme.Sidebar.Width(s.width - 2).Height(s.height).Render(sb.String())
}

func countLabel(n int) string {
	if n == 1 {
		return "1 msg"
	}
	return util.FloatToStringPrec(float64(n), 0) + " msgs"
}
