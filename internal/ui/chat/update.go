// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/medchat-tui/internal/config"
	"github.com/morganforge/medchat-tui/internal/health"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update routes incoming messages to the stores and view components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case health.TickMsg:
		return m, m.monitor.HandleTick(msg)

	case health.ProbeResultMsg:
		m.statusbar.SetConnection(msg.State, m.monitor.ServerVersion())
		if msg.Recovered {
			return m, m.refreshSessionsCmd()
		}
		return m, nil

	case SendResultMsg:
		return m.handleSendResult(msg)

	case HistoryLoadedMsg:
		m.syncFromStores()
		m.viewport.ScrollToBottom()
		return m, nil

	case SessionsRefreshedMsg:
		m.sidebar.SetSessions(m.dir.Sessions())
		return m, nil

	case SessionDeletedMsg:
		return m.handleSessionDeleted(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.statusNotice = "export failed: " + msg.Err.Error()
		} else {
			m.statusNotice = "transcript saved to " + msg.Path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize recomputes the layout for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	// Header, banner, input box, and status bar rows come off the top of
	// the chat pane.
	chatHeight := maxOf(height-headerHeight-bannerHeight-inputHeight-statusHeight, 3)

	m.sidebar.SetSize(sidebarWidth, chatHeight)
	m.viewport.SetSize(maxOf(width-m.sidebar.Width()-2, 20), chatHeight)
	m.statusbar.SetWidth(width)
	m.input.Width = maxOf(width-10, 20)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings run regardless of focus.
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.monitor.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleSidebar):
		open := m.sidebar.Toggle()
		if !open && m.focus == focusSidebar {
			m.focus = focusInput
			m.input.Focus()
		}
		m.cfg.UI.SidebarOpen = open
		if err := config.Save(m.cfg); err != nil {
			m.log.Warnf("could not persist sidebar state: %v", err)
		}
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.store.StartNewChat()
		m.statusNotice = ""
		m.inputError = ""
		m.syncFromStores()
		return m, nil

	case key.Matches(msg, m.keys.ClearChat):
		m.store.ClearChat()
		m.syncFromStores()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m.handleRetry()

	case key.Matches(msg, m.keys.Export):
		if m.store.MessageCount() == 0 {
			m.statusNotice = "nothing to export"
			return m, nil
		}
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.Reconnect):
		m.monitor.Reconnect()
		m.statusbar.SetConnection(m.monitor.State(), m.monitor.ServerVersion())
		return m, m.monitor.FirstProbeCmd()
	}

	if msg.String() == "esc" {
		if m.focus == focusSidebar {
			m.focus = focusInput
			m.input.Focus()
			return m, nil
		}
		m.quitting = true
		m.monitor.Stop()
		return m, tea.Quit
	}

	if msg.String() == "tab" && m.sidebar.IsOpen() {
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keys.PageUp),
		key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Home),
		key.Matches(msg, m.keys.End):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.CursorUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebar.CursorDown()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		selected, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		if selected.SessionID == m.store.SessionID() {
			m.focus = focusInput
			m.input.Focus()
			return m, nil
		}
		return m, m.loadSessionCmd(selected.SessionID)

	case key.Matches(msg, m.keys.Delete):
		selected, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteSessionCmd(selected.SessionID)
	}

	return m, nil
}

// =============================================================================
// ACTION HANDLERS
// =============================================================================

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	sid, err := m.store.BeginSend(text)
	if err != nil {
		m.inputError = err.Error()
		return m, nil
	}

	m.input.Reset()
	m.inputError = ""
	m.statusNotice = ""
	m.syncFromStores()
	m.viewport.ScrollToBottom()
	return m, tea.Batch(m.finishSendCmd(sid, text), m.spinner.Tick)
}

func (m *Model) handleRetry() (tea.Model, tea.Cmd) {
	sid, text, err := m.store.BeginRetry()
	if err != nil {
		m.statusNotice = err.Error()
		return m, nil
	}

	m.statusNotice = ""
	m.syncFromStores()
	m.viewport.ScrollToBottom()
	return m, tea.Batch(m.finishSendCmd(sid, text), m.spinner.Tick)
}

func (m *Model) handleSendResult(msg SendResultMsg) (tea.Model, tea.Cmd) {
	if msg.SessionID != m.store.SessionID() {
		// The reply raced a session switch; the store already dropped it.
		return m, nil
	}

	m.syncFromStores()

	// Every completed turn changes the server-side message count, so the
	// directory is refreshed to keep the sidebar current.
	if !msg.Turn.IsError {
		return m, m.refreshSessionsCmd()
	}
	return m, nil
}

func (m *Model) handleSessionDeleted(msg SessionDeletedMsg) (tea.Model, tea.Cmd) {
	if !msg.Deleted {
		m.statusNotice = "delete failed: " + m.dir.LastError()
		return m, nil
	}

	if msg.WasActive {
		m.store.StartNewChat()
	}
	m.statusNotice = "deleted session " + sessionTitle(msg.SessionID)
	m.syncFromStores()
	return m, nil
}

// Layout constants, in rows except for the sidebar.
const (
	headerHeight = 2
	bannerHeight = 1
	inputHeight  = 3
	statusHeight = 1
	sidebarWidth = 28
)

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
