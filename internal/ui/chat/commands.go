// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/medchat-tui/internal/export"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================
// Each command captures the session it was dispatched for. The stores drop
// stale completions themselves; the messages carry the identifier so the
// update loop can skip redundant view refreshes too.

func (m *Model) finishSendCmd(sid, text string) tea.Cmd {
	return func() tea.Msg {
		turn, err := m.store.FinishSend(context.Background(), sid, text)
		return SendResultMsg{SessionID: sid, Turn: turn, Err: err}
	}
}

func (m *Model) loadSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.LoadSession(context.Background(), sessionID); err != nil {
			return HistoryLoadedMsg{SessionID: m.store.SessionID()}
		}
		return HistoryLoadedMsg{SessionID: sessionID}
	}
}

func (m *Model) refreshSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		m.dir.Refresh(context.Background())
		return SessionsRefreshedMsg{}
	}
}

func (m *Model) deleteSessionCmd(sessionID string) tea.Cmd {
	wasActive := sessionID == m.store.SessionID()
	return func() tea.Msg {
		deleted := m.dir.Delete(context.Background(), sessionID)
		return SessionDeletedMsg{SessionID: sessionID, WasActive: wasActive, Deleted: deleted}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	transcript := export.NewTranscript(m.store.SessionID(), m.store.Messages())
	return func() tea.Msg {
		path, err := export.WriteTranscript(transcript, export.DefaultDir(), "markdown")
		return ExportDoneMsg{Path: path, Err: err}
	}
}
