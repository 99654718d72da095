// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/morganforge/medchat-tui/internal/model"

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================
// Each message carries the session identifier it was produced for so the
// update loop can discard results that arrive after a session switch.

// SendResultMsg reports a completed send (success or failure; the store has
// already recorded either outcome).
type SendResultMsg struct {
	SessionID string
	Turn      model.ChatMessage
	Err       error
}

// HistoryLoadedMsg reports a completed session load.
type HistoryLoadedMsg struct {
	SessionID string
}

// SessionsRefreshedMsg reports a completed directory refresh.
type SessionsRefreshedMsg struct{}

// SessionDeletedMsg reports a completed session deletion.
type SessionDeletedMsg struct {
	SessionID string
	WasActive bool
	Deleted   bool
}

// ExportDoneMsg reports a completed transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
