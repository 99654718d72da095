// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/morganforge/medchat-tui/internal/health"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
)

func TestStatusBarShowsConnectionState(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme())
	sb.SetWidth(100)

	tests := []struct {
		state health.State
		want  string
	}{
		{health.StateConnected, "connected"},
		{health.StateDisconnected, "disconnected"},
		{health.StateReconnecting, "reconnecting"},
	}

	for _, tt := range tests {
		sb.SetConnection(tt.state, "")
		if view := sb.View(); !strings.Contains(view, tt.want) {
			t.Errorf("view for %v does not contain %q", tt.state, tt.want)
		}
	}
}

func TestStatusBarShowsServerVersionWhenConnected(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme())
	sb.SetWidth(100)

	sb.SetConnection(health.StateConnected, "2.1.0")
	if view := sb.View(); !strings.Contains(view, "v2.1.0") {
		t.Error("connected view missing server version")
	}

	sb.SetConnection(health.StateDisconnected, "2.1.0")
	if view := sb.View(); strings.Contains(view, "v2.1.0") {
		t.Error("disconnected view shows server version")
	}
}

func TestStatusBarShowsSessionAndLoading(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme())
	sb.SetWidth(100)
	sb.SetSession("abcd1234", 6)
	sb.SetLoading(true)

	view := sb.View()
	if !strings.Contains(view, "abcd1234") {
		t.Error("view missing session title")
	}
	if !strings.Contains(view, "6 msgs") {
		t.Error("view missing message count")
	}
	if !strings.Contains(view, "waiting") {
		t.Error("view missing loading indicator")
	}
}
