// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"testing"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
)

func makeConversation(turns int) []model.ChatMessage {
	var msgs []model.ChatMessage
	for i := 0; i < turns; i++ {
		msgs = append(msgs, model.NewUserMessage(fmt.Sprintf("question number %d", i)))
		msgs = append(msgs, model.ChatMessage{
			ID:      int64(i),
			Role:    model.RoleAssistant,
			Content: fmt.Sprintf("answer number %d with a reasonably long body of text", i),
		})
	}
	return msgs
}

func newTestViewport(t *testing.T) *ChatViewport {
	t.Helper()
	cv := NewChatViewport(styles.NewTheme())
	cv.SetSize(80, 10)
	return cv
}

func TestGrowthFollowsWhenAtBottom(t *testing.T) {
	cv := newTestViewport(t)

	cv.SetMessages(makeConversation(10))
	if !cv.AtBottom() {
		t.Fatal("viewport not at bottom after initial content")
	}

	cv.SetMessages(makeConversation(12))
	if !cv.AtBottom() {
		t.Error("viewport did not follow growth while at bottom")
	}
}

func TestGrowthPreservesPositionWhenScrolledUp(t *testing.T) {
	cv := newTestViewport(t)
	cv.SetMessages(makeConversation(10))

	cv.ScrollUp(20)
	distance := cv.DistanceFromBottom()
	if distance <= followThresholdLines {
		t.Fatalf("setup: distance %d not beyond threshold", distance)
	}

	cv.SetMessages(makeConversation(12))

	if cv.AtBottom() {
		t.Error("viewport jumped to bottom while reader was in history")
	}
	if cv.DistanceFromBottom() <= distance {
		t.Errorf("distance = %d after growth, want > %d (offset preserved, content below grew)",
			cv.DistanceFromBottom(), distance)
	}
}

func TestGrowthFollowsWithinThreshold(t *testing.T) {
	cv := newTestViewport(t)
	cv.SetMessages(makeConversation(10))

	// Just barely above the bottom, still inside the follow band.
	cv.ScrollUp(followThresholdLines)
	if cv.DistanceFromBottom() != followThresholdLines {
		t.Fatalf("setup: distance = %d, want %d", cv.DistanceFromBottom(), followThresholdLines)
	}

	cv.SetMessages(makeConversation(12))
	if !cv.AtBottom() {
		t.Error("viewport did not follow growth from within the threshold band")
	}
}

func TestFollowDecisionIsPerGrowthEvent(t *testing.T) {
	cv := newTestViewport(t)
	cv.SetMessages(makeConversation(10))

	// Reader scrolls away: growth must not follow.
	cv.ScrollUp(20)
	cv.SetMessages(makeConversation(11))
	if cv.AtBottom() {
		t.Fatal("growth followed while reader was in history")
	}

	// Reader returns to the bottom: the next growth follows again without
	// any explicit re-enable step.
	cv.ScrollToBottom()
	cv.SetMessages(makeConversation(12))
	if !cv.AtBottom() {
		t.Error("growth did not follow after reader returned to bottom")
	}
}

func TestScrollBounds(t *testing.T) {
	cv := newTestViewport(t)
	cv.SetMessages(makeConversation(5))

	cv.ScrollToTop()
	if !cv.AtTop() {
		t.Error("not at top after ScrollToTop")
	}
	cv.ScrollUp(100)
	if !cv.AtTop() {
		t.Error("scrolled past top")
	}

	cv.ScrollDown(100000)
	if !cv.AtBottom() {
		t.Error("not at bottom after large scroll down")
	}
}

func TestResizeKeepsBottomReaderAtBottom(t *testing.T) {
	cv := newTestViewport(t)
	cv.SetMessages(makeConversation(10))
	if !cv.AtBottom() {
		t.Fatal("setup: not at bottom")
	}

	cv.SetSize(60, 8)
	if !cv.AtBottom() {
		t.Error("resize moved a bottom reader away from the bottom")
	}
}
