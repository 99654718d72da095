// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
)

// followThresholdLines is how close to the bottom (in lines) the reader must
// be for new content to pull the view down with it. Readers further up are
// assumed to be reading history and keep their position.
const followThresholdLines = 3

// =============================================================================
// CHAT VIEWPORT COMPONENT - Scrollable chat area with follow-on-growth
// =============================================================================

// ChatViewport is the scrollable chat area.
//
// The follow decision is made fresh on every content growth: proximity to
// the bottom is measured before the re-render, and only a reader already
// near the bottom is carried down. There is no sticky follow flag, so
// scrolling up never needs to be explicitly undone.
type ChatViewport struct {
	viewport    viewport.Model
	width       int
	height      int
	ready       bool
	theme       *styles.Theme
	messageList *MessageList
}

// NewChatViewport creates a new ChatViewport.
func NewChatViewport(theme *styles.Theme) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return &ChatViewport{
		viewport:    vp,
		width:       80,
		height:      20,
		theme:       theme,
		messageList: NewMessageList(theme),
	}
}

// SetSize updates the viewport dimensions.
func (cv *ChatViewport) SetSize(width, height int) {
	wasNearBottom := cv.nearBottom()
	cv.width = width
	cv.height = height
	cv.viewport.Width = width
	cv.viewport.Height = height
	cv.messageList.SetWidth(width - 4)
	cv.ready = true

	cv.refreshContent()
	if wasNearBottom {
		cv.viewport.GotoBottom()
	}
}

// SetDisplayOptions controls source and score visibility in the list.
func (cv *ChatViewport) SetDisplayOptions(showSources, showScores bool) {
	cv.messageList.SetDisplayOptions(showSources, showScores)
}

// SetMessages replaces the displayed log. Proximity to the bottom is
// captured before the re-render so content growth cannot invalidate the
// measurement.
func (cv *ChatViewport) SetMessages(messages []model.ChatMessage) {
	wasNearBottom := cv.nearBottom()
	cv.messageList.SetMessages(messages)
	cv.refreshContent()

	if wasNearBottom {
		cv.viewport.GotoBottom()
	}
}

// refreshContent re-renders the message list into the viewport.
func (cv *ChatViewport) refreshContent() {
	cv.viewport.SetContent(cv.messageList.View())
}

// nearBottom reports whether the reader is within the follow threshold of
// the bottom.
func (cv *ChatViewport) nearBottom() bool {
	return cv.DistanceFromBottom() <= followThresholdLines
}

// DistanceFromBottom returns how many lines above the bottom the view sits.
func (cv *ChatViewport) DistanceFromBottom() int {
	maxOffset := maxInt(cv.viewport.TotalLineCount()-cv.viewport.Height, 0)
	return maxInt(maxOffset-cv.viewport.YOffset, 0)
}

// AtTop returns true if the viewport is at the top.
func (cv *ChatViewport) AtTop() bool {
	return cv.viewport.AtTop()
}

// AtBottom returns true if the viewport is at the bottom.
func (cv *ChatViewport) AtBottom() bool {
	return cv.DistanceFromBottom() == 0
}

// ScrollUp scrolls up by the specified number of lines.
func (cv *ChatViewport) ScrollUp(lines int) {
	cv.viewport.SetYOffset(maxInt(cv.viewport.YOffset-lines, 0))
}

// ScrollDown scrolls down by the specified number of lines.
func (cv *ChatViewport) ScrollDown(lines int) {
	cv.viewport.SetYOffset(cv.viewport.YOffset + lines)
}

// PageUp scrolls up by one page.
func (cv *ChatViewport) PageUp() {
	cv.ScrollUp(cv.height)
}

// PageDown scrolls down by one page.
func (cv *ChatViewport) PageDown() {
	cv.ScrollDown(cv.height)
}

// ScrollToTop jumps to the top of the log.
func (cv *ChatViewport) ScrollToTop() {
	cv.viewport.GotoTop()
}

// ScrollToBottom jumps to the bottom of the log.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
}

// ScrollPercent returns the scroll position as a fraction.
func (cv *ChatViewport) ScrollPercent() float64 {
	return cv.viewport.ScrollPercent()
}

// Update handles scroll keys and mouse wheel events.
func (cv *ChatViewport) Update(msg tea.Msg) (*ChatViewport, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			cv.ScrollUp(1)
			return cv, nil
		case "down":
			cv.ScrollDown(1)
			return cv, nil
		case "pgup":
			cv.PageUp()
			return cv, nil
		case "pgdn", "pgdown":
			cv.PageDown()
			return cv, nil
		case "home":
			cv.ScrollToTop()
			return cv, nil
		case "end":
			cv.ScrollToBottom()
			return cv, nil
		}

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			cv.ScrollUp(3)
			return cv, nil
		case tea.MouseWheelDown:
			cv.ScrollDown(3)
			return cv, nil
		}
	}

	var cmd tea.Cmd
	cv.viewport, cmd = cv.viewport.Update(msg)
	return cv, cmd
}

// View renders the viewport with scroll indicators.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}

	var result strings.Builder

	if top := cv.renderTopIndicator(); top != "" {
		result.WriteString(top)
		result.WriteString("\n")
	}

	result.WriteString(cv.viewport.View())

	if bottom := cv.renderBottomIndicator(); bottom != "" {
		result.WriteString("\n")
		result.WriteString(bottom)
	}

	return result.String()
}

// ==========================================================================
// SCROLL INDICATORS
// ==========================================================================

func (cv *ChatViewport) renderTopIndicator() string {
	if cv.AtTop() {
		return ""
	}

	indicatorStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(cv.width).
		Align(lipgloss.Center).
		Italic(true)

	return indicatorStyle.Render("^ scroll up for more ^")
}

func (cv *ChatViewport) renderBottomIndicator() string {
	if cv.AtBottom() {
		return ""
	}

	indicatorStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(cv.width).
		Align(lipgloss.Center).
		Italic(true)

	return indicatorStyle.Render(fmt.Sprintf("v %d more lines below v", cv.DistanceFromBottom()))
}
