// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/medchat-tui/internal/config"
	"github.com/morganforge/medchat-tui/internal/directory"
	"github.com/morganforge/medchat-tui/internal/health"
	"github.com/morganforge/medchat-tui/internal/logging"
	"github.com/morganforge/medchat-tui/internal/model"
	"github.com/morganforge/medchat-tui/internal/session"
	"github.com/morganforge/medchat-tui/internal/ui/components"
	"github.com/morganforge/medchat-tui/internal/ui/styles"
)

// focusArea identifies which pane receives keyboard input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Options configures a new chat model.
type Options struct {
	Config  *config.Config
	Store   *session.ChatStore
	Dir     *directory.Store
	Monitor *health.Monitor
	Log     logging.Logger
}

// Model is the central Bubble Tea model for the medchat TUI.
type Model struct {
	cfg     *config.Config
	store   *session.ChatStore
	dir     *directory.Store
	monitor *health.Monitor
	log     logging.Logger

	keys      KeyMap
	theme     *styles.Theme
	input     textinput.Model
	spinner   spinner.Model
	viewport  *components.ChatViewport
	sidebar   *components.Sidebar
	statusbar *components.StatusBar

	width  int
	height int
	focus  focusArea

	// statusNotice is a transient line shown in place of the error banner,
	// e.g. the path of a finished export.
	statusNotice string
	inputError   string

	quitting bool
}

// New creates the chat model.
func New(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}

	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask a medical question..."
	input.CharLimit = model.MaxMessageLength
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	vp := components.NewChatViewport(theme)
	vp.SetDisplayOptions(opts.Config.UI.ShowSources, opts.Config.UI.ShowScores)

	sb := components.NewSidebar(theme, opts.Config.UI.SidebarOpen)

	status := components.NewStatusBar(theme)

	m := &Model{
		cfg:       opts.Config,
		store:     opts.Store,
		dir:       opts.Dir,
		monitor:   opts.Monitor,
		log:       opts.Log,
		keys:      DefaultKeyMap(),
		theme:     theme,
		input:     input,
		spinner:   sp,
		viewport:  vp,
		sidebar:   sb,
		statusbar: status,
	}
	m.syncFromStores()
	return m
}

// Init starts the probe schedule and the directory refresh.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.monitor.FirstProbeCmd(),
		health.TickCmd(),
		m.refreshSessionsCmd(),
	)
}

// syncFromStores pulls current store state into the view components.
func (m *Model) syncFromStores() {
	m.viewport.SetMessages(m.store.Messages())
	m.sidebar.SetSessions(m.dir.Sessions())
	m.sidebar.SetActive(m.store.SessionID())
	m.statusbar.SetConnection(m.monitor.State(), m.monitor.ServerVersion())
	m.statusbar.SetSession(sessionTitle(m.store.SessionID()), m.store.MessageCount())
	m.statusbar.SetLoading(m.store.IsLoading())
	m.statusbar.SetReplyTag(latestReplyTag(m.store.Messages()))
}

// latestReplyTag classifies the newest assistant turn for the status bar.
func latestReplyTag(messages []model.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role != model.RoleAssistant || msg.IsError {
			continue
		}
		if !msg.IsMedical {
			return "general"
		}
		return msg.QueryType
	}
	return ""
}

// sessionTitle shortens a session identifier for display.
func sessionTitle(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
