// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package health

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/medchat-tui/internal/api"
	"github.com/morganforge/medchat-tui/internal/logging"
)

// ProbeInterval is the fixed delay between scheduled health probes.
const ProbeInterval = 30 * time.Second

// State is the connection state shown in the status bar.
type State int

const (
	// StateConnected is the optimistic initial state; the first probe
	// corrects it if the backend is actually down.
	StateConnected State = iota
	StateDisconnected
	StateReconnecting
)

// String returns the status bar label for the state.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Prober is the remote surface the monitor depends on, implemented by
// *api.Client.
type Prober interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// Monitor is the connection state machine. It holds no goroutines of its
// own; the TUI drives it through Probe and the tick messages below.
type Monitor struct {
	mu     sync.Mutex
	prober Prober
	log    logging.Logger

	state         State
	serverVersion string
	stopped       bool
}

// NewMonitor creates a monitor in the connected state.
func NewMonitor(prober Prober, log logging.Logger) *Monitor {
	if log == nil {
		log = logging.Discard()
	}
	return &Monitor{
		prober: prober,
		log:    log,
		state:  StateConnected,
	}
}

// State returns the current connection state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ServerVersion returns the backend version from the last successful probe,
// or "" before one has succeeded.
func (m *Monitor) ServerVersion() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serverVersion
}

// Probe checks the backend once and updates the state. It returns true when
// the probe transitioned the monitor from an unhealthy state back to
// connected; the caller uses that to trigger a directory refresh.
func (m *Monitor) Probe(ctx context.Context) bool {
	resp, err := m.prober.Health(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	wasUnhealthy := m.state != StateConnected

	if err != nil || !resp.IsHealthy() {
		if m.state == StateConnected {
			m.log.Warnf("health probe failed: %v", err)
		}
		m.state = StateDisconnected
		return false
	}

	m.state = StateConnected
	m.serverVersion = resp.Version
	if wasUnhealthy {
		m.log.Info("backend connection restored")
	}
	return wasUnhealthy
}

// Reconnect marks the monitor as reconnecting. The caller follows up with a
// Probe; the intermediate state gives the status bar immediate feedback.
func (m *Monitor) Reconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateReconnecting
}

// Stop ends the probe schedule. HandleTick stops chaining tick commands
// afterwards.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

// =============================================================================
// BUBBLETEA GLUE
// =============================================================================

// TickMsg signals a scheduled health probe.
type TickMsg struct {
	Time time.Time
}

// ProbeResultMsg carries the outcome of an asynchronous probe back into the
// update loop.
type ProbeResultMsg struct {
	State     State
	Recovered bool
}

// FirstProbeCmd probes immediately at startup.
func (m *Monitor) FirstProbeCmd() tea.Cmd {
	return m.probeCmd()
}

// TickCmd schedules the next probe after the fixed interval.
func TickCmd() tea.Cmd {
	return tea.Tick(ProbeInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick runs the scheduled probe and re-arms the timer. After Stop it
// returns nil, letting the tick chain lapse.
func (m *Monitor) HandleTick(TickMsg) tea.Cmd {
	m.mu.Lock()
	stopped := m.stopped
	m.mu.Unlock()
	if stopped {
		return nil
	}
	return tea.Batch(m.probeCmd(), TickCmd())
}

func (m *Monitor) probeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		recovered := m.Probe(ctx)
		return ProbeResultMsg{State: m.State(), Recovered: recovered}
	}
}
