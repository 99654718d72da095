// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package health

import (
	"context"
	"testing"

	"github.com/morganforge/medchat-tui/internal/api"
)

type fakeProber struct {
	resp *api.HealthResponse
	err  error
}

func (f *fakeProber) Health(ctx context.Context) (*api.HealthResponse, error) {
	return f.resp, f.err
}

func healthy(version string) *api.HealthResponse {
	return &api.HealthResponse{Status: "healthy", Version: version}
}

func TestMonitorStartsConnected(t *testing.T) {
	m := NewMonitor(&fakeProber{}, nil)
	if m.State() != StateConnected {
		t.Errorf("initial State() = %v, want connected", m.State())
	}
}

func TestProbeFailureDisconnects(t *testing.T) {
	prober := &fakeProber{err: api.ErrUnreachable}
	m := NewMonitor(prober, nil)

	if m.Probe(context.Background()) {
		t.Error("failed probe reported a recovery")
	}
	if m.State() != StateDisconnected {
		t.Errorf("State() = %v after failed probe, want disconnected", m.State())
	}

	// A second consecutive failure stays disconnected and still reports no
	// recovery.
	if m.Probe(context.Background()) {
		t.Error("second failed probe reported a recovery")
	}
	if m.State() != StateDisconnected {
		t.Errorf("State() = %v after second failure, want disconnected", m.State())
	}
}

func TestProbeDegradedStatusDisconnects(t *testing.T) {
	prober := &fakeProber{resp: &api.HealthResponse{Status: "degraded"}}
	m := NewMonitor(prober, nil)

	m.Probe(context.Background())
	if m.State() != StateDisconnected {
		t.Errorf("State() = %v for degraded backend, want disconnected", m.State())
	}
}

func TestProbeRecoveryReported(t *testing.T) {
	prober := &fakeProber{err: api.ErrUnreachable}
	m := NewMonitor(prober, nil)
	m.Probe(context.Background())

	prober.err = nil
	prober.resp = healthy("1.2.0")

	if !m.Probe(context.Background()) {
		t.Error("recovery probe did not report the transition")
	}
	if m.State() != StateConnected {
		t.Errorf("State() = %v after recovery, want connected", m.State())
	}
	if m.ServerVersion() != "1.2.0" {
		t.Errorf("ServerVersion() = %q, want 1.2.0", m.ServerVersion())
	}

	// Staying connected is not a recovery.
	if m.Probe(context.Background()) {
		t.Error("steady-state probe reported a recovery")
	}
}

func TestReconnectProbesFromReconnecting(t *testing.T) {
	prober := &fakeProber{err: api.ErrTimeout}
	m := NewMonitor(prober, nil)
	m.Probe(context.Background())

	m.Reconnect()
	if m.State() != StateReconnecting {
		t.Errorf("State() = %v after Reconnect, want reconnecting", m.State())
	}

	prober.err = nil
	prober.resp = healthy("1.0.0")
	if !m.Probe(context.Background()) {
		t.Error("probe from reconnecting did not report recovery")
	}
	if m.State() != StateConnected {
		t.Errorf("State() = %v, want connected", m.State())
	}
}

func TestHandleTickAfterStop(t *testing.T) {
	m := NewMonitor(&fakeProber{resp: healthy("1.0.0")}, nil)

	if cmd := m.HandleTick(TickMsg{}); cmd == nil {
		t.Error("HandleTick() = nil while running, want probe + rearm")
	}

	m.Stop()
	if cmd := m.HandleTick(TickMsg{}); cmd != nil {
		t.Error("HandleTick() != nil after Stop, want tick chain to lapse")
	}
}

func TestStateLabels(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateConnected, "connected"},
		{StateDisconnected, "disconnected"},
		{StateReconnecting, "reconnecting"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
