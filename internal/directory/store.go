// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"sync"

	"github.com/morganforge/medchat-tui/internal/logging"
	"github.com/morganforge/medchat-tui/internal/model"
)

// defaultPageSize is how many session summaries Refresh requests.
const defaultPageSize = 20

// Service is the remote surface the store depends on, implemented by
// *api.Client.
type Service interface {
	Sessions(ctx context.Context, limit, offset int) ([]model.SessionSummary, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Store caches the server's session directory for the sidebar.
//
// Refresh and Delete record remote failures as state rather than returning
// them, matching the session store: the sidebar shows the recorded error
// and keeps the last good list.
type Store struct {
	mu  sync.Mutex
	svc Service
	log logging.Logger

	sessions  []model.SessionSummary
	isLoading bool
	lastError string
	pageSize  int
}

// NewStore creates an empty directory store.
func NewStore(svc Service, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		svc:      svc,
		log:      log,
		pageSize: defaultPageSize,
	}
}

// Sessions returns a copy of the cached directory, newest first as the
// server sends it.
func (s *Store) Sessions() []model.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SessionSummary, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Count returns the number of cached session summaries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// IsLoading reports whether a refresh is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// LastError returns the recorded error text, or "" when none.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Refresh fetches the first page of the directory and replaces the cached
// list wholesale. On failure the previous list is kept and the error is
// recorded. Concurrent refreshes collapse: a refresh arriving while one is
// in flight is a no-op.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return
	}
	s.isLoading = true
	s.mu.Unlock()

	sessions, err := s.svc.Sessions(ctx, s.pageSize, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if err != nil {
		s.lastError = err.Error()
		s.log.Warnf("session list refresh failed: %v", err)
		return
	}

	s.sessions = sessions
	s.lastError = ""
	s.log.Debugf("refreshed session list (%d sessions)", len(sessions))
}

// Delete removes a session on the server, then drops it from the cached
// list. The local list is only touched after the server confirms, so a
// failed delete leaves the sidebar accurate. Returns true when the deletion
// was applied.
func (s *Store) Delete(ctx context.Context, sessionID string) bool {
	if err := s.svc.DeleteSession(ctx, sessionID); err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.Warnf("delete failed for session %s: %v", sessionID, err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sess := range s.sessions {
		if sess.SessionID == sessionID {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			break
		}
	}
	s.lastError = ""
	s.log.Infof("deleted session %s", sessionID)
	return true
}
