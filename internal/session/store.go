// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/morganforge/medchat-tui/internal/api"
	"github.com/morganforge/medchat-tui/internal/logging"
	"github.com/morganforge/medchat-tui/internal/model"
)

// historyPageSize is how many messages LoadSession requests per page.
// The backend caps history pages at 100.
const historyPageSize = 100

// Gating errors. These mean the operation did not start; they are the only
// errors the store returns to callers (remote failures become state).
var (
	// ErrSendInFlight is returned when an operation is refused because a
	// send or load is already in progress for the active session.
	ErrSendInFlight = errors.New("a request is already in flight")

	// ErrNothingToRetry is returned by RetryLastMessage when no prior
	// input has been recorded.
	ErrNothingToRetry = errors.New("no message to retry")
)

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// Service is the remote surface the store depends on, implemented by
// *api.Client. Tests substitute a fake.
type Service interface {
	SendMessage(ctx context.Context, message, sessionID string) (*api.SendMessageResponse, error)
	History(ctx context.Context, sessionID string, limit, offset int) (*api.HistoryResponse, error)
}

// =============================================================================
// CHAT STORE
// =============================================================================

// ChatStore is the state machine for the active session.
//
// Exactly one send or load may be in flight at a time (the loading gate).
// Every completion handler re-checks that the session it was dispatched
// against is still the active one before mutating state, so a late reply
// from a session the user has navigated away from is dropped rather than
// applied to the wrong log.
type ChatStore struct {
	mu  sync.Mutex
	svc Service
	log logging.Logger

	sessionID     string
	messages      []model.ChatMessage
	isLoading     bool
	lastError     string
	lastUserInput string

	// History paging metadata from the last LoadSession, display only.
	historyTotal   int
	historyHasMore bool
}

// NewChatStore creates a store with a fresh session identifier.
func NewChatStore(svc Service, log logging.Logger) *ChatStore {
	if log == nil {
		log = logging.Discard()
	}
	return &ChatStore{
		svc:       svc,
		log:       log,
		sessionID: model.NewSessionID(),
	}
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// SessionID returns the active session identifier.
func (s *ChatStore) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Messages returns a copy of the session log in insertion order.
func (s *ChatStore) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// MessageCount returns the number of turns in the log.
func (s *ChatStore) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// IsLoading reports whether a send or load is in flight.
func (s *ChatStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// LastError returns the recorded error text, or "" when none.
func (s *ChatStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// LastUserInput returns the most recently attempted input, or "" when the
// last attempt succeeded.
func (s *ChatStore) LastUserInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUserInput
}

// HistoryPaging returns the total count and has-more flag from the last
// LoadSession.
func (s *ChatStore) HistoryPaging() (total int, hasMore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyTotal, s.historyHasMore
}

// =============================================================================
// SEND
// =============================================================================

// BeginSend validates text and stages the send: the user turn is appended
// optimistically, the loading flag is set, and the input is retained for a
// possible retry. It returns the session the send is bound to.
//
// Validation failures (blank or over-length input) and ErrSendInFlight
// leave the log untouched.
func (s *ChatStore) BeginSend(text string) (string, error) {
	if err := model.ValidateInput(text); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isLoading {
		return "", ErrSendInFlight
	}
	s.messages = append(s.messages, model.NewUserMessage(text))
	s.isLoading = true
	s.lastError = ""
	s.lastUserInput = text
	return s.sessionID, nil
}

// FinishSend performs the remote call for a staged send and records the
// outcome. A remote failure becomes state (lastError plus a visible error
// turn) and is reported through the returned turn's IsError flag, not
// through the error value.
func (s *ChatStore) FinishSend(ctx context.Context, sid, text string) (model.ChatMessage, error) {
	resp, err := s.svc.SendMessage(ctx, text, sid)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != sid {
		// The user switched sessions while this send was in flight; the
		// reply belongs to a log that is no longer active.
		s.log.Debugf("dropping stale send result for session %s", sid)
		return model.ChatMessage{}, nil
	}
	s.isLoading = false

	if err != nil {
		s.lastError = err.Error()
		turn := model.NewErrorMessage(err.Error())
		s.messages = append(s.messages, turn)
		s.log.Warnf("send failed for session %s: %v", sid, err)
		return turn, nil
	}

	s.lastUserInput = ""
	turn := resp.ToChatMessage()
	s.messages = append(s.messages, turn)
	return turn, nil
}

// SendMessage validates, stages, and submits a user message, blocking until
// the remote reply arrives.
func (s *ChatStore) SendMessage(ctx context.Context, text string) (model.ChatMessage, error) {
	sid, err := s.BeginSend(text)
	if err != nil {
		return model.ChatMessage{}, err
	}
	return s.FinishSend(ctx, sid, text)
}

// BeginRetry removes every error turn from the log and stages a resend of
// the retained input. Idempotent with respect to error-turn cleanup: with
// no error turns present it stages a plain resend.
func (s *ChatStore) BeginRetry() (sid, text string, err error) {
	s.mu.Lock()
	if s.lastUserInput == "" {
		s.mu.Unlock()
		return "", "", ErrNothingToRetry
	}
	if s.isLoading {
		s.mu.Unlock()
		return "", "", ErrSendInFlight
	}

	kept := s.messages[:0]
	for _, msg := range s.messages {
		if !msg.IsError {
			kept = append(kept, msg)
		}
	}
	s.messages = kept

	// The retried input replaces the failed attempt's user turn; drop it so
	// the resend does not duplicate it.
	if n := len(s.messages); n > 0 && s.messages[n-1].Role == model.RoleUser && s.messages[n-1].Content == s.lastUserInput {
		s.messages = s.messages[:n-1]
	}

	text = s.lastUserInput
	s.mu.Unlock()

	sid, err = s.BeginSend(text)
	if err != nil {
		return "", "", err
	}
	return sid, text, nil
}

// RetryLastMessage stages and submits a retry, blocking until the remote
// reply arrives.
func (s *ChatStore) RetryLastMessage(ctx context.Context) (model.ChatMessage, error) {
	sid, text, err := s.BeginRetry()
	if err != nil {
		return model.ChatMessage{}, err
	}
	return s.FinishSend(ctx, sid, text)
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// StartNewChat clears the log and begins a fresh session with a new
// identifier. No remote call is made; the server learns about the session
// on the first send.
func (s *ChatStore) StartNewChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = model.NewSessionID()
	s.messages = nil
	s.isLoading = false
	s.lastError = ""
	s.lastUserInput = ""
	s.historyTotal = 0
	s.historyHasMore = false
	s.log.Infof("started new chat %s", s.sessionID)
	return s.sessionID
}

// ClearChat empties the log and error state but keeps the current session
// identifier.
func (s *ChatStore) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.lastError = ""
}

// LoadSession fetches the full history for sessionID and atomically replaces
// the active log and identifier. On failure the current log is left
// untouched and the error is recorded.
func (s *ChatStore) LoadSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	dispatchedAgainst := s.sessionID
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()

	resp, err := s.svc.History(ctx, sessionID, historyPageSize, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != dispatchedAgainst {
		s.log.Debugf("dropping stale history result for session %s", sessionID)
		return nil
	}
	s.isLoading = false

	if err != nil {
		s.lastError = err.Error()
		s.log.Warnf("load failed for session %s: %v", sessionID, err)
		return nil
	}

	messages := make([]model.ChatMessage, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, m.ToChatMessage())
	}

	// Wholesale replacement: log, identity, and paging swap together so no
	// observer ever sees a partially merged log.
	s.sessionID = resp.SessionID
	s.messages = messages
	s.lastUserInput = ""
	s.historyTotal = resp.TotalCount
	s.historyHasMore = resp.HasMore
	s.log.Infof("loaded session %s (%d messages)", resp.SessionID, len(messages))
	return nil
}
