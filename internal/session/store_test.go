// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/morganforge/medchat-tui/internal/api"
	"github.com/morganforge/medchat-tui/internal/model"
)

// fakeService scripts SendMessage and History responses for store tests.
type fakeService struct {
	mu sync.Mutex

	sendErr   error
	sendCalls []string

	historyResp *api.HistoryResponse
	historyErr  error

	// blockSend, when non-nil, is closed by the test to release an
	// in-flight SendMessage. Used to simulate slow replies.
	blockSend chan struct{}
}

func (f *fakeService) SendMessage(ctx context.Context, message, sessionID string) (*api.SendMessageResponse, error) {
	f.mu.Lock()
	f.sendCalls = append(f.sendCalls, message)
	block := f.blockSend
	sendErr := f.sendErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if sendErr != nil {
		return nil, sendErr
	}
	return &api.SendMessageResponse{
		MessageID: 42,
		SessionID: sessionID,
		Response:  "reply to: " + message,
		IsMedical: true,
	}, nil
}

func (f *fakeService) History(ctx context.Context, sessionID string, limit, offset int) (*api.HistoryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.historyResp, nil
}

func (f *fakeService) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sendCalls))
	copy(out, f.sendCalls)
	return out
}

func TestSendMessageSuccess(t *testing.T) {
	svc := &fakeService{}
	store := NewChatStore(svc, nil)

	turn, err := store.SendMessage(context.Background(), "What is diabetes?")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if turn.Role != model.RoleAssistant {
		t.Errorf("returned turn role = %q, want assistant", turn.Role)
	}
	if turn.IsError {
		t.Error("returned turn marked as error")
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "What is diabetes?" {
		t.Errorf("first turn = %+v, want user question", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant {
		t.Errorf("second turn role = %q, want assistant", msgs[1].Role)
	}
	if store.IsLoading() {
		t.Error("IsLoading() = true after completion")
	}
	if store.LastError() != "" {
		t.Errorf("LastError() = %q, want empty", store.LastError())
	}
	if store.LastUserInput() != "" {
		t.Errorf("LastUserInput() = %q, want cleared after success", store.LastUserInput())
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc := &fakeService{}
	store := NewChatStore(svc, nil)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", model.ErrEmptyMessage},
		{"whitespace only", "   \n\t ", model.ErrEmptyMessage},
		{"too long", strings.Repeat("x", model.MaxMessageLength+1), model.ErrMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SendMessage(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SendMessage(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}

	if store.MessageCount() != 0 {
		t.Errorf("log has %d messages after rejected inputs, want 0", store.MessageCount())
	}
	if len(svc.calls()) != 0 {
		t.Errorf("service called %d times for invalid input, want 0", len(svc.calls()))
	}
}

func TestSendMessageFailureRecordsErrorTurn(t *testing.T) {
	svc := &fakeService{sendErr: api.ErrUnreachable}
	store := NewChatStore(svc, nil)

	turn, err := store.SendMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendMessage() error = %v, want nil (failure is state, not error)", err)
	}
	if !turn.IsError {
		t.Error("returned turn not marked as error")
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want user turn + error turn", len(msgs))
	}
	if !msgs[1].IsError {
		t.Error("second turn not marked as error")
	}
	if store.LastError() == "" {
		t.Error("LastError() empty after failure")
	}
	if store.LastUserInput() != "hello" {
		t.Errorf("LastUserInput() = %q, want %q retained for retry", store.LastUserInput(), "hello")
	}
	if store.IsLoading() {
		t.Error("IsLoading() = true after failed completion")
	}
}

func TestSendMessageGateWhileLoading(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeService{blockSend: release}
	store := NewChatStore(svc, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SendMessage(context.Background(), "first")
	}()

	// Wait for the first send to pass the gate.
	for store.MessageCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	if _, err := store.SendMessage(context.Background(), "second"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("concurrent SendMessage error = %v, want ErrSendInFlight", err)
	}
	if err := store.LoadSession(context.Background(), "other"); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("LoadSession during send error = %v, want ErrSendInFlight", err)
	}

	close(release)
	<-done

	calls := svc.calls()
	if len(calls) != 1 || calls[0] != "first" {
		t.Errorf("service calls = %v, want only the first send", calls)
	}
}

func TestRetryStripsErrorTurnsAndResends(t *testing.T) {
	svc := &fakeService{sendErr: api.ErrTimeout}
	store := NewChatStore(svc, nil)

	store.SendMessage(context.Background(), "flaky question")
	if store.MessageCount() != 2 {
		t.Fatalf("setup: log has %d messages, want 2", store.MessageCount())
	}

	// Service recovers before the retry.
	svc.mu.Lock()
	svc.sendErr = nil
	svc.mu.Unlock()

	turn, err := store.RetryLastMessage(context.Background())
	if err != nil {
		t.Fatalf("RetryLastMessage() error = %v", err)
	}
	if turn.IsError {
		t.Error("retry returned an error turn after service recovered")
	}

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages after retry, want 2", len(msgs))
	}
	for i, m := range msgs {
		if m.IsError {
			t.Errorf("message %d still marked as error after retry", i)
		}
	}
	if msgs[0].Content != "flaky question" {
		t.Errorf("user turn content = %q, want original input", msgs[0].Content)
	}
	if store.LastError() != "" {
		t.Errorf("LastError() = %q after successful retry, want empty", store.LastError())
	}

	calls := svc.calls()
	if len(calls) != 2 || calls[1] != "flaky question" {
		t.Errorf("service calls = %v, want original input resent", calls)
	}
}

func TestRetryWithNothingRecorded(t *testing.T) {
	store := NewChatStore(&fakeService{}, nil)

	if _, err := store.RetryLastMessage(context.Background()); !errors.Is(err, ErrNothingToRetry) {
		t.Errorf("RetryLastMessage() error = %v, want ErrNothingToRetry", err)
	}
}

func TestRetryRepeatedFailureKeepsSingleErrorTurn(t *testing.T) {
	svc := &fakeService{sendErr: api.ErrUnreachable}
	store := NewChatStore(svc, nil)

	store.SendMessage(context.Background(), "question")
	store.RetryLastMessage(context.Background())
	store.RetryLastMessage(context.Background())

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages after repeated failed retries, want 2", len(msgs))
	}
	errorTurns := 0
	for _, m := range msgs {
		if m.IsError {
			errorTurns++
		}
	}
	if errorTurns != 1 {
		t.Errorf("log has %d error turns, want 1", errorTurns)
	}
}

func TestStartNewChat(t *testing.T) {
	svc := &fakeService{}
	store := NewChatStore(svc, nil)
	store.SendMessage(context.Background(), "old conversation")

	oldID := store.SessionID()
	newID := store.StartNewChat()

	if newID == oldID {
		t.Error("StartNewChat() reused the old session identifier")
	}
	if store.SessionID() != newID {
		t.Errorf("SessionID() = %q, want %q", store.SessionID(), newID)
	}
	if store.MessageCount() != 0 {
		t.Errorf("log has %d messages after StartNewChat, want 0", store.MessageCount())
	}
	if store.LastError() != "" || store.LastUserInput() != "" {
		t.Error("error state not cleared by StartNewChat")
	}
}

func TestClearChatKeepsSessionID(t *testing.T) {
	svc := &fakeService{sendErr: api.ErrUnreachable}
	store := NewChatStore(svc, nil)
	store.SendMessage(context.Background(), "will fail")

	id := store.SessionID()
	store.ClearChat()

	if store.SessionID() != id {
		t.Errorf("SessionID() changed across ClearChat: %q != %q", store.SessionID(), id)
	}
	if store.MessageCount() != 0 {
		t.Errorf("log has %d messages after ClearChat, want 0", store.MessageCount())
	}
	if store.LastError() != "" {
		t.Errorf("LastError() = %q after ClearChat, want empty", store.LastError())
	}
	if store.LastUserInput() != "will fail" {
		t.Errorf("LastUserInput() = %q, want retained across ClearChat", store.LastUserInput())
	}
}

func TestLoadSessionReplacesLog(t *testing.T) {
	svc := &fakeService{
		historyResp: &api.HistoryResponse{
			SessionID: "stored-session",
			Messages: []api.HistoryMessage{
				{ID: 1, MessageType: "user", Content: "old question"},
				{ID: 2, MessageType: "assistant", Content: "old answer"},
			},
			TotalCount: 7,
			HasMore:    true,
		},
	}
	store := NewChatStore(svc, nil)
	store.SendMessage(context.Background(), "current conversation")

	if err := store.LoadSession(context.Background(), "stored-session"); err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}

	if store.SessionID() != "stored-session" {
		t.Errorf("SessionID() = %q, want stored-session", store.SessionID())
	}
	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want 2 from history", len(msgs))
	}
	if msgs[0].Content != "old question" || msgs[1].Content != "old answer" {
		t.Errorf("log contents = %q, %q; want history contents", msgs[0].Content, msgs[1].Content)
	}
	total, hasMore := store.HistoryPaging()
	if total != 7 || !hasMore {
		t.Errorf("HistoryPaging() = (%d, %v), want (7, true)", total, hasMore)
	}
}

func TestLoadSessionFailureKeepsCurrentLog(t *testing.T) {
	svc := &fakeService{historyErr: api.ErrNotFound}
	store := NewChatStore(svc, nil)
	store.SendMessage(context.Background(), "keep me")

	id := store.SessionID()
	if err := store.LoadSession(context.Background(), "missing"); err != nil {
		t.Fatalf("LoadSession() error = %v, want nil (failure is state)", err)
	}

	if store.SessionID() != id {
		t.Errorf("SessionID() changed after failed load: %q != %q", store.SessionID(), id)
	}
	if store.MessageCount() != 2 {
		t.Errorf("log has %d messages after failed load, want 2 untouched", store.MessageCount())
	}
	if store.LastError() == "" {
		t.Error("LastError() empty after failed load")
	}
}

func TestStaleSendResultDropped(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeService{blockSend: release}
	store := NewChatStore(svc, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SendMessage(context.Background(), "slow question")
	}()

	for store.MessageCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	// User starts a new chat while the reply is still in flight.
	newID := store.StartNewChat()

	close(release)
	<-done

	if store.SessionID() != newID {
		t.Errorf("SessionID() = %q, want %q", store.SessionID(), newID)
	}
	if store.MessageCount() != 0 {
		t.Errorf("log has %d messages, want 0 (stale reply must not land in the new session)", store.MessageCount())
	}
	if store.IsLoading() {
		t.Error("IsLoading() = true after stale completion")
	}
}
