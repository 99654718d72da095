// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/morganforge/medchat-tui/internal/logging"
	"github.com/morganforge/medchat-tui/internal/model"
)

// apiPrefix is the versioned base path all endpoints live under.
const apiPrefix = "/api/v1"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the medchat service client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeInvalidResponse
	ErrTypeService
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "medchat service is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNotFound    = &ClientError{Type: ErrTypeNotFound, Message: "resource not found"}
)

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable checks if an error indicates the service could not be reached.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the medchat client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://127.0.0.1:8000).
	// Note: explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	BaseURL string

	// Timeout per request (default: 30s)
	Timeout time.Duration

	// PageSize for directory listings (default: 20)
	PageSize int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:  "http://127.0.0.1:8000",
		Timeout:  30 * time.Second,
		PageSize: 20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the medchat backend service.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	resp, err := client.SendMessage(ctx, "What is diabetes?", sessionID)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	log        logging.Logger
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.PageSize == 0 {
		config.PageSize = 20
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		log: logging.Discard(),
	}
}

// SetLogger replaces the client's logger. The default discards everything;
// main swaps in the file-backed one before the TUI starts.
func (c *Client) SetLogger(log logging.Logger) {
	c.log = log
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+apiPrefix+"/health/", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, "health check failed")
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode health response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage submits a user message and returns the assistant reply.
// An empty sessionID asks the service to allocate a new session.
func (c *Client) SendMessage(ctx context.Context, message, sessionID string) (*SendMessageResponse, error) {
	reqBody := SendMessageRequest{
		Message:   message,
		SessionID: sessionID,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+apiPrefix+"/chat/message", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, "message request failed")
	}

	var result SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode message response", Cause: err}
	}

	c.log.Debugf("sent message session=%s elapsed=%s score=%v", result.SessionID, time.Since(start), result.EvaluationScore)
	return &result, nil
}

// History fetches a page of messages for a session, oldest first.
func (c *Client) History(ctx context.Context, sessionID string, limit, offset int) (*HistoryResponse, error) {
	url := c.config.BaseURL + apiPrefix + "/chat/history/" + sessionID +
		"?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, "history request failed")
	}

	var result HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode history response", Cause: err}
	}

	return &result, nil
}

// Sessions fetches a page of session summaries, newest first.
func (c *Client) Sessions(ctx context.Context, limit, offset int) ([]model.SessionSummary, error) {
	url := c.config.BaseURL + apiPrefix + "/chat/sessions" +
		"?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp, "session list request failed")
	}

	var entries []sessionEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode session list", Cause: err}
	}

	summaries := make([]model.SessionSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, e.toSummary())
	}
	return summaries, nil
}

// DeleteSession removes a session and its messages on the server.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+apiPrefix+"/chat/session/"+sessionID, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.decodeError(resp, "delete request failed")
	}

	c.log.Debugf("deleted session %s", sessionID)
	return nil
}

// =============================================================================
// ERROR DECODING
// =============================================================================

// transportError classifies a failed round trip. http.Client surfaces its
// own timeout as a net.Error with Timeout() == true rather than as
// context.DeadlineExceeded, so both are checked.
func (c *Client) transportError(err error) *ClientError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	c.log.Warnf("request failed: %v", err)
	return &ClientError{Type: ErrTypeUnreachable, Message: "medchat service is unreachable", Cause: err}
}

// decodeError extracts the backend's textual detail field from a non-2xx
// reply, falling back to a generic message carrying the HTTP status.
func (c *Client) decodeError(resp *http.Response, fallback string) *ClientError {
	var svcErr serviceError
	if err := json.NewDecoder(resp.Body).Decode(&svcErr); err == nil && svcErr.Detail != "" {
		return &ClientError{Type: ErrTypeService, Message: svcErr.Detail}
	}
	return &ClientError{Type: ErrTypeService, Message: fallback + ": " + resp.Status}
}
