// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the medchat backend service.
//
// The backend exposes a versioned REST surface under /api/v1: chat message
// submission, per-session history, the session directory, session deletion,
// and a health endpoint. All calls take a context and surface failures as
// *ClientError values that callers can classify with errors.As.
package api
