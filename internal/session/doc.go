// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the active chat session: the ordered message log,
// the loading flag, the last error, and the last attempted input.
//
// The store is the only writer of the session log. Remote failures are
// converted into state (a recorded error plus a visible error turn), never
// propagated as errors past the store boundary; only validation and gating
// problems are returned to callers directly.
package session
