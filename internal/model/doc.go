// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// The types here mirror the wire format of the medchat backend service:
// messages carry the server-assigned identifier and timestamp when they came
// from the service, and a client-generated identifier otherwise. Messages are
// immutable once appended to a session log.
package model
