// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the medchat TUI.

The package implements a complete terminal chat interface on the Bubble Tea
framework, backed by the session, directory, and health stores.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model:
  - active session log via the session store
  - session directory sidebar via the directory store
  - connection badge via the health monitor
  - single-line input with validation feedback

## Update Loop (update.go)

Handles keyboard input, async completion messages, health ticks, and window
resizes. Every async result message carries the session identifier it was
produced for; results for a session other than the active one are dropped.

## Commands (commands.go)

tea.Cmd constructors for the blocking store operations (send, retry, load,
refresh, delete, export). Each runs in its own goroutine and reports back
through a typed message.
*/
package chat
