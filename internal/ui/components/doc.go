// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the medchat TUI:
// the message list and its bubbles, the scrollable chat viewport, the
// session sidebar, and the status bar.
package components
