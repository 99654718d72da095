// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package health tracks backend reachability for the status bar.
//
// The monitor starts optimistic (connected) and is corrected by the first
// probe. Probes run on a fixed interval driven by the TUI's tick loop; a
// manual reconnect flips the state to reconnecting and probes immediately.
package health
