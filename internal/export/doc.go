// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files in Markdown or JSON
// format. Exports cover the active session log as displayed, including
// error turns and retrieved source snippets.
package export
