// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory maintains the list of stored sessions shown in the
// sidebar. The list is a cache of the server's view: refreshes replace it
// wholesale, and deletions are applied locally only after the server
// confirms them.
package directory
