// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for medchat.
//
// Configuration lives in ~/.medchat/config.toml with sensible defaults,
// environment variable overrides (MEDCHAT_*), and validation.
package config
