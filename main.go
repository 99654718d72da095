// medchat TUI - A terminal interface for the medical question answering service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/medchat-tui/internal/api"
	"github.com/morganforge/medchat-tui/internal/config"
	"github.com/morganforge/medchat-tui/internal/directory"
	"github.com/morganforge/medchat-tui/internal/health"
	"github.com/morganforge/medchat-tui/internal/logging"
	"github.com/morganforge/medchat-tui/internal/session"
	"github.com/morganforge/medchat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--version", "-v":
			fmt.Printf("medchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown flag %q\n\n", arg)
			printUsage()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := buildLogger(cfg)

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:  cfg.Server.BaseURL,
		Timeout:  time.Duration(cfg.Server.TimeoutSecs) * time.Second,
		PageSize: cfg.Server.PageSize,
	})
	client.SetLogger(log)

	store := session.NewChatStore(client, log)
	dir := directory.NewStore(client, log)
	monitor := health.NewMonitor(client, log)

	m := chat.New(chat.Options{
		Config:  cfg,
		Store:   store,
		Dir:     dir,
		Monitor: monitor,
		Log:     log,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	log.Infof("medchat %s starting against %s", Version, cfg.Server.BaseURL)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running medchat: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger opens the file logger configured in cfg, falling back to a
// no-op logger so a bad log path never blocks the TUI.
func buildLogger(cfg *config.Config) logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.Discard()
	}

	path, err := cfg.LogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not resolve log path: %v\n", err)
		return logging.Discard()
	}

	log, err := logging.NewFileLogger(path, logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return logging.Discard()
	}
	return log
}

func printUsage() {
	fmt.Println("medchat - terminal client for the medical question answering service")
	fmt.Println()
	fmt.Println("Usage: medchat [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -v, --version   print version and exit")
	fmt.Println("  -h, --help      print this help")
	fmt.Println()
	fmt.Println("Configuration is read from ~/.medchat/config.toml; MEDCHAT_* environment")
	fmt.Println("variables override individual settings.")
}
