// ladle - a recipe sous-chef for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ladle/internal/cli"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/recipebox"
	"github.com/jeranaias/ladle/internal/storage"
	"github.com/jeranaias/ladle/internal/ui/chat"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdBox:
		cli.HandleBox(args)
	case cli.CmdModels:
		cli.HandleModels(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdSetup:
		cli.HandleSetup(args)
	case cli.CmdDoctor:
		cli.HandleDoctor(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// runTUI starts the chat interface.
func runTUI(args cli.Args) {
	// Offer the wizard once, before any config exists.
	if cli.IsFirstRun() && cli.IsTTY() {
		fmt.Println("Welcome to ladle. Let's set things up first.")
		cli.HandleSetup(args)
		config.ReloadGlobal()
	}

	cfg := config.Global()
	theme := styles.NewTheme()

	m := chat.New(theme, cfg, Version)

	// CLI flags override the configured defaults for this session.
	if args.Local {
		cfg.Provider = config.ProviderLocal
		m.ApplyConfig(cfg)
	}
	if args.Cloud {
		cfg.Provider = config.ProviderCloud
		m.ApplyConfig(cfg)
	}
	if args.Model != "" {
		cfg.SetActiveModel(args.Model)
		m.ApplyConfig(cfg)
	}

	// Recipe box for /save. The TUI still works without it.
	boxPath, err := config.RecipeBoxPath()
	if err == nil {
		if box, err := recipebox.Open(boxPath); err == nil {
			defer box.Close()
			m.SetRecipeBox(box)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: recipe box unavailable: %v\n", err)
		}
	}

	// Conversation store for session persistence.
	if convStore, err := storage.NewConversationStore(); err == nil {
		m.SetConversationStore(convStore)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: conversation storage unavailable: %v\n", err)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Streaming goroutines send tokens through this reference.
	chat.SetProgram(p)

	// Live-reload config edits made while the TUI is running.
	if watcher, err := config.NewWatcher(func(cfg *config.Config) {
		config.SetGlobal(cfg)
		p.Send(chat.ConfigReloadedMsg{Config: cfg})
	}); err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running ladle: %v\n", err)
		os.Exit(1)
	}
}
