// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/export"
	"github.com/jeranaias/ladle/internal/model"
	"github.com/jeranaias/ladle/internal/storage"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// helpText lists the available slash commands, shown by /help.
const helpText = `Commands:
  /help               show this help
  /clear              clear the conversation
  /new                start a fresh conversation
  /models             list models for the active provider
  /model <name>       switch model
  /provider <name>    switch provider (cloud or local)
  /save               save the last recipe to the recipe box
  /export [dir]       export the last recipe as Markdown
  /raw                toggle raw response view
  /quit               exit

Keys: Enter send · Esc cancel stream · PgUp/PgDn scroll · Ctrl+C quit`

// handleCommand dispatches a slash command typed at the prompt.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h":
		m.conversation.AddSystemMessage(helpText)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case "/clear":
		m.conversation.ClearHistory()
		m.updateViewport()
		return m, nil

	case "/new":
		return m.startNewConversation()

	case "/models":
		return m, m.listModelsCmd()

	case "/model":
		if len(args) == 0 {
			m.conversation.AddSystemMessage("Usage: /model <name>")
			m.updateViewport()
			return m, nil
		}
		return m, m.switchModelCmd(args[0])

	case "/provider":
		if len(args) == 0 {
			m.conversation.AddSystemMessage("Usage: /provider <cloud|local>")
			m.updateViewport()
			return m, nil
		}
		return m.switchProvider(strings.ToLower(args[0]))

	case "/save":
		return m, m.saveRecipeCmd()

	case "/export":
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return m, m.exportRecipeCmd(dir)

	case "/raw":
		m.showRaw = !m.showRaw
		if m.showRaw {
			m.conversation.AddSystemMessage("Raw view on: responses show as highlighted JSON.")
		} else {
			m.conversation.AddSystemMessage("Raw view off.")
		}
		m.updateViewport()
		return m, nil

	case "/quit", "/q", "/exit":
		m.cancelMgr.cancel()
		return m, tea.Quit

	default:
		m.conversation.AddSystemMessage("Unknown command " + cmd + ". Try /help.")
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}
}

// startNewConversation saves the current conversation (when non-empty)
// and begins a fresh one.
func (m Model) startNewConversation() (tea.Model, tea.Cmd) {
	var saveCmd tea.Cmd
	if !m.conversation.IsEmpty() && m.convStore != nil {
		saveCmd = m.persistConversationCmd()
	}

	m.conversation = model.NewConversation()
	m.conversation.Provider = m.provider
	m.conversation.Model = m.modelName
	m.updateViewport()
	return m, saveCmd
}

// switchProvider validates the name and reconfigures the active backend.
func (m Model) switchProvider(name string) (tea.Model, tea.Cmd) {
	if name != config.ProviderCloud && name != config.ProviderLocal {
		m.conversation.AddSystemMessage("Unknown provider " + name + " (cloud or local).")
		m.updateViewport()
		return m, nil
	}
	if name == m.provider {
		m.conversation.AddSystemMessage("Already using " + name + ".")
		m.updateViewport()
		return m, nil
	}

	return m, func() tea.Msg {
		return ProviderSwitchedMsg{Provider: name}
	}
}

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// listModelsCmd queries the active provider for its model list.
func (m Model) listModelsCmd() tea.Cmd {
	provider := m.provider
	localClient := m.localClient
	cloudClient := m.cloudClient

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if provider == config.ProviderCloud {
			if cloudClient == nil {
				return ModelsMsg{Error: errors.New("cloud client not configured")}
			}
			infos, err := cloudClient.ListModels(ctx)
			if err != nil {
				return ModelsMsg{Error: err}
			}
			names := make([]string, 0, len(infos))
			for _, info := range infos {
				names = append(names, info.ID)
			}
			return ModelsMsg{Models: names}
		}

		if localClient == nil {
			return ModelsMsg{Error: errors.New("local client not configured")}
		}
		names, err := localClient.ModelNames(ctx)
		if err != nil {
			return ModelsMsg{Error: err}
		}
		return ModelsMsg{Models: names}
	}
}

// switchModelCmd switches the active model and persists the choice.
func (m Model) switchModelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if cfg := config.Global(); cfg != nil {
			cfg.SetActiveModel(name)
			if err := cfg.Save(); err != nil {
				return ModelSwitchedMsg{Model: name, Error: err}
			}
		}
		return ModelSwitchedMsg{Model: name}
	}
}

// saveRecipeCmd stores the most recent parsed recipe in the recipe box.
func (m Model) saveRecipeCmd() tea.Cmd {
	rec := m.conversation.GetLastRecipe()
	box := m.box

	return func() tea.Msg {
		if rec == nil {
			return RecipeSavedMsg{Error: errors.New("no recipe in this conversation yet")}
		}
		if box == nil {
			return RecipeSavedMsg{Error: errors.New("recipe box is not available")}
		}
		if _, err := box.Save(rec, "chat"); err != nil {
			return RecipeSavedMsg{Error: err}
		}
		return RecipeSavedMsg{Title: rec.Title}
	}
}

// exportRecipeCmd writes the most recent parsed recipe to a Markdown file.
func (m Model) exportRecipeCmd(dir string) tea.Cmd {
	rec := m.conversation.GetLastRecipe()

	if dir == "" {
		if cfg := config.Global(); cfg != nil {
			dir = cfg.Recipes.ExportDir
		}
	}

	return func() tea.Msg {
		if rec == nil {
			return ExportDoneMsg{Error: errors.New("no recipe in this conversation yet")}
		}
		opts := export.DefaultOptions()
		if dir != "" {
			opts.OutputDir = dir
		}
		path, err := export.RecipeToFile(rec, export.FormatMarkdown, opts)
		if err != nil {
			return ExportDoneMsg{Error: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// persistConversationCmd saves the current conversation to disk.
func (m Model) persistConversationCmd() tea.Cmd {
	store := m.convStore
	stored := storage.FromConversation(m.conversation)

	return func() tea.Msg {
		if store == nil {
			return ConversationSavedMsg{}
		}
		id, err := store.Save(stored)
		return ConversationSavedMsg{ID: id, Error: err}
	}
}
