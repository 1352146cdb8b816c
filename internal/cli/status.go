// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Quick status overview for the ladle CLI.
//
// Command: status (alias: s)
//
// Shows the active provider and model, whether the cloud key is set,
// whether the local Ollama server is reachable, and how many recipes
// are saved in the box.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/recipebox"
)

// HandleStatusCommand handles the "status" command.
func HandleStatusCommand(args Args) error {
	cfg := config.Global()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	localRunning := local.NewClient(cfg.Local.BaseURL).CheckRunning(ctx) == nil

	savedCount := 0
	if path, err := config.RecipeBoxPath(); err == nil {
		if box, err := recipebox.Open(path); err == nil {
			if n, err := box.Count(); err == nil {
				savedCount = n
			}
			box.Close()
		}
	}

	configPath, _ := config.ConfigPath()

	if args.JSON {
		data := StatusData{
			Provider:     cfg.Provider,
			Model:        cfg.ActiveModel(),
			CloudKeySet:  cfg.Cloud.APIKey != "",
			LocalRunning: localRunning,
			SavedRecipes: savedCount,
			ConfigPath:   configPath,
		}
		return NewJSONResponse("status", data).Print()
	}

	fmt.Println(TitleStyle.Render("ladle status"))

	fmt.Printf("  %s%s\n", RenderLabel("Provider:"), ValueStyle.Render(cfg.Provider))
	fmt.Printf("  %s%s\n", RenderLabel("Model:"), ValueStyle.Render(cfg.ActiveModel()))

	cloudStatus := RenderStatus("warn") + " no API key"
	if cfg.Cloud.APIKey != "" {
		cloudStatus = RenderStatus("ok") + " key configured"
	}
	fmt.Printf("  %s%s\n", RenderLabel("Cloud:"), cloudStatus)

	ollamaStatus := RenderStatus("fail") + " not reachable"
	if localRunning {
		ollamaStatus = RenderStatus("ok") + " running at " + cfg.Local.BaseURL
	}
	fmt.Printf("  %s%s\n", RenderLabel("Ollama:"), ollamaStatus)

	fmt.Printf("  %s%d saved\n", RenderLabel("Recipe box:"), savedCount)
	fmt.Printf("  %s%s\n", RenderLabel("Config:"), DimStyle.Render(configPath))
	return nil
}
