// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Model listing for the ladle CLI.
//
// Command: models
//
// Examples:
//   ladle models              List models for the active provider
//   ladle models --local      List local Ollama models
//   ladle models --json       Machine-readable output
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
)

// modelsTimeout bounds the provider model-list request.
const modelsTimeout = 15 * time.Second

// HandleModelsCommand lists the models available on the active provider.
func HandleModelsCommand(args Args) error {
	cfg := config.Global()
	provider := resolveProvider(cfg, args)

	ctx, cancel := context.WithTimeout(context.Background(), modelsTimeout)
	defer cancel()

	var names []string
	var err error

	if provider == config.ProviderCloud {
		client := cloud.NewClient(cfg.Cloud.APIKey, cfg.Cloud.BaseURL, cfg.Cloud.Model)
		if !client.IsConfigured() {
			return cloud.ErrNotConfigured
		}
		var infos []cloud.ModelInfo
		infos, err = client.ListModels(ctx)
		if err == nil {
			for _, info := range infos {
				names = append(names, info.ID)
			}
		}
	} else {
		client := local.NewClient(cfg.Local.BaseURL)
		names, err = client.ModelNames(ctx)
	}
	if err != nil {
		return WrapError(err, "listing models for "+provider)
	}

	active := cfg.ActiveModel()

	if args.JSON {
		data := ModelsData{
			Provider: provider,
			Models:   names,
			Active:   active,
		}
		return NewJSONResponse("models", data).Print()
	}

	fmt.Println(TitleStyle.Render("Models (" + provider + ")"))
	if len(names) == 0 {
		fmt.Println(DimStyle.Render("  no models available"))
		if provider == config.ProviderLocal {
			fmt.Println(DimStyle.Render("  pull one with: ollama pull llama3.2"))
		}
		return nil
	}

	for _, name := range names {
		marker := "  "
		line := name
		if name == active {
			marker = HighlightStyle.Render("* ")
			line = HighlightStyle.Render(name)
		}
		fmt.Printf("%s%s\n", marker, line)
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("Switch with: ladle config set " + provider + ".model <name>"))
	return nil
}
