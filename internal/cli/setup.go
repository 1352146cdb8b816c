// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run setup wizard for the ladle CLI.
//
// Command: setup (aliases: init, wizard)
//
// Walks through provider choice, credentials, and model selection, then
// writes the config file. Also run automatically on first launch.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
)

// setupProbeTimeout bounds the connectivity checks in the wizard.
const setupProbeTimeout = 10 * time.Second

// IsFirstRun reports whether no config file exists yet. main uses this
// to offer the wizard before launching the TUI.
func IsFirstRun() bool {
	path, err := config.ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return os.IsNotExist(err)
}

// HandleSetupCommand runs the interactive setup wizard.
func HandleSetupCommand(args Args) error {
	if args.JSON {
		return NewCommandError("setup", "run wizard", "setup is interactive and has no JSON mode", nil)
	}
	if err := RequiresTTY("run setup"); err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(TitleStyle.Render("ladle setup"))
	fmt.Println(DimStyle.Render("Configure your recipe assistant. Press Ctrl+C to abort."))
	fmt.Println()

	cfg := config.Default()
	if existing, err := config.Load(); err == nil {
		cfg = existing
	}

	provider, err := promptProvider(line, cfg.Provider)
	if err != nil {
		return err
	}
	cfg.Provider = provider

	if provider == config.ProviderCloud {
		err = setupCloud(line, cfg)
	} else {
		err = setupLocal(line, cfg)
	}
	if err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return WrapError(err, "saving config")
	}

	path, _ := config.ConfigPath()
	fmt.Println()
	fmt.Printf("%s config written to %s\n", SuccessStyle.Render("[OK]"), path)
	fmt.Println(DimStyle.Render("Start cooking: ladle"))
	return nil
}

// =============================================================================
// WIZARD STEPS
// =============================================================================

// promptProvider asks which backend to use.
func promptProvider(line *liner.State, current string) (string, error) {
	fmt.Println(SectionStyle.Render("Provider"))
	fmt.Println("  1. cloud  " + DimStyle.Render("OpenAI-compatible API (needs a key)"))
	fmt.Println("  2. local  " + DimStyle.Render("Ollama running on this machine"))

	def := "1"
	if current == config.ProviderLocal {
		def = "2"
	}

	choice, err := promptWithDefault(line, "Choose [1/2]", def)
	if err != nil {
		return "", err
	}

	switch strings.TrimSpace(choice) {
	case "1", "cloud":
		return config.ProviderCloud, nil
	case "2", "local":
		return config.ProviderLocal, nil
	default:
		return "", &ValidationError{
			Field:   "provider",
			Value:   choice,
			Reason:  "must be 1 (cloud) or 2 (local)",
			Example: "1",
		}
	}
}

// setupCloud collects the API endpoint, key, and model for the cloud
// provider, and verifies the key when one is entered.
func setupCloud(line *liner.State, cfg *config.Config) error {
	fmt.Println()
	fmt.Println(SectionStyle.Render("Cloud provider"))

	baseURL, err := promptWithDefault(line, "API base URL", cfg.Cloud.BaseURL)
	if err != nil {
		return err
	}
	cfg.Cloud.BaseURL = strings.TrimSpace(baseURL)

	// The key is read without echo. An empty entry keeps the stored key.
	hint := ""
	if cfg.Cloud.APIKey != "" {
		hint = DimStyle.Render(" (blank keeps current)")
	}
	fmt.Printf("API key%s: ", hint)
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return WrapError(err, "reading API key")
	}
	if key := strings.TrimSpace(string(keyBytes)); key != "" {
		cfg.Cloud.APIKey = key
	}

	model, err := promptWithDefault(line, "Model", cfg.Cloud.Model)
	if err != nil {
		return err
	}
	cfg.Cloud.Model = strings.TrimSpace(model)

	if cfg.Cloud.APIKey == "" {
		fmt.Println(WarningStyle.Render("[WARN]") + " no API key set; cloud requests will fail until you add one")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupProbeTimeout)
	defer cancel()

	client := cloud.NewClient(cfg.Cloud.APIKey, cfg.Cloud.BaseURL, cfg.Cloud.Model)
	if err := client.ValidateKey(ctx); err != nil {
		fmt.Println(WarningStyle.Render("[WARN]") + " key check failed: " + err.Error())
		fmt.Println(DimStyle.Render("  saved anyway; fix it later with: ladle config set cloud.api_key <key>"))
		return nil
	}
	fmt.Println(SuccessStyle.Render("[OK]") + " key verified")
	return nil
}

// setupLocal points the config at a running Ollama server and picks a
// model from what it has pulled.
func setupLocal(line *liner.State, cfg *config.Config) error {
	fmt.Println()
	fmt.Println(SectionStyle.Render("Local provider (Ollama)"))

	baseURL, err := promptWithDefault(line, "Ollama URL", cfg.Local.BaseURL)
	if err != nil {
		return err
	}
	cfg.Local.BaseURL = strings.TrimSpace(baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), setupProbeTimeout)
	defer cancel()

	client := local.NewClient(cfg.Local.BaseURL)
	if err := client.CheckRunning(ctx); err != nil {
		fmt.Println(WarningStyle.Render("[WARN]") + " Ollama is not reachable at " + cfg.Local.BaseURL)
		fmt.Println(DimStyle.Render(local.ConnectionGuidance()))

		model, err := promptWithDefault(line, "Model", cfg.Local.Model)
		if err != nil {
			return err
		}
		cfg.Local.Model = strings.TrimSpace(model)
		return nil
	}

	names, err := client.ModelNames(ctx)
	if err != nil || len(names) == 0 {
		fmt.Println(WarningStyle.Render("[WARN]") + " no models installed")
		fmt.Println(DimStyle.Render("  pull one with: ollama pull llama3.2"))

		model, err := promptWithDefault(line, "Model", cfg.Local.Model)
		if err != nil {
			return err
		}
		cfg.Local.Model = strings.TrimSpace(model)
		return nil
	}

	fmt.Println("Installed models:")
	defChoice := "1"
	for i, name := range names {
		fmt.Printf("  %d. %s\n", i+1, name)
		if name == cfg.Local.Model {
			defChoice = strconv.Itoa(i + 1)
		}
	}

	choice, err := promptWithDefault(line, "Choose", defChoice)
	if err != nil {
		return err
	}
	idx, convErr := strconv.Atoi(strings.TrimSpace(choice))
	if convErr != nil || idx < 1 || idx > len(names) {
		// Accept a model name typed directly.
		cfg.Local.Model = strings.TrimSpace(choice)
		return nil
	}
	cfg.Local.Model = names[idx-1]
	return nil
}

// promptWithDefault reads a line, returning the default on empty input.
// Ctrl+C aborts the wizard.
func promptWithDefault(line *liner.State, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt += " [" + def + "]"
	}
	input, err := line.Prompt(prompt + ": ")
	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", NewCommandError("setup", "read input", "aborted", nil)
		}
		return "", WrapError(err, "reading input")
	}
	if strings.TrimSpace(input) == "" {
		return def, nil
	}
	return input, nil
}
