// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Environment diagnostics for the ladle CLI.
//
// Command: doctor [--fix]
//
// Runs a series of health checks (config, providers, recipe box) and
// reports pass/warn/fail for each. With --fix, creates the config file
// and data directory when they are missing.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/recipebox"
)

// doctorProbeTimeout bounds each network check.
const doctorProbeTimeout = 8 * time.Second

// HandleDoctorCommand runs all health checks and prints a report.
func HandleDoctorCommand(args Args) error {
	fix := args.Subcommand == "fix"

	if fix {
		if err := doctorFix(args); err != nil {
			return err
		}
	}

	checks := []DoctorCheck{
		checkConfigFile(),
		checkCloudKey(),
		checkOllama(),
		checkRecipeBox(),
	}

	summary := DoctorSummary{}
	for _, c := range checks {
		switch c.Status {
		case "ok":
			summary.Passed++
		case "warn":
			summary.Warned++
		default:
			summary.Failed++
		}
	}
	summary.Healthy = summary.Failed == 0

	if args.JSON {
		return NewJSONResponse("doctor", DoctorData{Checks: checks, Summary: summary}).Print()
	}

	fmt.Println(TitleStyle.Render("ladle doctor"))
	for _, c := range checks {
		fmt.Printf("  %s %s\n", RenderStatus(c.Status), c.Name)
		if c.Message != "" {
			fmt.Printf("      %s\n", DimStyle.Render(c.Message))
		}
		if c.Fix != "" && c.Status != "ok" {
			fmt.Printf("      %s\n", DimStyle.Render("fix: "+c.Fix))
		}
	}

	fmt.Println()
	if summary.Healthy {
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("%d checks passed", summary.Passed)))
	} else {
		fmt.Println(ErrorStyle.Render(fmt.Sprintf("%d failed", summary.Failed)) +
			DimStyle.Render(fmt.Sprintf(" | %d passed, %d warnings", summary.Passed, summary.Warned)))
	}
	return nil
}

// =============================================================================
// CHECKS
// =============================================================================

func checkConfigFile() DoctorCheck {
	check := DoctorCheck{Name: "config file"}

	path, err := config.ConfigPath()
	if err != nil {
		check.Status = "fail"
		check.Message = err.Error()
		return check
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		check.Status = "warn"
		check.Message = "not found at " + path + " (defaults in use)"
		check.Fix = "ladle setup"
		return check
	}

	if _, err := config.LoadFromPath(path); err != nil {
		check.Status = "fail"
		check.Message = "unreadable: " + err.Error()
		check.Fix = "ladle doctor --fix"
		return check
	}

	check.Status = "ok"
	check.Message = path
	return check
}

func checkCloudKey() DoctorCheck {
	check := DoctorCheck{Name: "cloud API key"}
	cfg := config.Global()

	if cfg.Cloud.APIKey == "" {
		check.Status = "warn"
		check.Message = "not set; cloud provider unavailable"
		check.Fix = "ladle setup"
		return check
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorProbeTimeout)
	defer cancel()

	client := cloud.NewClient(cfg.Cloud.APIKey, cfg.Cloud.BaseURL, cfg.Cloud.Model)
	if err := client.ValidateKey(ctx); err != nil {
		check.Status = "fail"
		check.Message = "key set but rejected: " + err.Error()
		check.Fix = "ladle config set cloud.api_key <key>"
		return check
	}

	check.Status = "ok"
	check.Message = "verified (" + client.APIKeyMasked() + ")"
	return check
}

func checkOllama() DoctorCheck {
	check := DoctorCheck{Name: "local Ollama server"}
	cfg := config.Global()

	ctx, cancel := context.WithTimeout(context.Background(), doctorProbeTimeout)
	defer cancel()

	client := local.NewClient(cfg.Local.BaseURL)
	if err := client.CheckRunning(ctx); err != nil {
		check.Status = "warn"
		check.Message = "not reachable at " + cfg.Local.BaseURL
		check.Fix = "ollama serve"
		return check
	}

	names, err := client.ModelNames(ctx)
	if err != nil || len(names) == 0 {
		check.Status = "warn"
		check.Message = "running but no models installed"
		check.Fix = "ollama pull llama3.2"
		return check
	}

	check.Status = "ok"
	check.Message = fmt.Sprintf("running, %d models", len(names))
	return check
}

func checkRecipeBox() DoctorCheck {
	check := DoctorCheck{Name: "recipe box"}

	path, err := config.RecipeBoxPath()
	if err != nil {
		check.Status = "fail"
		check.Message = err.Error()
		return check
	}

	box, err := recipebox.Open(path)
	if err != nil {
		check.Status = "fail"
		check.Message = "cannot open " + path + ": " + err.Error()
		check.Fix = "ladle doctor --fix"
		return check
	}
	defer box.Close()

	count, err := box.Count()
	if err != nil {
		check.Status = "fail"
		check.Message = "database error: " + err.Error()
		return check
	}

	check.Status = "ok"
	check.Message = fmt.Sprintf("%s (%d saved)", path, count)
	return check
}

// =============================================================================
// FIXES
// =============================================================================

// doctorFix creates the config file and data directory when missing.
func doctorFix(args Args) error {
	if _, err := config.EnsureConfigDir(); err != nil {
		return WrapError(err, "creating config directory")
	}

	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := config.Default().Save(); err != nil {
			return WrapError(err, "writing default config")
		}
		if !args.JSON {
			fmt.Printf("%s wrote default config to %s\n", SuccessStyle.Render("[OK]"), path)
		}
	}

	boxPath, err := config.RecipeBoxPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(boxPath), 0o700); err != nil {
		return WrapError(err, "creating data directory")
	}
	return nil
}
