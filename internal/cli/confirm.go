// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Unified confirmation handling for destructive CLI commands.
//
// Standard pattern:
//  1. If --confirm flag is present, proceed without prompting
//  2. If --json mode, require --confirm flag (no interactive prompts in JSON mode)
//  3. If stdin is not a TTY, require --confirm flag (can't prompt)
//  4. Otherwise, show interactive prompt for confirmation

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RequireConfirmation checks if the user has confirmed a destructive action.
//
// Returns (true, nil) if confirmed, (false, nil) if the user declined,
// and (false, err) if confirmation was required but could not be obtained.
//
// Example:
//
//	confirmed, err := RequireConfirmation(confirmFlag, "delete all saved recipes", jsonMode)
//	if err != nil {
//	    return err
//	}
//	if !confirmed {
//	    ShowCancellationMessage()
//	    return nil
//	}
func RequireConfirmation(confirmFlag bool, action string, jsonMode bool) (bool, error) {
	if confirmFlag {
		return true, nil
	}

	if jsonMode {
		return false, fmt.Errorf("confirmation required: use --confirm flag for destructive actions in JSON mode")
	}

	// Can't prompt if stdin is not a TTY (piped input, cron jobs, CI)
	if !IsTTY() {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --confirm flag")
	}

	fmt.Println()
	fmt.Printf("Are you sure you want to %s? [y/N]: ", action)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}

// ShowCancellationMessage displays a standard cancellation message.
// Use this after RequireConfirmation returns false.
func ShowCancellationMessage() {
	fmt.Println()
	fmt.Println(DimStyle.Render("Cancelled."))
	fmt.Println()
}

// PromptYesNo prompts the user with a yes/no question.
// Returns false if stdin is not a TTY (cannot prompt).
func PromptYesNo(question string) bool {
	if !IsTTY() {
		return false
	}

	fmt.Printf("%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}
