// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for ladle.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdBox
	CmdModels
	CmdStatus
	CmdConfig
	CmdSetup
	CmdDoctor
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	JSON    bool // Output in JSON format
	Local   bool // Force the local provider for this invocation
	Cloud   bool // Force the cloud provider for this invocation

	// Command-specific
	Query      string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `ladle - recipe sous-chef for the terminal

Ladle wraps a cloud or local LLM behind a chat interface and turns
model responses into structured, saveable recipe cards.

Usage:
  ladle                      Start the chat TUI (default)
  ladle ask "craving"        One-shot recipe generation
  ladle box [subcommand]     Manage the recipe box
  ladle models               List models for the active provider
  ladle status, s            Show provider and recipe box status
  ladle config [show|get|set|path]  Configuration
  ladle setup                First-run wizard
  ladle doctor               System diagnostics
  ladle version              Show version
  ladle help                 Show this help

Ask Command:
  ladle ask "comfort food for a rainy day"
    --json                   Output structured JSON (recipe included when parsed)
    --raw                    Print the raw model response without rendering
    --local                  Use the local Ollama provider for this query
    --cloud                  Use the cloud provider for this query
    -m, --model NAME         Override the configured model
  echo "use up leftover rice" | ladle ask    Read the prompt from stdin

Box Commands:
  ladle box list             List saved recipes
  ladle box show <id>        Show a saved recipe card
  ladle box search <query>   Search titles and tags
  ladle box export <id>      Export a recipe to a file
    --format md|json|html    Export format (default: md)
    --output DIR             Output directory
  ladle box delete <id>      Delete a saved recipe
    --confirm                Skip the confirmation prompt
  ladle box clear --confirm  Delete all saved recipes

Config Commands:
  ladle config show          Show current configuration
  ladle config get <key>     Get one value (e.g. generation.temperature)
  ladle config set <key> <value>  Set a value
  ladle config path          Print the config file location

Global Flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --model NAME    Override default model
  --json          Machine-readable JSON output

Examples:
  ladle                                   Start the chat TUI
  ladle ask "quick weeknight pasta"       Generate one recipe
  ladle ask --local "miso soup"           Force the local provider
  ladle box search chicken                Find saved chicken recipes
  ladle box export 1 --format html        Export the newest recipe
  ladle config set provider local         Switch default provider
  ladle doctor                            Check connectivity and config

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("ladle version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No arguments: default to the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "box", "recipes", "recipe":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdBox, parsedArgs

	case "models", "model":
		return CmdModels, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "setup", "init", "wizard":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdSetup, parsedArgs

	case "doctor":
		for _, arg := range remaining {
			if arg == "--fix" {
				parsedArgs.Subcommand = "fix"
			}
		}
		return CmdDoctor, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: suggest a correction, otherwise treat the
		// whole line as an ask query so `ladle something tasty` works.
		if suggestion := SuggestCommand(cmd); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Unknown command %q. Did you mean %q?\n", cmd, suggestion)
			os.Exit(ExitUsageError)
		}
		parseAskArgs(&parsedArgs, append([]string{cmd}, remaining...))
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--local":
			parsedArgs.Local = true
		case "--cloud":
			parsedArgs.Cloud = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		case "--raw":
			args.Subcommand = "raw"
		case "--local":
			args.Local = true
		case "--cloud":
			args.Cloud = true
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	exitOnError(HandleAskCommand(args), args.JSON)
}

// HandleBox handles the "box" command.
func HandleBox(args Args) {
	exitOnError(HandleBoxCommand(args), args.JSON)
}

// HandleModels handles the "models" command.
func HandleModels(args Args) {
	exitOnError(HandleModelsCommand(args), args.JSON)
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) {
	exitOnError(HandleStatusCommand(args), args.JSON)
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	exitOnError(HandleConfigCommand(args), args.JSON)
}

// HandleSetup handles the "setup" command.
func HandleSetup(args Args) {
	exitOnError(HandleSetupCommand(args), args.JSON)
}

// HandleDoctor handles the "doctor" command.
func HandleDoctor(args Args) {
	exitOnError(HandleDoctorCommand(args), args.JSON)
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		NewJSONResponse("version", data).Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}

// exitOnError prints the error and exits with the matching code.
func exitOnError(err error, jsonMode bool) {
	if err == nil {
		return
	}
	DisplayError(err, jsonMode)
	os.Exit(GetExitCode(err))
}
