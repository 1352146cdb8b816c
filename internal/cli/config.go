// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration commands for the ladle CLI.
//
// Command: config [show|get|set|path]
//
// Examples:
//   ladle config show                        Show current configuration
//   ladle config get generation.temperature  Get one value
//   ladle config set provider local          Set a value and save
//   ladle config path                        Print the config file location
package cli

import (
	"fmt"

	"github.com/jeranaias/ladle/internal/config"
)

// HandleConfigCommand handles the "config" command.
func HandleConfigCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return configShow(args)
	case "get":
		return configGet(parser, args)
	case "set":
		return configSet(parser, args)
	case "path":
		return configPath(args)
	default:
		return ErrMissingArgument("subcommand", "ladle config [show|get|set|path]")
	}
}

// configShow prints the full configuration with the API key redacted.
func configShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		redacted := cfg.Clone()
		if redacted.Cloud.APIKey != "" {
			redacted.Cloud.APIKey = "[REDACTED]"
		}
		return NewJSONResponse("config", redacted).Print()
	}

	path, _ := config.ConfigPath()
	fmt.Println(TitleStyle.Render("ladle configuration"))
	fmt.Println(DimStyle.Render("  " + path))
	fmt.Println()
	fmt.Println(cfg.String())
	return nil
}

// configGet prints a single value addressed by dot notation.
func configGet(parser *ArgParser, args Args) error {
	key := parser.Positional(1)
	if key == "" {
		return ErrMissingArgument("key", "ladle config get generation.temperature")
	}

	value, err := config.Global().Get(key)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config.get", map[string]interface{}{key: value}).Print()
	}

	fmt.Printf("%v\n", value)
	return nil
}

// configSet sets a single value and persists the config.
func configSet(parser *ArgParser, args Args) error {
	key := parser.Positional(1)
	value := parser.Positional(2)
	if key == "" || value == "" {
		return ErrMissingArgument("key and value", "ladle config set provider local")
	}

	cfg := config.Global()
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return WrapError(err, "saving config")
	}

	if args.JSON {
		return NewJSONResponse("config.set", map[string]string{key: value}).Print()
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}

// configPath prints the config file location.
func configPath(args Args) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config.path", map[string]string{"path": path}).Print()
	}

	fmt.Println(path)
	return nil
}
