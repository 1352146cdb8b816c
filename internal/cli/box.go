// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// box.go - Recipe box management for the ladle CLI.
//
// Command: box (aliases: recipes, recipe)
//
// Examples:
//   ladle box list                   List saved recipes
//   ladle box show 1                 Show the newest saved recipe
//   ladle box search thai curry      Search titles and tags
//   ladle box export 1 --format html Export a recipe
//   ladle box delete 1 --confirm     Delete a recipe
//   ladle box clear --confirm        Delete everything
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/export"
	"github.com/jeranaias/ladle/internal/recipebox"
	"github.com/jeranaias/ladle/internal/ui/components"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

// titleCaser renders saved-recipe titles consistently in listings.
var titleCaser = cases.Title(language.English)

// HandleBoxCommand handles the "box" command and its subcommands.
func HandleBoxCommand(args Args) error {
	path, err := config.RecipeBoxPath()
	if err != nil {
		return WrapError(err, "locating recipe box")
	}
	box, err := recipebox.Open(path)
	if err != nil {
		return WrapError(err, "opening recipe box")
	}
	defer box.Close()

	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls", "l":
		return boxList(box, args)
	case "show":
		return boxShow(box, parser, args)
	case "search":
		return boxSearch(box, parser, args)
	case "export":
		return boxExport(box, parser, args)
	case "delete", "rm":
		return boxDelete(box, parser, args)
	case "clear":
		return boxClear(box, parser, args)
	default:
		return ErrMissingArgument("subcommand", "ladle box [list|show|search|export|delete|clear]")
	}
}

// =============================================================================
// LISTING AND SEARCH
// =============================================================================

func boxList(box *recipebox.Box, args Args) error {
	entries, err := box.List()
	if err != nil {
		return WrapError(err, "listing recipes")
	}
	return printEntries("box.list", "Recipe Box", entries, args)
}

func boxSearch(box *recipebox.Box, parser *ArgParser, args Args) error {
	query := JoinPositionalArgs(parser, 1)
	if query == "" {
		return ErrMissingArgument("query", "ladle box search thai curry")
	}

	entries, err := box.Search(query)
	if err != nil {
		return WrapError(err, "searching recipes")
	}
	return printEntries("box.search", "Search: "+query, entries, args)
}

// printEntries renders a listing table, or JSON in --json mode.
func printEntries(command, title string, entries []recipebox.Entry, args Args) error {
	if args.JSON {
		data := BoxListData{Count: len(entries)}
		for _, e := range entries {
			data.Entries = append(data.Entries, BoxEntryData{
				ID:        e.ID,
				Title:     e.Title,
				Tags:      strings.Join(e.Tags, ","),
				Source:    e.Source,
				CreatedAt: e.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		return NewJSONResponse(command, data).Print()
	}

	fmt.Println(TitleStyle.Render(title))
	if len(entries) == 0 {
		fmt.Println(DimStyle.Render("  nothing saved yet; use /save in the chat"))
		return nil
	}

	for i, e := range entries {
		tags := ""
		if len(e.Tags) > 0 {
			tags = DimStyle.Render(" [" + strings.Join(e.Tags, ", ") + "]")
		}
		fmt.Printf("  %s %s%s\n",
			DimStyle.Render(fmt.Sprintf("%2d.", i+1)),
			ValueStyle.Render(titleCaser.String(e.Title)),
			tags)
		fmt.Printf("      %s\n", DimStyle.Render(e.CreatedAt.Format("Jan 2, 2006")+" | "+shortID(e.ID)))
	}
	fmt.Println()
	fmt.Println(DimStyle.Render(fmt.Sprintf("%d recipes | show with: ladle box show <n>", len(entries))))
	return nil
}

// =============================================================================
// SHOW AND EXPORT
// =============================================================================

func boxShow(box *recipebox.Box, parser *ArgParser, args Args) error {
	saved, err := resolveEntry(box, parser.Positional(1))
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("box.show", saved.Recipe).Print()
	}

	if IsStdoutTTY() {
		theme := styles.NewTheme()
		card := components.NewRecipeCard(saved.Recipe, theme)
		width := GetTerminalWidth()
		if width > 100 {
			width = 100
		}
		card.SetWidth(width)
		fmt.Println(card.View())
	} else {
		fmt.Println(components.PlainCard(saved.Recipe))
	}

	fmt.Println(DimStyle.Render("saved " + saved.CreatedAt.Format("Jan 2, 2006") + " | " + shortID(saved.ID)))
	return nil
}

func boxExport(box *recipebox.Box, parser *ArgParser, args Args) error {
	saved, err := resolveEntry(box, parser.Positional(1))
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(parser.FlagOrDefault("format", "md"))
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	if dir := parser.Flag("output"); dir != "" {
		opts.OutputDir = dir
	}

	path, err := export.RecipeToFile(saved.Recipe, format, opts)
	if err != nil {
		return WrapError(err, "exporting recipe")
	}

	if args.JSON {
		return NewJSONResponse("box.export", map[string]string{"path": path}).Print()
	}

	fmt.Printf("%s exported to %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

// =============================================================================
// DELETE AND CLEAR
// =============================================================================

func boxDelete(box *recipebox.Box, parser *ArgParser, args Args) error {
	saved, err := resolveEntry(box, parser.Positional(1))
	if err != nil {
		return err
	}

	confirmed, err := RequireConfirmation(parser.BoolFlag("confirm"),
		"delete \""+saved.Recipe.Title+"\"", args.JSON)
	if err != nil {
		return err
	}
	if !confirmed {
		ShowCancellationMessage()
		return nil
	}

	if err := box.Delete(saved.ID); err != nil {
		return WrapError(err, "deleting recipe")
	}

	if args.JSON {
		return NewJSONResponse("box.delete", map[string]string{"deleted": saved.ID}).Print()
	}

	fmt.Printf("%s deleted \"%s\"\n", SuccessStyle.Render("[OK]"), saved.Recipe.Title)
	return nil
}

func boxClear(box *recipebox.Box, parser *ArgParser, args Args) error {
	count, err := box.Count()
	if err != nil {
		return WrapError(err, "counting recipes")
	}
	if count == 0 {
		if !args.JSON {
			fmt.Println(DimStyle.Render("Recipe box is already empty."))
		}
		return nil
	}

	confirmed, err := RequireConfirmation(parser.BoolFlag("confirm"),
		fmt.Sprintf("delete all %d saved recipes", count), args.JSON)
	if err != nil {
		return err
	}
	if !confirmed {
		ShowCancellationMessage()
		return nil
	}

	if err := box.Clear(); err != nil {
		return WrapError(err, "clearing recipe box")
	}

	if args.JSON {
		return NewJSONResponse("box.clear", map[string]int{"deleted": count}).Print()
	}

	fmt.Printf("%s deleted %d recipes\n", SuccessStyle.Render("[OK]"), count)
	return nil
}

// =============================================================================
// ENTRY RESOLUTION
// =============================================================================

// resolveEntry finds a saved recipe by listing index (1 = newest) or by
// ID prefix.
func resolveEntry(box *recipebox.Box, ref string) (*recipebox.SavedRecipe, error) {
	if ref == "" {
		return nil, ErrMissingArgument("recipe", "ladle box show 1")
	}

	entries, err := box.List()
	if err != nil {
		return nil, WrapError(err, "listing recipes")
	}

	// Numeric reference: 1-based index into the listing.
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 1 || idx > len(entries) {
			return nil, ErrNotFound("recipe", ref)
		}
		return box.Get(entries[idx-1].ID)
	}

	// Otherwise match by ID prefix.
	for _, e := range entries {
		if strings.HasPrefix(e.ID, ref) {
			return box.Get(e.ID)
		}
	}
	return nil, ErrNotFound("recipe", ref)
}

// shortID returns the first ID segment for compact display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
