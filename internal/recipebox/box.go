// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipebox provides the SQLite-backed saved recipe store.
package recipebox

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/ladle/internal/recipe"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrRecipeNotFound = errors.New("recipe not found in box")
	ErrInvalidRecipe  = errors.New("invalid recipe")
)

// =============================================================================
// SCHEMA
// =============================================================================

// schema is the saved-recipes table. The full recipe is stored as a JSON
// document; title and tags are duplicated into columns for listing and
// search without decoding every document.
const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '',
	servings   INTEGER NOT NULL DEFAULT 0,
	document   TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recipes_title ON recipes(title);
CREATE INDEX IF NOT EXISTS idx_recipes_updated ON recipes(updated_at);
`

// =============================================================================
// SAVED RECIPE
// =============================================================================

// SavedRecipe is a recipe persisted in the box with its metadata.
type SavedRecipe struct {
	ID        string
	Recipe    *recipe.Recipe
	Source    string // model that generated it, free text
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry is the listing row for a saved recipe, without the full document.
type Entry struct {
	ID        string
	Title     string
	Tags      []string
	Servings  int
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// BOX
// =============================================================================

// Box is the saved recipe store.
type Box struct {
	db *sql.DB

	// MaxSaved caps stored recipes (0 = unlimited); oldest are evicted.
	MaxSaved int
}

// Open opens (creating if needed) the recipe box database at path.
func Open(path string) (*Box, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-8000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Box{db: db}, nil
}

// Close closes the underlying database.
func (b *Box) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save stores a recipe and returns its ID. A recipe without a title,
// ingredients, or instructions is rejected.
func (b *Box) Save(rec *recipe.Recipe, source string) (string, error) {
	if rec == nil || rec.Title == "" || len(rec.Ingredients) == 0 || len(rec.Instructions) == 0 {
		return "", ErrInvalidRecipe
	}

	document, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode recipe: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err = b.db.Exec(
		`INSERT INTO recipes (id, title, tags, servings, document, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Title, strings.Join(rec.Tags, ","), rec.Servings, string(document), source, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save recipe: %w", err)
	}

	if b.MaxSaved > 0 {
		b.enforceLimit()
	}

	return id, nil
}

// Update replaces the stored recipe under an existing ID.
func (b *Box) Update(id string, rec *recipe.Recipe) error {
	if rec == nil || rec.Title == "" || len(rec.Ingredients) == 0 || len(rec.Instructions) == 0 {
		return ErrInvalidRecipe
	}

	document, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}

	res, err := b.db.Exec(
		`UPDATE recipes SET title = ?, tags = ?, servings = ?, document = ?, updated_at = ? WHERE id = ?`,
		rec.Title, strings.Join(rec.Tags, ","), rec.Servings, string(document), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// enforceLimit evicts the oldest recipes beyond MaxSaved.
func (b *Box) enforceLimit() {
	b.db.Exec(
		`DELETE FROM recipes WHERE id IN (
			SELECT id FROM recipes ORDER BY updated_at DESC LIMIT -1 OFFSET ?
		)`, b.MaxSaved,
	)
}

// =============================================================================
// GET / LIST / SEARCH
// =============================================================================

// Get loads a saved recipe by ID.
func (b *Box) Get(id string) (*SavedRecipe, error) {
	row := b.db.QueryRow(
		`SELECT id, document, source, created_at, updated_at FROM recipes WHERE id = ?`, id,
	)

	var saved SavedRecipe
	var document string
	err := row.Scan(&saved.ID, &document, &saved.Source, &saved.CreatedAt, &saved.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal([]byte(document), &rec); err != nil {
		return nil, fmt.Errorf("corrupt recipe document %s: %w", id, err)
	}
	saved.Recipe = &rec
	return &saved, nil
}

// List returns all saved recipes, most recently updated first.
func (b *Box) List() ([]Entry, error) {
	rows, err := b.db.Query(
		`SELECT id, title, tags, servings, source, created_at, updated_at
		 FROM recipes ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search returns recipes whose title or tags match the query
// (case-insensitive substring).
func (b *Box) Search(query string) ([]Entry, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := b.db.Query(
		`SELECT id, title, tags, servings, source, created_at, updated_at
		 FROM recipes
		 WHERE lower(title) LIKE ? OR lower(tags) LIKE ?
		 ORDER BY updated_at DESC`,
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the number of saved recipes.
func (b *Box) Count() (int, error) {
	var n int
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var tags string
		if err := rows.Scan(&e.ID, &e.Title, &tags, &e.Servings, &e.Source, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a saved recipe by ID.
func (b *Box) Delete(id string) error {
	res, err := b.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// Clear removes all saved recipes.
func (b *Box) Clear() error {
	_, err := b.db.Exec(`DELETE FROM recipes`)
	return err
}
