// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package recipebox

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ladle/internal/recipe"
)

func openTestBox(t *testing.T) *Box {
	t.Helper()
	box, err := Open(filepath.Join(t.TempDir(), "recipebox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { box.Close() })
	return box
}

func toastRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		Title:        "Toast",
		Servings:     1,
		Ingredients:  []string{"bread", "butter"},
		Instructions: []string{"toast bread", "spread butter"},
		Tags:         []string{"quick", "easy"},
	}
}

func TestSaveAndGet(t *testing.T) {
	box := openTestBox(t)

	id, err := box.Save(toastRecipe(), "llama3.2")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	saved, err := box.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Toast", saved.Recipe.Title)
	assert.Equal(t, []string{"bread", "butter"}, saved.Recipe.Ingredients)
	assert.Equal(t, "llama3.2", saved.Source)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestSave_RejectsInvalidRecipe(t *testing.T) {
	box := openTestBox(t)

	_, err := box.Save(nil, "")
	assert.ErrorIs(t, err, ErrInvalidRecipe)

	_, err = box.Save(&recipe.Recipe{Title: "No steps", Ingredients: []string{"x"}}, "")
	assert.ErrorIs(t, err, ErrInvalidRecipe)
}

func TestGet_NotFound(t *testing.T) {
	box := openTestBox(t)
	_, err := box.Get("no-such-id")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestListAndSearch(t *testing.T) {
	box := openTestBox(t)

	_, err := box.Save(toastRecipe(), "llama3.2")
	require.NoError(t, err)

	curry := &recipe.Recipe{
		Title:        "Chickpea Curry",
		Servings:     4,
		Ingredients:  []string{"chickpeas", "coconut milk"},
		Instructions: []string{"simmer everything"},
		Tags:         []string{"vegan", "one-pot"},
	}
	_, err = box.Save(curry, "gpt-4o-mini")
	require.NoError(t, err)

	entries, err := box.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Most recently updated first.
	assert.Equal(t, "Chickpea Curry", entries[0].Title)
	assert.Contains(t, entries[0].Tags, "vegan")

	byTitle, err := box.Search("curry")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	byTag, err := box.Search("VEGAN")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Chickpea Curry", byTag[0].Title)

	none, err := box.Search("sushi")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdate(t *testing.T) {
	box := openTestBox(t)

	id, err := box.Save(toastRecipe(), "")
	require.NoError(t, err)

	updated := toastRecipe()
	updated.Title = "Cinnamon Toast"
	updated.Tags = []string{"quick", "dessert"}
	require.NoError(t, box.Update(id, updated))

	saved, err := box.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Cinnamon Toast", saved.Recipe.Title)

	assert.ErrorIs(t, box.Update("missing", updated), ErrRecipeNotFound)
}

func TestDeleteAndCount(t *testing.T) {
	box := openTestBox(t)

	id, err := box.Save(toastRecipe(), "")
	require.NoError(t, err)

	n, err := box.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, box.Delete(id))
	assert.ErrorIs(t, box.Delete(id), ErrRecipeNotFound)

	n, err = box.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMaxSavedEviction(t *testing.T) {
	box := openTestBox(t)
	box.MaxSaved = 3

	for i := 0; i < 5; i++ {
		rec := toastRecipe()
		_, err := box.Save(rec, "")
		require.NoError(t, err)
	}

	n, err := box.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestConcurrentSaves(t *testing.T) {
	box := openTestBox(t)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := box.Save(toastRecipe(), "worker"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Save() error = %v", err)
	}

	n, err := box.Count()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
