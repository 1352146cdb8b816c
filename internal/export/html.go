// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"html/template"
	"time"

	"github.com/jeranaias/ladle/internal/recipe"
)

// recipeTemplate is a single-file recipe card page. Styling is inlined so
// the export has no external dependencies.
var recipeTemplate = template.Must(template.New("recipe").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Recipe.Title}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #2d2a26; background: #faf7f2; }
  h1 { border-bottom: 3px solid #d97742; padding-bottom: .3rem; }
  .meta { color: #6b6459; font-style: italic; margin-bottom: 1.5rem; }
  .tags span { display: inline-block; background: #efe5d8; border-radius: 1rem; padding: .15rem .7rem; margin-right: .4rem; font-size: .85rem; }
  ol li, ul li { margin-bottom: .4rem; }
  .nutrition { background: #f2ece2; border-radius: .5rem; padding: .8rem 1.2rem; }
  footer { margin-top: 2rem; color: #a39a8d; font-size: .8rem; }
</style>
</head>
<body>
<h1>{{.Recipe.Title}}</h1>
{{if .Recipe.Description}}<p class="meta">{{.Recipe.Description}}</p>{{end}}
{{if .MetaLine}}<p class="meta">{{.MetaLine}}</p>{{end}}
{{if .Recipe.Tags}}<p class="tags">{{range .Recipe.Tags}}<span>{{.}}</span>{{end}}</p>{{end}}
<h2>Ingredients</h2>
<ul>
{{range .Recipe.Ingredients}}  <li>{{.}}</li>
{{end}}</ul>
<h2>Instructions</h2>
<ol>
{{range .Recipe.Instructions}}  <li>{{.}}</li>
{{end}}</ol>
{{if .Recipe.Tips}}<h2>Tips</h2>
<ul>
{{range .Recipe.Tips}}  <li>{{.}}</li>
{{end}}</ul>{{end}}
{{if .Nutrition}}<h2>Nutrition (per serving)</h2>
<ul class="nutrition">
{{range .Nutrition}}  <li><strong>{{index . 0}}</strong>: {{index . 1}}</li>
{{end}}</ul>{{end}}
{{if .Footer}}<footer>{{.Footer}}</footer>{{end}}
</body>
</html>
`))

// RecipeHTML renders a recipe as a standalone HTML page.
func RecipeHTML(rec *recipe.Recipe, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	footer := ""
	if opts.IncludeMetadata {
		footer = "Exported " + time.Now().Format("2006-01-02 15:04") + " by ladle"
	}

	var nutrition [][2]string
	if !rec.Nutrition.Empty() {
		nutrition = nutritionRows(rec.Nutrition)
	}

	var buf bytes.Buffer
	err := recipeTemplate.Execute(&buf, struct {
		Recipe    *recipe.Recipe
		MetaLine  string
		Nutrition [][2]string
		Footer    string
	}{
		Recipe:    rec,
		MetaLine:  recipeMetaLine(rec),
		Nutrition: nutrition,
		Footer:    footer,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
