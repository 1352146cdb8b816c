// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application. It is built
// once at startup and passed explicitly to every renderer; nothing in the
// UI reaches for a package-level theme.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	MessageLabel    lipgloss.Style
	MessageTime     lipgloss.Style

	// ==========================================================================
	// RECIPE CARD STYLES
	// ==========================================================================

	CardBox           lipgloss.Style
	CardTitle         lipgloss.Style
	CardDescription   lipgloss.Style
	CardMeta          lipgloss.Style
	SectionIngredient lipgloss.Style
	SectionStep       lipgloss.Style
	SectionTip        lipgloss.Style
	SectionHeading    lipgloss.Style
	StepNumber        lipgloss.Style
	NutritionBox      lipgloss.Style
	NutritionLabel    lipgloss.Style
	MoreIndicator     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ModeLocal    lipgloss.Style
	ModeCloud    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ThinkingTime lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox        lipgloss.Style
	ErrorTitle      lipgloss.Style
	ErrorMessage    lipgloss.Style
	ErrorSuggestion lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox      lipgloss.Style
	WelcomeLogo     lipgloss.Style
	WelcomeVersion  lipgloss.Style
	WelcomeInfo     lipgloss.Style
	WelcomeKey      lipgloss.Style
	WelcomePressKey lipgloss.Style

	// ==========================================================================
	// STATISTICS STYLES
	// ==========================================================================

	StatsBar   lipgloss.Style
	StatsLabel lipgloss.Style
	StatsValue lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Herb).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Herb).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Herb)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.MessageLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Recipe cards
	t.CardBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Herb).
		Padding(1, 2)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Herb)

	t.CardDescription = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.CardMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SectionIngredient = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(IngredientAccent).
		PaddingLeft(1)

	t.SectionStep = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(InstructionAccent).
		PaddingLeft(1)

	t.SectionTip = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(TipAccent).
		PaddingLeft(1).
		Italic(true)

	t.SectionHeading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Saffron)

	t.StepNumber = lipgloss.NewStyle().
		Foreground(InstructionAccent).
		Bold(true)

	t.NutritionBox = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.NutritionLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.MoreIndicator = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Herb).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Honey).
		Align(lipgloss.Right)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ModeLocal = lipgloss.NewStyle().
		Foreground(Mint).
		Bold(true)

	t.ModeCloud = lipgloss.NewStyle().
		Foreground(Honey).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Herb).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Saffron)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ThinkingTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Tomato).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Tomato).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ErrorSuggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(2)

	// Welcome screen
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Herb).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(Herb).
		Bold(true)

	t.WelcomeVersion = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.WelcomeKey = lipgloss.NewStyle().
		Foreground(Saffron).
		Bold(true)

	t.WelcomePressKey = lipgloss.NewStyle().
		Foreground(Herb).
		Blink(true)

	// Statistics
	t.StatsBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.StatsLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatsValue = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// =============================================================================
// TAG BADGES
// =============================================================================

// tagBadge pairs a badge color with its emoji.
type tagBadge struct {
	color lipgloss.AdaptiveColor
	emoji string
}

// tagBadgeKeywords maps tag substrings to badge styles. Checked in order
// so the more specific food keywords win over the generic ones.
var tagBadgeKeywords = []struct {
	keywords []string
	badge    tagBadge
}{
	{[]string{"healthy", "nutritious", "vitamin"}, tagBadge{TagHealthy, "🥗"}},
	{[]string{"vegetarian", "vegan", "plant"}, tagBadge{TagDiet, "🌱"}},
	{[]string{"quick", "fast", "minute"}, tagBadge{TagQuick, "⚡"}},
	{[]string{"easy", "simple", "beginner"}, tagBadge{TagEasy, "👌"}},
	{[]string{"tasty", "delicious", "flavor"}, tagBadge{TagTasty, "😋"}},
	{[]string{"protein", "muscle", "strength"}, tagBadge{TagHealthy, "💪"}},
}

// TagStyle returns the badge style and emoji for a recipe tag. Unknown
// tags get a neutral badge.
func (t *Theme) TagStyle(tag string) (lipgloss.Style, string) {
	lower := strings.ToLower(tag)
	badge := tagBadge{TagDefault, "🏷️"}
	for _, entry := range tagBadgeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				badge = entry.badge
				break
			}
		}
		if badge.color != TagDefault {
			break
		}
	}

	style := lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(badge.color).
		Padding(0, 1).
		Bold(true)
	return style, badge.emoji
}

// RenderTag renders a single tag as an emoji-prefixed badge.
func (t *Theme) RenderTag(tag string) string {
	style, emoji := t.TagStyle(tag)
	return style.Render(emoji + " " + tag)
}
