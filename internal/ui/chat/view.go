// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/model"
	"github.com/jeranaias/ladle/internal/ui/components"
)

// =============================================================================
// CHAT VIEW RENDERING
// =============================================================================

// renderChat assembles the full chat screen: header, message viewport,
// spinner or error, input line, and status bar.
func (m Model) renderChat() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var sections []string

	sections = append(sections, m.renderHeader(width))
	sections = append(sections, m.viewport.View())

	if m.state == StateStreaming && m.spinner.IsActive() {
		sections = append(sections, m.spinner.View())
	}

	if m.state == StateError && m.lastError != nil {
		errBox := components.NewErrorBox(m.lastError, m.theme)
		errBox.SetWidth(width)
		sections = append(sections,
			errBox.View(),
			m.theme.ShortcutDesc.Render("  press Esc or Enter to continue"),
		)
	}

	sections = append(sections, m.renderInput(width))
	sections = append(sections, m.renderStatusBar(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title bar.
func (m Model) renderHeader(width int) string {
	header := components.NewHeader(m.theme)
	header.SetWidth(width)
	header.Subtitle = m.conversation.Title
	return header.View()
}

// renderInput renders the prompt line.
func (m Model) renderInput(width int) string {
	line := m.input.View()
	if m.state == StateStreaming {
		line = m.theme.InputPlaceholder.Render("generating… press Esc to cancel")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(m.theme.InputContainer.GetBorderTopForeground()).
		Width(width).
		Padding(0, 1).
		Render(line)
}

// renderStatusBar renders the provider/model/token footer.
func (m Model) renderStatusBar(width int) string {
	bar := components.NewStatusBar(m.theme)
	bar.SetWidth(width)
	bar.Provider = config.Provider(m.provider)
	bar.Model = m.modelName
	bar.TokensUsed = m.conversation.TokensUsed
	if m.box != nil {
		if n, err := m.box.Count(); err == nil {
			bar.SavedCount = n
		}
	}
	return bar.View()
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// renderMessages renders the conversation for the viewport. An empty
// conversation shows the welcome screen instead.
func (m Model) renderMessages() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	if m.conversation.IsEmpty() {
		welcome := components.NewWelcome(m.version, m.theme)
		welcome.SetWidth(width)
		welcome.Provider = config.Provider(m.provider)
		welcome.Model = m.modelName
		welcome.ShowTips = m.showTips
		return welcome.View()
	}

	messages := m.conversation.GetHistory()
	rendered := make([]string, 0, len(messages))
	for _, msg := range messages {
		rendered = append(rendered, m.renderMessage(msg, width))
	}
	return strings.Join(rendered, "\n")
}

// renderMessage renders a single message, honoring the /raw toggle for
// completed assistant responses.
func (m Model) renderMessage(msg *model.Message, width int) string {
	if m.showRaw && msg.Role == model.RoleAssistant && !msg.IsStreaming && msg.Content != "" {
		raw := components.NewRawView(msg.Content, m.theme)
		raw.SetMaxWidth(width)
		return m.theme.MessageTime.Render(msg.Role.DisplayName()) + "\n" + raw.View()
	}

	bubble := components.NewMessageBubble(msg, m.theme)
	bubble.SetWidth(width)
	return bubble.View()
}
