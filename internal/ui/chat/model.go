// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/model"
	"github.com/jeranaias/ladle/internal/recipebox"
	"github.com/jeranaias/ladle/internal/storage"
	"github.com/jeranaias/ladle/internal/ui/components"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving streaming response
	StateError                  // Showing an error
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Current streaming message
	streamingMsgID string
	streamingStats *model.Statistics
	streamBuffer   *StreamingBuffer
	cancelMgr      *cancelManager // pointer so Bubble Tea model copies share the mutex

	// Providers
	provider     string
	modelName    string
	localClient  *local.Client
	cloudClient  *cloud.Client
	localOptions *local.Options

	// Persistence
	box       *recipebox.Box
	convStore *storage.ConversationStore

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
	keyMap   KeyMap

	// Error state
	lastError error

	// View toggles
	showRaw  bool // /raw: show raw responses with JSON highlighting
	showTips bool

	// App identity
	version string
}

// New creates a new chat model wired to the given configuration.
func New(theme *styles.Theme, cfg *config.Config, version string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What are you craving?"
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	conv := model.NewConversation()

	m := Model{
		state:        StateReady,
		theme:        theme,
		conversation: conv,
		viewport:     vp,
		input:        ti,
		spinner:      components.NewSpinner(theme),
		keyMap:       DefaultKeyMap(),
		streamBuffer: NewStreamingBuffer(),
		cancelMgr:    newCancelManager(),
		version:      version,
		showTips:     true,
	}
	m.ApplyConfig(cfg)
	return m
}

// ApplyConfig wires clients and generation options from the settings.
// Called at startup and whenever the settings file changes on disk.
func (m *Model) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	m.provider = cfg.Provider
	m.modelName = cfg.ActiveModel()
	m.showTips = cfg.UI.ShowTips
	m.conversation.Provider = cfg.Provider
	m.conversation.Model = m.modelName

	m.localClient = local.NewClient(cfg.Local.BaseURL)
	m.cloudClient = cloud.NewClient(cfg.Cloud.APIKey, cfg.Cloud.BaseURL, cfg.Cloud.Model).
		WithGeneration(cfg.Generation.Temperature, cfg.Generation.MaxTokens)
	m.localOptions = &local.Options{
		Temperature: cfg.Generation.Temperature,
		NumPredict:  cfg.Generation.MaxTokens,
	}
}

// SetRecipeBox wires the recipe box used by /save.
func (m *Model) SetRecipeBox(box *recipebox.Box) {
	m.box = box
}

// SetConversationStore wires the store used for conversation persistence.
func (m *Model) SetConversationStore(store *storage.ConversationStore) {
	m.convStore = store
}

// GetConversation returns the current conversation.
func (m *Model) GetConversation() *model.Conversation {
	return m.conversation
}

// GetState returns the current state.
func (m *Model) GetState() State {
	return m.state
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkLocalCmd())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamTokenMsg:
		return m.handleStreamToken(msg)

	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case ModelsMsg:
		return m.handleModels(msg)

	case ModelSwitchedMsg:
		return m.handleModelSwitched(msg)

	case ProviderSwitchedMsg:
		return m.handleProviderSwitched(msg)

	case OllamaStatusMsg:
		return m.handleOllamaStatus(msg)

	case RecipeSavedMsg:
		return m.handleRecipeSaved(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)

	case ConversationSavedMsg:
		return m.handleConversationSaved(msg)

	case ConfigReloadedMsg:
		m.ApplyConfig(msg.Config)
		m.conversation.AddSystemMessage("Settings reloaded from disk.")
		m.updateViewport()
		return m, nil

	case ErrorMsg:
		m.lastError = msg.Err
		m.state = StateError
		return m, nil

	case ErrorDismissMsg:
		m.lastError = nil
		m.state = StateReady
		m.input.Focus()
		return m, textinput.Blink

	default:
		var cmds []tea.Cmd
		if m.state == StateReady {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinCmd)

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)

		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// RESIZE AND KEY HANDLING
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Layout: header + viewport + input area + status bar. Conservative
	// reserved heights so the viewport is never too tall.
	const (
		headerHeight    = 2
		inputAreaHeight = 4
		statusBarHeight = 2
	)

	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.Width = maxInt(m.width, 1)
	m.viewport.Height = viewportHeight

	inputWidth := m.width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}

	m.updateViewport()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Global quit.
	if keyStr == "ctrl+c" || keyStr == "ctrl+q" {
		m.cancelMgr.cancel()
		return m, tea.Quit
	}

	// Error state: any of these dismiss.
	if m.state == StateError {
		switch keyStr {
		case "esc", "enter", " ":
			m.lastError = nil
			m.state = StateReady
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	// Streaming state: Esc cancels, navigation still works.
	if m.state == StateStreaming {
		if keyStr == "esc" {
			return m.cancelStreaming()
		}
		return m.handleNavigationKeys(msg)
	}

	switch keyStr {
	case "enter":
		if strings.TrimSpace(m.input.Value()) != "" {
			return m.submitInput()
		}
		return m, nil

	case "pgup", "ctrl+u", "pgdown", "ctrl+d", "home", "end":
		return m.handleNavigationKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNavigationKeys handles viewport scrolling.
func (m Model) handleNavigationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
	case "up":
		m.viewport.LineUp(1)
	case "down":
		m.viewport.LineDown(1)
	case "home":
		m.viewport.GotoTop()
	case "end":
		m.viewport.GotoBottom()
	}
	return m, nil
}

// cancelStreaming aborts the in-flight stream and finalizes the partial
// assistant message.
func (m Model) cancelStreaming() (tea.Model, tea.Cmd) {
	m.cancelMgr.cancel()

	if content, ok := m.streamBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
	if last := m.conversation.GetLastMessage(); last != nil && last.IsStreaming {
		m.conversation.AppendToLast("\n[cancelled]")
		m.conversation.FinalizeLast(m.streamingStats)
	}

	m.state = StateReady
	m.streamingMsgID = ""
	m.streamingStats = nil
	m.spinner.Stop()
	m.input.Focus()
	m.updateViewport()
	return m, textinput.Blink
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput sends the typed prompt to the model, or dispatches a
// slash command.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	m.conversation.AddUserMessage(text)
	assistant := m.conversation.AddAssistantMessage()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, m.startStream(assistant.ID)
}

// =============================================================================
// STREAM HANDLERS
// =============================================================================

func (m Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	m.streamingMsgID = msg.MessageID
	m.streamingStats = model.NewStatistics()
	m.state = StateStreaming
	m.streamBuffer.Reset()

	return m, tea.Batch(m.spinner.Start(), streamTickCmd())
}

func (m Model) handleStreamToken(msg StreamTokenMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if msg.IsFirst {
		if m.streamingStats != nil {
			m.streamingStats.RecordFirstToken()
		}
		m.spinner.Stop()
	}

	// Tokens are buffered; the tick handler renders them in batches.
	m.streamBuffer.Write(msg.Token)
	return m, nil
}

// handleStreamTick flushes buffered tokens into the viewport at ~30fps.
func (m Model) handleStreamTick(StreamTickMsg) (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}

	if content, ok := m.streamBuffer.Flush(); ok {
		m.conversation.AppendToLast(content)
		m.updateViewport()
		m.viewport.GotoBottom()
	}
	return m, streamTickCmd()
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if content, ok := m.streamBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}

	stats := msg.Stats
	if stats == nil {
		stats = m.streamingStats
	}
	m.conversation.FinalizeLast(stats)
	if stats != nil {
		m.conversation.TokensUsed += stats.PromptTokens + stats.CompletionTokens
	}

	m.state = StateReady
	m.streamingMsgID = ""
	m.streamingStats = nil
	m.spinner.Stop()
	m.cancelMgr.cancel()

	m.updateViewport()
	m.viewport.GotoBottom()
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if content, ok := m.streamBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
	if last := m.conversation.GetLastMessage(); last != nil && last.IsStreaming {
		m.conversation.FinalizeLast(m.streamingStats)
		if last.IsEmpty() {
			m.conversation.RemoveMessage(last.ID)
		}
	}

	m.streamingMsgID = ""
	m.streamingStats = nil
	m.spinner.Stop()
	m.cancelMgr.cancel()

	m.lastError = msg.Error
	m.state = StateError
	m.updateViewport()
	return m, nil
}

// =============================================================================
// PROVIDER HANDLERS
// =============================================================================

func (m Model) handleModels(msg ModelsMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.lastError = msg.Error
		m.state = StateError
		return m, nil
	}

	if len(msg.Models) == 0 {
		m.conversation.AddSystemMessage("No models available for provider " + m.provider + ".")
	} else {
		m.conversation.AddSystemMessage("Available models:\n  " + strings.Join(msg.Models, "\n  "))
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleModelSwitched(msg ModelSwitchedMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.lastError = msg.Error
		m.state = StateError
		return m, nil
	}

	m.modelName = msg.Model
	m.conversation.Model = msg.Model
	m.conversation.AddSystemMessage("Switched to model: " + msg.Model)
	m.updateViewport()
	return m, nil
}

func (m Model) handleProviderSwitched(msg ProviderSwitchedMsg) (tea.Model, tea.Cmd) {
	m.provider = msg.Provider
	m.conversation.Provider = msg.Provider

	if cfg := config.Global(); cfg != nil {
		if msg.Provider == config.ProviderCloud {
			m.modelName = cfg.Cloud.Model
		} else {
			m.modelName = cfg.Local.Model
		}
	}
	m.conversation.Model = m.modelName
	m.conversation.AddSystemMessage("Provider switched to " + msg.Provider + " (" + m.modelName + ").")
	m.updateViewport()
	return m, nil
}

func (m Model) handleOllamaStatus(msg OllamaStatusMsg) (tea.Model, tea.Cmd) {
	if m.provider == config.ProviderLocal && !msg.Running {
		err := msg.Error
		if err == nil {
			err = local.ErrNotRunning
		}
		m.lastError = err
		m.state = StateError
	}
	return m, nil
}

// checkLocalCmd probes the Ollama server at startup when local mode is
// active.
func (m Model) checkLocalCmd() tea.Cmd {
	if m.provider != config.ProviderLocal {
		return nil
	}
	client := m.localClient
	return func() tea.Msg {
		if client == nil {
			return OllamaStatusMsg{Running: false, Error: local.ErrNotRunning}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := client.CheckRunning(ctx)
		return OllamaStatusMsg{Running: err == nil, Error: err}
	}
}

// =============================================================================
// PERSISTENCE HANDLERS
// =============================================================================

func (m Model) handleRecipeSaved(msg RecipeSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.conversation.AddSystemMessage("Save failed: " + msg.Error.Error())
	} else {
		m.conversation.AddSystemMessage("Saved \"" + msg.Title + "\" to the recipe box.")
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.conversation.AddSystemMessage("Export failed: " + msg.Error.Error())
	} else {
		m.conversation.AddSystemMessage("Exported to " + msg.Path)
	}
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleConversationSaved(msg ConversationSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.conversation.AddSystemMessage("Could not save conversation: " + msg.Error.Error())
		m.updateViewport()
	}
	return m, nil
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
