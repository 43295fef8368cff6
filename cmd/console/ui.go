package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/escape-room/internal/config"
	"github.com/jwebster45206/escape-room/pkg/engine"
	"github.com/jwebster45206/escape-room/pkg/scenario"
	"github.com/muesli/reflow/wordwrap"
)

const (
	PlaceHolderText = "Type a command here..."
	GameOverText    = "The game is over. /restart to play again, Ctrl+C to quit."
	commandPrefix   = "> "
)

// turnLimited is implemented by rules that cap the number of turns.
type turnLimited interface {
	Turns() int
	MaxTurns() int
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *config.Config
	logger       *slog.Logger
	observers    engine.Observers
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	status       string

	// Current game. The transcript is shared with the engine, which writes
	// all game text into it.
	game       *engine.Engine
	scenario   scenario.Scenario
	transcript *bytes.Buffer

	// Scenario selection state
	showScenarioModal bool
	scenarios         []scenario.Scenario
	selectedScenario  int

	// Quit confirmation state
	showQuitModal bool
}

type gameCreatedMsg struct {
	game       *engine.Engine
	scenario   scenario.Scenario
	transcript *bytes.Buffer
	err        error
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *config.Config, logger *slog.Logger, observers engine.Observers) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	scenarios := scenario.All()
	selected := 0
	for i, s := range scenarios {
		if s.Name == cfg.Scenario {
			selected = i
		}
	}

	return ConsoleUI{
		config:            cfg,
		logger:            logger,
		observers:         observers,
		textarea:          ta,
		chatViewport:      chatVp,
		metaViewport:      metaVp,
		showScenarioModal: true,
		scenarios:         scenarios,
		selectedScenario:  selected,
	}
}

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME") + "\n\n")

	content.WriteString("Game ID:\n")
	content.WriteString(m.game.GameID().String()[:8] + "...\n\n")

	content.WriteString("Scenario:\n")
	content.WriteString(m.scenario.Title() + "\n\n")

	content.WriteString("Moves:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", m.game.Turns()))

	if tl, ok := m.game.Room().Rules().(turnLimited); ok {
		content.WriteString("Turns:\n")
		content.WriteString(fmt.Sprintf("%d of %d\n\n", tl.Turns(), tl.MaxTurns()))
	}

	content.WriteString("Status:\n")
	content.WriteString(m.game.Outcome().String() + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy transcript\n")
	content.WriteString("• /restart: New game\n")

	return content.String()
}

// writeChatContent renders the transcript for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("ESCAPE ROOM") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	if m.transcript != nil {
		content.WriteString(formatTranscript(m.transcript.String(), chatWidth))
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.status != "" {
		content.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// formatTranscript wraps game text to width and highlights the player's
// own commands.
func formatTranscript(transcript string, width int) string {
	lines := strings.Split(transcript, "\n")
	formatted := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, commandPrefix) {
			formatted = append(formatted, userStyle.Render(wordwrap.String(line, width)))
			continue
		}
		formatted = append(formatted, wordwrap.String(line, width))
	}
	return strings.Join(formatted, "\n")
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m *ConsoleUI) refresh() {
	m.writeChatContent()
	if m.game != nil {
		m.metaViewport.SetContent(m.writeMetadata())
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle scenario modal first
	if m.showScenarioModal {
		return m.updateScenarioModal(msg)
	}

	// Handle quit modal second
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			m.play(input)
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// play echoes a player command into the transcript and steps the engine.
func (m *ConsoleUI) play(input string) {
	m.status = ""
	m.err = nil
	if m.game.Outcome() != engine.OutcomePlaying {
		m.status = GameOverText
		m.refresh()
		return
	}

	m.transcript.WriteString(commandPrefix + input + "\n")
	if outcome := m.game.Step(context.Background(), input); outcome != engine.OutcomePlaying {
		m.textarea.Placeholder = GameOverText
	}
	m.refresh()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.status = ""
	m.err = nil

	switch cmd {
	case "/help":
		m.transcript.WriteString("\n" + `Console commands:
• /help - Show this help
• /copy - Copy the transcript to the clipboard
• /restart - Choose a scenario and start over
• Ctrl+C - Quit game

Game commands:
`)
		if m.game.Outcome() == engine.OutcomePlaying {
			m.game.Step(context.Background(), "help")
		}
		m.transcript.WriteString("\n")

	case "/copy":
		if err := clipboard.WriteAll(m.transcript.String()); err != nil {
			m.err = fmt.Errorf("failed to copy transcript: %w", err)
			m.logger.Warn("Clipboard write failed", "error", err)
		} else {
			m.status = "Transcript copied to clipboard."
		}

	case "/restart":
		m.endGame()
		m.showScenarioModal = true
		return m, nil

	default:
		m.status = fmt.Sprintf("Unknown command %s. Try /help.", cmd)
	}

	m.refresh()
	return m, nil
}

// endGame quits a game in progress so observers see it end.
func (m *ConsoleUI) endGame() {
	if m.game != nil && m.game.Outcome() == engine.OutcomePlaying {
		m.game.Step(context.Background(), "quit")
	}
}

func (m ConsoleUI) startGame(s scenario.Scenario) tea.Cmd {
	return func() tea.Msg {
		var transcript bytes.Buffer
		r, err := s.Build(scenario.Settings{
			MaxTurns: m.config.MaxTurns,
			Output:   &transcript,
			Logger:   m.logger,
		})
		if err != nil {
			return gameCreatedMsg{err: fmt.Errorf("failed to build scenario: %w", err)}
		}

		game := engine.New(r,
			engine.WithOutput(&transcript),
			engine.WithLogger(m.logger),
			engine.WithObserver(m.observers),
		)
		game.Start(context.Background())
		return gameCreatedMsg{game: game, scenario: s, transcript: &transcript}
	}
}

func (m ConsoleUI) updateScenarioModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gameCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = ""
		m.game = msg.game
		m.scenario = msg.scenario
		m.transcript = msg.transcript
		m.showScenarioModal = false
		m.textarea.Placeholder = PlaceHolderText
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.ready = true
		m.refresh()
		m.textarea.Focus()
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedScenario > 0 {
				m.selectedScenario--
			}
		case tea.KeyDown:
			if m.selectedScenario < len(m.scenarios)-1 {
				m.selectedScenario++
			}
		case tea.KeyEnter:
			if len(m.scenarios) > 0 {
				return m, m.startGame(m.scenarios[m.selectedScenario])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			m.endGame()
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				m.endGame()
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showScenarioModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to give up on escaping?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderScenarioModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Select a Scenario"))
	content.WriteString("\n\n")

	for i, s := range m.scenarios {
		line := fmt.Sprintf("%s - %s", s.Title(), s.Description)
		if i == m.selectedScenario {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
		} else {
			content.WriteString(modalItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	if m.err != nil {
		content.WriteString("\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showScenarioModal {
		return m.renderScenarioModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
