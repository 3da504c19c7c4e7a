// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/poem"
	statsPkg "github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/store"
)

const blankWidth = 12

type wordStat struct {
	correct   int
	incorrect int
}

// Model implements the Bubble Tea drill UI.
type Model struct {
	config   model.Config
	store    *store.Store
	engine   *poem.Engine
	logger   *clog.Logger
	document string
	title    string

	width  int
	height int

	input textinput.Model

	drill     poem.Drill
	hasDrill  bool
	answer    poem.Revealed
	revealed  bool
	guess     string
	guessedOK bool
	notice    string
	noLines   bool

	sessionID string
	started   bool
	startedAt time.Time
	drills    int
	correct   int
	incorrect int
	wordStats map[string]*wordStat
	saved     bool

	allCorrect   int
	allIncorrect int
	allAcc       float64
	hasAll       bool
}

var (
	contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	lineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true).Underline(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true).Underline(true)
	guessStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a drill TUI model over a loaded engine.
// A nil store disables history.
func NewModel(cfg model.Config, st *store.Store, engine *poem.Engine, document string, logger *clog.Logger) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = strings.Repeat("_", blankWidth)
	input.Width = blankWidth
	input.CharLimit = 64

	if logger == nil {
		logger = clog.New(io.Discard)
	}
	m := &Model{
		config:    cfg,
		store:     st,
		engine:    engine,
		logger:    logger,
		document:  document,
		title:     engine.Meta().Heading(),
		input:     input,
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
		wordStats: map[string]*wordStat{},
	}
	m.nextDrill()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.finishSession()
			return m, tea.Quit
		}
		if m.noLines || !m.hasDrill || m.revealed {
			return m.updateIdle(msg)
		}
		if msg.Type == tea.KeyEnter {
			m.checkAnswer()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// updateIdle handles keys while no blank is waiting for input.
func (m *Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		m.finishSession()
		return m, tea.Quit
	}
	if m.noLines {
		return m, nil
	}
	switch msg.String() {
	case "enter", "n", " ":
		m.nextDrill()
		return m, textinput.Blink
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderContent() string {
	width := m.contentWidth()
	var parts []string
	if m.title != "" {
		parts = append(parts, titleStyle.Render(m.title), "")
	}
	if m.hasDrill {
		if m.drill.HasContext {
			parts = append(parts, wrapCells(textCells(m.drill.Context, contextStyle), width))
		}
		parts = append(parts, wrapCells(m.clozeCells(), width))
		if m.revealed && !m.guessedOK && strings.TrimSpace(m.guess) != "" {
			parts = append(parts, "", footerStyle.Render("you wrote ")+guessStyle.Render(m.guess))
		}
	}
	if m.notice != "" {
		parts = append(parts, "", noticeStyle.Render(m.notice))
	}
	content := strings.Join(parts, "\n")
	if width > 0 {
		content = lipgloss.NewStyle().Width(width).Render(content)
	}
	return content
}

func (m *Model) clozeCells() []cell {
	cells := textCells(m.drill.Prefix, lineStyle)
	if m.revealed {
		style := incorrectStyle
		if m.guessedOK {
			style = correctStyle
		}
		cells = append(cells, textCells(m.answer.Word, style)...)
	} else {
		cells = append(cells, blockCell(m.input.View()))
	}
	return append(cells, textCells(m.drill.Suffix, lineStyle)...)
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Drills %d", m.drills)}
	if graded := m.correct + m.incorrect; graded > 0 {
		acc, _ := statsPkg.SessionMetrics(m.correct, m.incorrect, 0)
		segments = append(segments, fmt.Sprintf("Session %.1f%%", acc*100))
	}
	if m.hasAll {
		segments = append(segments, fmt.Sprintf("All-time %.1f%%", m.allAcc*100))
	}
	segments = append(segments, m.keyHints())
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) keyHints() string {
	switch {
	case m.noLines:
		return "q quit"
	case !m.hasDrill || m.revealed:
		return "enter/n another line · q quit"
	default:
		return "enter check · esc quit"
	}
}

func (m *Model) nextDrill() {
	m.hasDrill = false
	m.revealed = false
	m.guess = ""
	m.guessedOK = false
	m.notice = ""
	m.input.Reset()

	attempts := max(0, m.config.Retries) + 1
	for i := 0; i < attempts; i++ {
		d, err := m.engine.NextDrill()
		if err == nil {
			m.drill = d
			m.hasDrill = true
			m.drills++
			m.input.Focus()
			return
		}
		switch {
		case errors.Is(err, poem.ErrNoEligibleLines):
			m.noLines = true
			m.notice = "This document has no lines to practice."
			m.logger.Warn("no eligible lines", "document", m.document)
			return
		case errors.Is(err, poem.ErrNoEligibleWord):
			m.logger.Debug("retrying drill", "attempt", i+1, "err", err)
		default:
			m.notice = err.Error()
			m.logger.Error("failed to create drill", "err", err)
			return
		}
	}
	m.notice = "No word long enough to hide on the chosen line. Press n to try another."
}

func (m *Model) checkAnswer() {
	answer, err := m.engine.Reveal()
	if err != nil {
		m.logger.Error("failed to reveal drill", "err", err)
		return
	}
	m.started = true
	m.answer = answer
	m.revealed = true
	m.guess = m.input.Value()
	m.guessedOK = poem.Grade(m.guess, answer.Word)
	m.input.Blur()

	entry := m.wordEntry(answer.Word)
	if m.guessedOK {
		m.correct++
		entry.correct++
	} else {
		m.incorrect++
		entry.incorrect++
	}
	m.recomputeAllTime()
}

func (m *Model) wordEntry(word string) *wordStat {
	entry, ok := m.wordStats[word]
	if !ok {
		entry = &wordStat{}
		m.wordStats[word] = entry
	}
	return entry
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Document: m.document})
	if err != nil {
		m.logger.Error("failed to load session stats", "err", err)
		return
	}
	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	correct := m.allCorrect + m.correct
	incorrect := m.allIncorrect + m.incorrect
	if correct+incorrect == 0 {
		return
	}
	m.allAcc, _ = statsPkg.SessionMetrics(correct, incorrect, 0)
	m.hasAll = true
}

// finishSession stores the session once, if anything was graded.
func (m *Model) finishSession() {
	if m.saved || !m.started || m.store == nil || m.config.NoHistory {
		return
	}
	m.saved = true
	endedAt := time.Now()
	stats := model.SessionStats{
		UUID:       m.sessionID,
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Document:   m.document,
		Title:      m.title,
		Drills:     m.drills,
		Correct:    m.correct,
		Incorrect:  m.incorrect,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	words := make([]model.WordStats, 0, len(m.wordStats))
	for word, entry := range m.wordStats {
		words = append(words, model.WordStats{
			Word:      word,
			Correct:   entry.correct,
			Incorrect: entry.incorrect,
		})
	}

	ctx := context.Background()
	id, err := m.store.InsertSession(ctx, stats, words)
	if err != nil {
		m.logger.Error("failed to save session", "err", err)
		return
	}
	m.logger.Debug("session saved", "id", id, "uuid", m.sessionID, "drills", stats.Drills, "correct", stats.Correct)
}
