package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/poem"
	"github.com/verte-zerg/recite/internal/store"
)

const roses = "Roses are red\nViolets are blue\n```\nSugar is sweet"

func picks(indexes ...int) poem.IndexFunc {
	return func(n int) int {
		if len(indexes) == 0 {
			return 0
		}
		i := indexes[0]
		indexes = indexes[1:]
		return i % n
	}
}

func newTestModel(t *testing.T, text string, st *store.Store, indexes ...int) *Model {
	t.Helper()
	engine := poem.New(picks(indexes...))
	engine.Load(text)
	return NewModel(model.Config{Retries: 2}, st, engine, "/poems/roses.md", nil)
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func pressEnter(m *Model) {
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModelShowsBlank(t *testing.T) {
	m := newTestModel(t, roses, nil, 1, 1)
	if !m.hasDrill || m.drill.Word != "blue" {
		t.Fatalf("expected drill on blue, got %+v", m.drill)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Roses are red") {
		t.Fatalf("expected context line in view:\n%s", view)
	}
	if !strings.Contains(view, "Violets are ") || strings.Contains(view, "blue") {
		t.Fatalf("expected hidden word in view:\n%s", view)
	}
}

func TestModelShowsHeading(t *testing.T) {
	m := newTestModel(t, "---\ntitle: Roses\nauthor: Anonymous\n---\n"+roses, nil, 1, 1)
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Roses by Anonymous") {
		t.Fatalf("expected heading in view:\n%s", view)
	}
}

func TestModelCheckCorrectAnswer(t *testing.T) {
	m := newTestModel(t, roses, nil, 1, 1)
	typeText(m, "Blue")
	pressEnter(m)

	if !m.revealed || !m.guessedOK {
		t.Fatalf("expected revealed correct answer, got revealed=%v ok=%v", m.revealed, m.guessedOK)
	}
	if m.correct != 1 || m.incorrect != 0 {
		t.Fatalf("unexpected counts: %d/%d", m.correct, m.incorrect)
	}
	if m.engine.State() != poem.StateRevealed {
		t.Fatalf("expected engine revealed, got %v", m.engine.State())
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Violets are blue") {
		t.Fatalf("expected full line after reveal:\n%s", view)
	}
}

func TestModelCheckWrongAnswer(t *testing.T) {
	m := newTestModel(t, roses, nil, 1, 0)
	typeText(m, "Daisies")
	pressEnter(m)

	if m.guessedOK || m.incorrect != 1 {
		t.Fatalf("expected incorrect guess, got ok=%v incorrect=%d", m.guessedOK, m.incorrect)
	}
	if m.wordStats["Violets"] == nil || m.wordStats["Violets"].incorrect != 1 {
		t.Fatalf("expected miss recorded for Violets: %+v", m.wordStats)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "you wrote Daisies") {
		t.Fatalf("expected guess echo:\n%s", view)
	}
}

func TestModelNextLine(t *testing.T) {
	m := newTestModel(t, roses, nil, 1, 1, 2, 0)
	pressEnter(m)
	if !m.revealed {
		t.Fatalf("expected reveal on enter")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.revealed || !m.hasDrill {
		t.Fatalf("expected a new hidden drill")
	}
	if m.drill.Target != "Sugar is sweet" || m.drill.Word != "Sugar" {
		t.Fatalf("unexpected next drill: %+v", m.drill)
	}
	if m.drills != 2 {
		t.Fatalf("expected 2 drills, got %d", m.drills)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input reset, got %q", m.input.Value())
	}
}

func TestModelNoEligibleLines(t *testing.T) {
	m := newTestModel(t, "\n```\n  ", nil)
	if !m.noLines || m.hasDrill {
		t.Fatalf("expected no-lines state")
	}
	if !strings.Contains(ansi.Strip(m.View()), "no lines to practice") {
		t.Fatalf("expected notice in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.hasDrill {
		t.Fatalf("expected no drill after n")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestModelRetriesNoEligibleWord(t *testing.T) {
	m := newTestModel(t, "a cat sat\non the mat", nil)
	if m.hasDrill || m.noLines {
		t.Fatalf("expected retry exhaustion without drill")
	}
	if !strings.Contains(m.notice, "Press n") {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}

func TestModelSavesSession(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "recite.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	m := newTestModel(t, roses, st, 1, 1)
	typeText(m, "blue")
	pressEnter(m)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{Document: "/poems/roses.md"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Correct != 1 {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	if sessions[0].UUID != m.sessionID {
		t.Fatalf("expected stored uuid %q, got %q", m.sessionID, sessions[0].UUID)
	}
	words, err := st.ListWordAggregatesForSessions(ctx, []int64{sessions[0].SessionID})
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	if len(words) != 1 || words[0].Word != "blue" {
		t.Fatalf("unexpected word stats: %+v", words)
	}

	again := newTestModel(t, roses, st, 0, 0)
	if !again.hasAll || again.allAcc != 1 {
		t.Fatalf("expected all-time accuracy from history, got %v %v", again.hasAll, again.allAcc)
	}
}

func TestModelSkipsEmptySession(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "recite.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m := newTestModel(t, roses, st, 0, 0)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected no stored sessions, got %d", len(sessions))
	}
}

func TestRenderFooter(t *testing.T) {
	m := &Model{drills: 3, correct: 2, incorrect: 1, hasAll: true, allAcc: 0.75, hasDrill: true}
	out := ansi.Strip(m.renderFooter())
	for _, want := range []string{"Drills 3", "Session 66.7%", "All-time 75.0%", "enter check"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
