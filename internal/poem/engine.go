// Package poem implements the cloze drill engine over a block of text.
package poem

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	fenceMarker = "```"
	minWordLen  = 4
)

var (
	// ErrNoEligibleLines reports a document without any usable line.
	ErrNoEligibleLines = errors.New("no eligible lines")
	// ErrNoEligibleWord reports a selected line without a word long enough to hide.
	ErrNoEligibleWord = errors.New("no eligible word")
	// ErrNoActiveDrill reports a reveal without a hidden drill.
	ErrNoActiveDrill = errors.New("no active drill")
)

// State is the engine's position in the drill cycle.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateHidden
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateHidden:
		return "hidden"
	case StateRevealed:
		return "revealed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IndexFunc returns an index in [0, n).
type IndexFunc func(n int) int

// Drill is one practice unit: a target line with one word hidden.
type Drill struct {
	Index      int
	Context    string
	HasContext bool
	Target     string
	Word       string
	Prefix     string
	Suffix     string
	State      State
}

// Revealed is the answer presentation for a drill.
type Revealed struct {
	Drill Drill
	Line  string
	Word  string
}

// Engine owns the poem text and the active drill.
type Engine struct {
	pick   IndexFunc
	loaded bool
	lines  []string
	meta   Meta
	drill  *Drill
}

// New returns an Engine. A nil pick uses a time-seeded source.
func New(pick IndexFunc) *Engine {
	if pick == nil {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		pick = rnd.Intn
	}
	return &Engine{pick: pick}
}

// Load replaces the poem text and discards any active drill.
func (e *Engine) Load(raw string) {
	e.drill = nil
	e.loaded = true
	e.meta = Meta{}
	if raw == "" {
		e.lines = nil
		return
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	body, meta, ok := splitFrontMatter(lines)
	if ok {
		e.meta = meta
	}
	e.lines = body
}

// Lines returns a copy of the loaded poem text.
func (e *Engine) Lines() []string {
	out := make([]string, len(e.lines))
	copy(out, e.lines)
	return out
}

// Meta returns the front-matter metadata of the loaded text, if any.
func (e *Engine) Meta() Meta {
	return e.meta
}

// State reports where the engine is in the drill cycle.
func (e *Engine) State() State {
	if !e.loaded {
		return StateUninitialized
	}
	if e.drill == nil {
		return StateReady
	}
	return e.drill.State
}

// Current returns the active drill.
func (e *Engine) Current() (Drill, bool) {
	if e.drill == nil {
		return Drill{}, false
	}
	return *e.drill, true
}

// CandidateLines yields the (index, line) pairs eligible for drilling.
func (e *Engine) CandidateLines() iter.Seq2[int, string] {
	lines := e.lines
	return func(yield func(int, string) bool) {
		for i, line := range lines {
			if !isCandidate(line) {
				continue
			}
			if !yield(i, line) {
				return
			}
		}
	}
}

// NextDrill selects a random candidate line and hides one of its words.
func (e *Engine) NextDrill() (Drill, error) {
	e.drill = nil

	var indexes []int
	for i := range e.CandidateLines() {
		indexes = append(indexes, i)
	}
	if len(indexes) == 0 {
		return Drill{}, ErrNoEligibleLines
	}

	index := indexes[e.pick(len(indexes))]
	target := e.lines[index]

	words := eligibleWords(target)
	if len(words) == 0 {
		return Drill{}, fmt.Errorf("line %d: %w", index, ErrNoEligibleWord)
	}
	word := words[e.pick(len(words))]
	prefix, suffix, _ := strings.Cut(target, word)

	d := Drill{
		Index:  index,
		Target: target,
		Word:   word,
		Prefix: prefix,
		Suffix: suffix,
		State:  StateHidden,
	}
	if index > 0 {
		d.Context = e.lines[index-1]
		d.HasContext = true
	}
	e.drill = &d
	return d, nil
}

// Reveal moves the active drill from hidden to revealed.
func (e *Engine) Reveal() (Revealed, error) {
	if e.drill == nil || e.drill.State != StateHidden {
		return Revealed{}, ErrNoActiveDrill
	}
	e.drill.State = StateRevealed
	d := *e.drill
	return Revealed{
		Drill: d,
		Line:  d.Prefix + d.Word + d.Suffix,
		Word:  d.Word,
	}, nil
}

func isCandidate(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && trimmed != fenceMarker
}

// Tokens include punctuation; only single spaces separate them.
func eligibleWords(line string) []string {
	var words []string
	for _, token := range strings.Split(line, " ") {
		if utf8.RuneCountInString(token) >= minWordLen {
			words = append(words, token)
		}
	}
	return words
}
