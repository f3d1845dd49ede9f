package enquire

import (
	"slices"
	"strings"
)

// Choice is one selectable entry.
type Choice struct {
	Name     string // Identifier, also the submitted value when Value is nil
	Message  string // Display text, defaults to Name
	Hint     string // Optional hint shown next to the entry
	Value    any    // Submitted value
	Disabled bool   // Disabled entries are skipped by Next/Prev
}

// Label returns the text used to display the choice.
func (c Choice) Label() string {
	if c.Message != "" {
		return c.Message
	}
	return c.Name
}

// Result returns the value a choice submits.
func (c Choice) Result() any {
	if c.Value != nil {
		return c.Value
	}
	return c.Name
}

// ChoiceList keeps the canonical entries and a working copy of the visible ones.
//
// Filtering, paging and focus changes only touch the visible copy, so the
// canonical list can always be restored with Reset.
type ChoiceList struct {
	all     []Choice
	visible []Choice
	focus   int
}

// NewChoiceList creates a list from the given entries.
func NewChoiceList(choices []Choice) *ChoiceList {
	l := &ChoiceList{all: slices.Clone(choices)}
	l.Reset()
	return l
}

// All returns a copy of the canonical entries.
func (l *ChoiceList) All() []Choice {
	return slices.Clone(l.all)
}

// Visible returns a copy of the visible entries.
func (l *ChoiceList) Visible() []Choice {
	return slices.Clone(l.visible)
}

// Len returns the number of visible entries.
func (l *ChoiceList) Len() int {
	return len(l.visible)
}

// Index returns the focused position within the visible entries.
func (l *ChoiceList) Index() int {
	return l.focus
}

// Focused returns the focused visible entry.
func (l *ChoiceList) Focused() (Choice, bool) {
	if l.focus < 0 || l.focus >= len(l.visible) {
		return Choice{}, false
	}
	return l.visible[l.focus], true
}

// Reset restores the visible entries from the canonical list and focuses the
// first enabled one.
func (l *ChoiceList) Reset() {
	l.visible = slices.Clone(l.all)
	l.focus = 0
	l.skipDisabled(1)
}

// SetFocus focuses the visible entry at index i, clamped to the list bounds.
func (l *ChoiceList) SetFocus(i int) {
	if len(l.visible) == 0 {
		l.focus = 0
		return
	}
	l.focus = max(0, min(i, len(l.visible)-1))
}

// Next moves the focus to the next enabled entry, wrapping around.
// It reports false when there is nothing to move to.
func (l *ChoiceList) Next() bool {
	return l.move(1)
}

// Prev moves the focus to the previous enabled entry, wrapping around.
func (l *ChoiceList) Prev() bool {
	return l.move(-1)
}

func (l *ChoiceList) move(step int) bool {
	n := len(l.visible)
	if n == 0 {
		return false
	}
	for i := 1; i <= n; i++ {
		idx := ((l.focus+step*i)%n + n) % n
		if !l.visible[idx].Disabled {
			moved := idx != l.focus
			l.focus = idx
			return moved
		}
	}
	return false
}

func (l *ChoiceList) skipDisabled(step int) {
	if l.focus < len(l.visible) && l.visible[l.focus].Disabled {
		l.move(step)
	}
}

// Filter keeps the canonical entries accepted by keep as the visible ones.
func (l *ChoiceList) Filter(keep func(Choice) bool) {
	l.visible = l.visible[:0:0]
	for _, c := range l.all {
		if keep(c) {
			l.visible = append(l.visible, c)
		}
	}
	l.focus = 0
	l.skipDisabled(1)
}

// FilterFuzzy keeps the canonical entries whose label fuzzy-matches query,
// best match first. An empty query restores the canonical order.
func (l *ChoiceList) FilterFuzzy(query string) {
	if query == "" {
		l.Reset()
		return
	}

	var matches []fuzzyMatch
	for i, c := range l.all {
		if score := calculateFuzzyScore(query, c.Label(), true); score > 0 {
			matches = append(matches, fuzzyMatch{index: i, score: score})
		}
	}
	slices.SortStableFunc(matches, func(a, b fuzzyMatch) int {
		return b.score - a.score
	})

	l.visible = make([]Choice, len(matches))
	for i, m := range matches {
		l.visible[i] = l.all[m.index]
	}
	l.focus = 0
	l.skipDisabled(1)
}

// Page restricts the visible entries to a window of at most limit canonical
// entries starting at offset.
func (l *ChoiceList) Page(offset, limit int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.all) {
		offset = len(l.all)
	}
	end := len(l.all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	l.visible = slices.Clone(l.all[offset:end])
	l.focus = 0
	l.skipDisabled(1)
}

type fuzzyMatch struct {
	index int
	score int
}

// calculateFuzzyScore calculates a fuzzy matching score between input and candidate.
// Returns 0 if no match, higher scores for better matches.
func calculateFuzzyScore(input, candidate string, ignoreCase bool) int {
	if input == "" {
		return 1
	}
	if candidate == "" {
		return 0
	}

	if ignoreCase {
		input = strings.ToLower(input)
		candidate = strings.ToLower(candidate)
	}

	if input == candidate {
		return 1000
	}
	if strings.HasPrefix(candidate, input) {
		return 800 + len(input)*10
	}
	if strings.Contains(candidate, input) {
		return 500 + len(input)*5
	}

	// Subsequence match: every input rune must appear in order
	score := 0
	rest := []rune(candidate)
	for _, r := range input {
		idx := slices.Index(rest, r)
		if idx < 0 {
			return 0
		}
		score += 10
		rest = rest[idx+1:]
	}
	return score
}
