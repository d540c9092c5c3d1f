package models

import (
	"fmt"
	"strings"
	"time"
)

// Variant selects which question subset a session uses.
type Variant string

const (
	// VariantFull is the complete 44-question test.
	VariantFull Variant = "full"
	// VariantQuick is the abbreviated 5-question test.
	VariantQuick Variant = "quick"
)

// Scores accumulates answer weights per pole letter. Positive option
// weights land on an axis's first pole, negative on its second, both as
// absolute values.
type Scores map[string]int

// NewScores returns a score map with all eight poles at zero.
func NewScores() Scores {
	s := make(Scores, 8)
	for _, axis := range Axes {
		s[axis.First()] = 0
		s[axis.Second()] = 0
	}
	return s
}

// String renders the pole scores in fixed axis order, e.g.
// "E:12 I:5 S:8 N:9 T:11 F:6 J:7 P:10".
func (s Scores) String() string {
	parts := make([]string, 0, 8)
	for _, axis := range Axes {
		parts = append(parts,
			fmt.Sprintf("%s:%d", axis.First(), s[axis.First()]),
			fmt.Sprintf("%s:%d", axis.Second(), s[axis.Second()]))
	}
	return strings.Join(parts, " ")
}

// Session tracks one respondent's progress through a test. Sessions live
// in memory only and do not survive a process restart. The pointer is
// 0-based and only ever moves forward; the session is complete once it
// equals the question count.
type Session struct {
	UserID    string
	Username  string
	Variant   Variant
	Questions []Question
	Pointer   int
	Scores    Scores
	Answers   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Complete reports whether every question has been answered.
func (s *Session) Complete() bool {
	return s.Pointer >= len(s.Questions)
}

// Current returns the question at the session pointer.
func (s *Session) Current() (Question, bool) {
	if s.Complete() {
		return Question{}, false
	}
	return s.Questions[s.Pointer], true
}
