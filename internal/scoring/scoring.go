// Package scoring turns a completed answer sequence into a 4-letter
// personality type. Scoring is a pure function of its inputs so results
// are reproducible for any given answer sequence.
package scoring

import (
	"errors"
	"fmt"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

// ErrInvalidAnswerSet marks a malformed answer sequence: wrong length,
// duplicate question ids, or unknown question/option references. A
// correctly operating orchestrator never produces one.
var ErrInvalidAnswerSet = errors.New("invalid answer set")

// Answer pairs a question with the chosen option label.
type Answer struct {
	QuestionID int
	Label      string
}

// Score sums the chosen option weights per axis and resolves each axis to
// a pole letter. A positive weight adds to the axis's first pole, a
// negative weight to its second, both as absolute values. The axis letter
// is the first pole only when its total is strictly greater; ties resolve
// to the second-listed pole (I, N, F, P).
func Score(questions []models.Question, answers []Answer) (string, models.Scores, error) {
	if len(answers) != len(questions) {
		return "", nil, fmt.Errorf("%w: got %d answers for %d questions", ErrInvalidAnswerSet, len(answers), len(questions))
	}

	byID := make(map[int]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	scores := models.NewScores()
	answered := make(map[int]bool, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown question id %d", ErrInvalidAnswerSet, a.QuestionID)
		}
		if answered[a.QuestionID] {
			return "", nil, fmt.Errorf("%w: duplicate answer for question %d", ErrInvalidAnswerSet, a.QuestionID)
		}
		answered[a.QuestionID] = true

		opt, ok := q.OptionByLabel(a.Label)
		if !ok {
			return "", nil, fmt.Errorf("%w: question %d has no option %q", ErrInvalidAnswerSet, a.QuestionID, a.Label)
		}
		Apply(scores, q.Axis, opt.Weight)
	}

	return Resolve(scores), scores, nil
}

// Apply adds one option weight to the score map.
func Apply(scores models.Scores, axis models.Axis, weight int) {
	if weight > 0 {
		scores[axis.First()] += weight
	} else {
		scores[axis.Second()] += -weight
	}
}

// Resolve concatenates the winning pole of each axis, in fixed axis
// order, into the 4-letter type code.
func Resolve(scores models.Scores) string {
	code := ""
	for _, axis := range models.Axes {
		if scores[axis.First()] > scores[axis.Second()] {
			code += axis.First()
		} else {
			code += axis.Second()
		}
	}
	return code
}
