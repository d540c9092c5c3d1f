package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

const (
	// FullQuestionCount is the number of questions in the full test.
	FullQuestionCount = 44
	// QuickQuestionCount is the number of questions in the quick test.
	QuickQuestionCount = 5
	// minOptions is the smallest allowed option set per question.
	minOptions = 4

	questionsFile = "questions.yaml"
	profilesFile  = "personality_profiles.yaml"
)

// Store holds all static test content. It is loaded once at startup and
// read-only afterwards, so unsynchronized concurrent reads are safe.
type Store struct {
	full     []models.Question
	quick    []models.Question
	profiles map[string]models.Profile
}

type questionsDoc struct {
	Questions []models.Question `yaml:"questions"`
}

// Load reads questions and profiles from dir and validates them. A load
// error is fatal for the caller: the bot must not serve tests without
// well-formed content.
func Load(dir string) (*Store, error) {
	questions, err := loadQuestions(filepath.Join(dir, questionsFile))
	if err != nil {
		return nil, err
	}
	profiles, err := loadProfiles(filepath.Join(dir, profilesFile))
	if err != nil {
		return nil, err
	}
	s := &Store{
		full:     questions,
		quick:    quickSubset(questions),
		profiles: profiles,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Questions returns the ordered question list for a variant. The returned
// slice must be treated as read-only.
func (s *Store) Questions(variant models.Variant) []models.Question {
	if variant == models.VariantQuick {
		return s.quick
	}
	return s.full
}

// Profile returns the profile for a 4-letter type code.
func (s *Store) Profile(code string) (models.Profile, bool) {
	p, ok := s.profiles[code]
	return p, ok
}

// TypeCodes returns the 16 codes formed by one pole per axis, in a fixed
// enumeration order.
func TypeCodes() []string {
	codes := []string{""}
	for _, axis := range models.Axes {
		next := make([]string, 0, len(codes)*2)
		for _, c := range codes {
			next = append(next, c+axis.First(), c+axis.Second())
		}
		codes = next
	}
	return codes
}

func loadQuestions(path string) ([]models.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	var doc questionsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	// Labels come from option position, not from the file.
	for i := range doc.Questions {
		for j := range doc.Questions[i].Options {
			doc.Questions[i].Options[j].Label = string(rune('A' + j))
		}
	}
	return doc.Questions, nil
}

func loadProfiles(path string) (map[string]models.Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	profiles := make(map[string]models.Profile)
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return profiles, nil
}

// quickSubset picks the abbreviated question list: the first question of
// each axis plus one extra EI question, preserving original order.
func quickSubset(questions []models.Question) []models.Question {
	quick := make([]models.Question, 0, QuickQuestionCount)
	seen := make(map[int]bool)
	for _, axis := range models.Axes {
		for _, q := range questions {
			if q.Axis == axis && !seen[q.ID] {
				quick = append(quick, q)
				seen[q.ID] = true
				break
			}
		}
	}
	for _, q := range questions {
		if q.Axis == models.AxisEI && !seen[q.ID] {
			quick = append(quick, q)
			seen[q.ID] = true
			break
		}
	}
	if len(quick) > QuickQuestionCount {
		quick = quick[:QuickQuestionCount]
	}
	return quick
}

func (s *Store) validate() error {
	if len(s.full) != FullQuestionCount {
		return fmt.Errorf("content: expected %d questions, got %d", FullQuestionCount, len(s.full))
	}
	if len(s.quick) != QuickQuestionCount {
		return fmt.Errorf("content: quick variant needs %d questions, got %d", QuickQuestionCount, len(s.quick))
	}
	seen := make(map[int]bool, len(s.full))
	for _, q := range s.full {
		if q.ID <= 0 {
			return fmt.Errorf("content: question %q has no id", q.Text)
		}
		if seen[q.ID] {
			return fmt.Errorf("content: duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if !q.Axis.Valid() {
			return fmt.Errorf("content: question %d has unknown axis %q", q.ID, q.Axis)
		}
		if len(q.Options) < minOptions {
			return fmt.Errorf("content: question %d has %d options, need at least %d", q.ID, len(q.Options), minOptions)
		}
		for _, opt := range q.Options {
			if opt.Weight == 0 {
				return fmt.Errorf("content: question %d option %s has zero weight", q.ID, opt.Label)
			}
		}
	}
	for _, code := range TypeCodes() {
		if _, ok := s.profiles[code]; !ok {
			return fmt.Errorf("content: missing profile for type %s", code)
		}
	}
	return nil
}
