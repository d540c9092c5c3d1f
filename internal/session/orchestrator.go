// Package session drives the question/answer loop for active tests. The
// manager owns every live session, keyed by respondent id, with at most
// one active session per respondent.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/internal/content"
	"github.com/PandaWhoCodes/discord-personality-check/internal/scoring"
	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

var (
	// ErrStaleAnswer marks an answer event that does not reference the
	// question at the session's current pointer. Expected under UI races
	// (double clicks, delayed callbacks); the session is left untouched.
	ErrStaleAnswer = errors.New("stale answer")
	// ErrNoSession marks an answer event with no active session, e.g.
	// a button press that survived a process restart.
	ErrNoSession = errors.New("no active session")
	// ErrNoPending is returned by RetrySave when there is no unsaved
	// result waiting for the user.
	ErrNoPending = errors.New("no pending result")
)

const (
	saveAttempts = 3
	saveBackoff  = 500 * time.Millisecond
)

// Prompt is the "next question" handoff to the presentation layer.
type Prompt struct {
	Question models.Question
	Number   int // 1-based position within the variant
	Total    int
	Variant  models.Variant
	Resumed  bool
}

// ResultStore persists finalized results.
type ResultStore interface {
	Create(ctx context.Context, result *models.Result) error
}

// Presenter receives orchestrator side effects. Calls are made only after
// the session mutation they follow has committed.
type Presenter interface {
	PresentQuestion(ctx context.Context, channelID string, userID string, prompt Prompt)
	PresentResult(ctx context.Context, channelID string, result *models.Result)
	PresentSaveFailure(ctx context.Context, channelID string, result *models.Result)
}

type activeSession struct {
	models.Session
	channelID string
}

// Manager owns the live session registry. A single mutex guards the
// registry and all session transitions; persistence and presentation run
// outside it so one respondent's save never blocks another's answers.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*activeSession
	pending  map[string]*pendingResult

	content   *content.Store
	store     ResultStore
	presenter Presenter
	logger    *zap.Logger
	ttl       time.Duration
}

type pendingResult struct {
	result    *models.Result
	channelID string
}

// New creates a manager. Sessions idle longer than ttl are eligible for
// expiry; a non-positive ttl disables expiry.
func New(store *content.Store, results ResultStore, presenter Presenter, logger *zap.Logger, ttl time.Duration) *Manager {
	return &Manager{
		sessions:  make(map[string]*activeSession),
		pending:   make(map[string]*pendingResult),
		content:   store,
		store:     results,
		presenter: presenter,
		logger:    logger,
		ttl:       ttl,
	}
}

// Start begins a test for the user, or resumes one already in progress.
// Resume policy: an existing session is returned at its current question,
// never reset. The current question is presented to channelID either way.
func (m *Manager) Start(ctx context.Context, userID, username string, variant models.Variant, channelID string) (resumed bool, err error) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if ok {
		// Keep delivering to wherever the user asked for the test last.
		sess.channelID = channelID
		sess.UpdatedAt = time.Now().UTC()
	} else {
		questions := m.content.Questions(variant)
		if len(questions) == 0 {
			m.mu.Unlock()
			return false, fmt.Errorf("no questions for variant %q", variant)
		}
		now := time.Now().UTC()
		sess = &activeSession{
			Session: models.Session{
				UserID:    userID,
				Username:  username,
				Variant:   variant,
				Questions: questions,
				Scores:    models.NewScores(),
				Answers:   make([]string, 0, len(questions)),
				CreatedAt: now,
				UpdatedAt: now,
			},
			channelID: channelID,
		}
		m.sessions[userID] = sess
	}
	prompt := m.promptLocked(sess, ok)
	m.mu.Unlock()

	if ok {
		m.logger.Info("resuming session",
			zap.String("user_id", userID),
			zap.Int("pointer", prompt.Number-1))
	} else {
		m.logger.Info("session started",
			zap.String("user_id", userID),
			zap.String("variant", string(variant)),
			zap.Int("questions", prompt.Total))
	}
	m.presenter.PresentQuestion(ctx, channelID, userID, prompt)
	return ok, nil
}

// Restart discards any in-progress session and starts over.
func (m *Manager) Restart(ctx context.Context, userID, username string, variant models.Variant, channelID string) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	_, err := m.Start(ctx, userID, username, variant, channelID)
	return err
}

// Active reports whether the user has a session in progress.
func (m *Manager) Active(userID string) bool {
	m.mu.Lock()
	_, ok := m.sessions[userID]
	m.mu.Unlock()
	return ok
}

// Answer applies one answer event. The event must reference the question
// at the session's current pointer; anything else is rejected with
// ErrStaleAnswer (or ErrNoSession) and mutates nothing, which makes
// duplicate button deliveries idempotent. On the final answer the session
// is scored, removed, and the result persisted.
func (m *Manager) Answer(ctx context.Context, userID string, questionID int, label string) error {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if !ok {
		m.mu.Unlock()
		return ErrNoSession
	}
	current, ok := sess.Current()
	if !ok {
		// Completed sessions are removed before the lock is released, so
		// this only guards a future invariant break.
		m.mu.Unlock()
		return ErrStaleAnswer
	}
	if current.ID != questionID {
		m.mu.Unlock()
		return fmt.Errorf("%w: got question %d, expected %d", ErrStaleAnswer, questionID, current.ID)
	}
	opt, ok := current.OptionByLabel(label)
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: question %d has no option %q", ErrStaleAnswer, questionID, label)
	}

	scoring.Apply(sess.Scores, current.Axis, opt.Weight)
	sess.Answers = append(sess.Answers, label)
	sess.Pointer++
	sess.UpdatedAt = time.Now().UTC()

	if !sess.Complete() {
		prompt := m.promptLocked(sess, false)
		channelID := sess.channelID
		m.mu.Unlock()
		m.presenter.PresentQuestion(ctx, channelID, userID, prompt)
		return nil
	}

	// Terminal transition: score and drop the session before releasing
	// the lock so completion happens exactly once.
	result, err := m.finishLocked(sess)
	channelID := sess.channelID
	delete(m.sessions, userID)
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("scoring failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	m.persist(ctx, channelID, result)
	return nil
}

// RetrySave re-attempts persistence of a result whose save previously
// failed. The pending copy is dropped once saved.
func (m *Manager) RetrySave(ctx context.Context, userID string) error {
	m.mu.Lock()
	p, ok := m.pending[userID]
	if ok {
		delete(m.pending, userID)
	}
	m.mu.Unlock()
	if !ok {
		return ErrNoPending
	}
	m.persist(ctx, p.channelID, p.result)
	return nil
}

// ExpireStale removes in-progress sessions idle longer than the manager
// TTL and returns how many were dropped. Abandoned tests do not pile up
// in memory forever.
func (m *Manager) ExpireStale() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().UTC().Add(-m.ttl)
	m.mu.Lock()
	var expired []string
	for userID, sess := range m.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			expired = append(expired, userID)
			delete(m.sessions, userID)
		}
	}
	m.mu.Unlock()
	for _, userID := range expired {
		m.logger.Info("expired stale session", zap.String("user_id", userID))
	}
	return len(expired)
}

// promptLocked builds the presentation handoff for the current question.
// Caller holds the manager lock.
func (m *Manager) promptLocked(sess *activeSession, resumed bool) Prompt {
	q, _ := sess.Current()
	return Prompt{
		Question: q,
		Number:   sess.Pointer + 1,
		Total:    len(sess.Questions),
		Variant:  sess.Variant,
		Resumed:  resumed,
	}
}

// finishLocked runs the scoring engine over the full recorded answer
// sequence and snapshots the resolved profile into the result.
func (m *Manager) finishLocked(sess *activeSession) (*models.Result, error) {
	answers := make([]scoring.Answer, len(sess.Answers))
	for i, label := range sess.Answers {
		answers[i] = scoring.Answer{QuestionID: sess.Questions[i].ID, Label: label}
	}
	code, scores, err := scoring.Score(sess.Questions, answers)
	if err != nil {
		return nil, err
	}
	profile, ok := m.content.Profile(code)
	if !ok {
		return nil, fmt.Errorf("no profile for type %s", code)
	}
	return &models.Result{
		UserID:      sess.UserID,
		Username:    sess.Username,
		TypeCode:    code,
		TestType:    sess.Variant,
		Scores:      scores,
		Profile:     profile,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// persist saves with bounded retry. An exhausted save keeps the computed
// result for one manual retry instead of dropping it silently.
func (m *Manager) persist(ctx context.Context, channelID string, result *models.Result) {
	err := m.saveWithRetry(ctx, result)
	if err == nil {
		m.logger.Info("test completed",
			zap.String("user_id", result.UserID),
			zap.String("type", result.TypeCode))
		m.presenter.PresentResult(ctx, channelID, result)
		return
	}
	m.logger.Error("result save failed",
		zap.String("user_id", result.UserID),
		zap.String("type", result.TypeCode),
		zap.Error(err))
	m.mu.Lock()
	m.pending[result.UserID] = &pendingResult{result: result, channelID: channelID}
	m.mu.Unlock()
	m.presenter.PresentSaveFailure(ctx, channelID, result)
}

func (m *Manager) saveWithRetry(ctx context.Context, result *models.Result) error {
	var err error
	backoff := saveBackoff
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if err = m.store.Create(ctx, result); err == nil {
			return nil
		}
		if attempt == saveAttempts {
			break
		}
		m.logger.Warn("result save attempt failed",
			zap.String("user_id", result.UserID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
