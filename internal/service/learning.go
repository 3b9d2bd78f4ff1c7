package service

import (
	"fmt"
	"time"

	"wortschatz/internal/domain"
	"wortschatz/internal/exercise"
	"wortschatz/internal/repository"
	"wortschatz/internal/srs"

	"go.uber.org/zap"
)

// Fetch limits for session assembly.
const (
	dueFetchLimit = 10
	newFetchLimit = 5
	// relaxedNewFetchLimit widens the candidate pool when the initial
	// due and new lists both come back empty.
	relaxedNewFetchLimit = 10
	practiceFetchLimit   = 10
)

// AnswerFeedback is what the user sees after answering one exercise.
type AnswerFeedback struct {
	Correct       bool
	CorrectAnswer string
	ResponseTime  float64
	Result        srs.ReviewResult
}

// LearningService orchestrates review sessions: it pulls due and new
// items, runs the scheduling core and persists the outcome of every
// answer.
type LearningService struct {
	items     repository.ReviewItemRepository
	words     repository.WordRepository
	sessions  repository.SessionRepository
	users     repository.UserRepository
	engine    *srs.Engine
	composer  *srs.Composer
	generator *exercise.Generator
	logger    *zap.Logger

	now func() time.Time
}

// NewLearningService creates a new learning service
func NewLearningService(
	items repository.ReviewItemRepository,
	words repository.WordRepository,
	sessions repository.SessionRepository,
	users repository.UserRepository,
	engine *srs.Engine,
	composer *srs.Composer,
	generator *exercise.Generator,
	logger *zap.Logger,
) *LearningService {
	return &LearningService{
		items:     items,
		words:     words,
		sessions:  sessions,
		users:     users,
		engine:    engine,
		composer:  composer,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// StartSession assembles a mixed session of due reviews and newly
// introduced words. Returns a NoItemsError when nothing can be
// practiced - a normal outcome, not a failure.
func (s *LearningService) StartSession(userID int64) (*domain.SessionQueue, error) {
	level := "A1"
	user, err := s.users.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user != nil {
		level = user.CurrentLevel()
	}

	due, err := s.items.GetDue(userID, dueFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due items: %w", err)
	}

	counts, err := s.itemCounts(userID)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Word
	if s.composer.ShouldIntroduceNew(counts, len(due)) {
		candidates, err = s.words.GetNewCandidates(userID, level, newFetchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch new candidates: %w", err)
		}
	}

	if len(due) == 0 && len(candidates) == 0 {
		// Widen the candidate pool once before reporting no items.
		candidates, err = s.words.GetNewCandidates(userID, level, relaxedNewFetchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch fallback candidates: %w", err)
		}
		if len(candidates) == 0 {
			return nil, s.noItemsError(counts, level)
		}
	}

	newIDs, err := s.materializeItems(userID, candidates)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(userID, domain.SessionMixed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	dueIDs := make([]int64, 0, len(due))
	lookup := srs.StateMap{}
	for _, item := range due {
		dueIDs = append(dueIDs, item.ID)
		lookup[item.ID] = item.MemoryState
	}

	ids := s.composer.BuildSession(dueIDs, newIDs, lookup)
	if len(ids) == 0 {
		return nil, &domain.NoItemsError{Reason: domain.ReasonNoneFound}
	}

	s.logger.Info("Session started",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sess.ID),
		zap.Int("due", len(dueIDs)),
		zap.Int("new", len(newIDs)),
		zap.Int("queue", len(ids)),
	)

	return &domain.SessionQueue{SessionID: sess.ID, ItemIDs: ids}, nil
}

// StartPractice assembles a focused session over due weak and learning
// items, falling back to new words when nothing needs practice.
func (s *LearningService) StartPractice(userID int64) (*domain.SessionQueue, error) {
	practiceItems, err := s.items.GetPractice(userID, practiceFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch practice items: %w", err)
	}

	var ids []int64
	if len(practiceItems) > 0 {
		for _, item := range practiceItems {
			ids = append(ids, item.ID)
		}
	} else {
		level := "A1"
		user, err := s.users.Get(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		if user != nil {
			level = user.CurrentLevel()
		}

		candidates, err := s.words.GetNewCandidates(userID, level, practiceFetchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch new candidates: %w", err)
		}
		if len(candidates) == 0 {
			return nil, &domain.NoItemsError{Reason: domain.ReasonNoneFound}
		}

		ids, err = s.materializeItems(userID, candidates)
		if err != nil {
			return nil, err
		}
	}

	sess, err := s.sessions.Create(userID, domain.SessionPractice)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Practice session started",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sess.ID),
		zap.Int("queue", len(ids)),
	)

	return &domain.SessionQueue{SessionID: sess.ID, ItemIDs: ids}, nil
}

// NextExercise advances the queue and renders the next drill. It
// returns (nil, nil) once the queue is exhausted, completing the
// session record. IDs whose backing records vanished are skipped.
func (s *LearningService) NextExercise(queue *domain.SessionQueue) (*domain.Exercise, error) {
	for {
		id, ok := queue.Next()
		if !ok {
			if err := s.sessions.Complete(queue.SessionID); err != nil {
				s.logger.Warn("Failed to complete session",
					zap.Int64("session_id", queue.SessionID),
					zap.Error(err),
				)
			}
			return nil, nil
		}

		item, err := s.items.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load review item: %w", err)
		}
		if item == nil {
			continue
		}

		word, err := s.words.GetByID(item.WordID)
		if err != nil {
			return nil, fmt.Errorf("failed to load word: %w", err)
		}
		if word == nil {
			continue
		}

		weights := s.composer.SelectExerciseWeights(item.MemoryState, item.ConsecutiveCorrect, item.AvgResponseTime)
		ex, err := s.generator.Generate(item, word, weights)
		if err != nil {
			return nil, err
		}

		queue.Current = ex
		queue.QuestionStart = s.now()
		return ex, nil
	}
}

// SubmitAnswer checks the answer for the queue's current exercise, runs
// the memory model updater and commits item, log and session counters
// atomically. On persistence failure the computed result is discarded
// and the caller retries the whole submission.
func (s *LearningService) SubmitAnswer(queue *domain.SessionQueue, answer string) (*AnswerFeedback, error) {
	ex := queue.Current
	if ex == nil {
		return nil, fmt.Errorf("no active exercise")
	}

	responseTime := s.now().Sub(queue.QuestionStart).Seconds()

	item, err := s.items.GetByID(ex.ReviewItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("review item %d not found", ex.ReviewItemID)
	}

	isCorrect := exercise.CheckAnswer(ex, answer)
	wasNew := item.MemoryState == domain.StateNew

	result := s.engine.Update(item, isCorrect, responseTime)

	log := &domain.ReviewLog{
		SessionID:    queue.SessionID,
		ReviewItemID: item.ID,
		ExerciseType: ex.Type,
		ResponseTime: responseTime,
		WasCorrect:   isCorrect,
	}

	if err := s.items.SaveReview(item, log, wasNew); err != nil {
		return nil, fmt.Errorf("failed to persist review: %w", err)
	}

	queue.Current = nil

	return &AnswerFeedback{
		Correct:       isCorrect,
		CorrectAnswer: ex.Answer,
		ResponseTime:  responseTime,
		Result:        result,
	}, nil
}

func (s *LearningService) itemCounts(userID int64) (domain.ItemCounts, error) {
	total, err := s.items.CountAll(userID)
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("failed to count items: %w", err)
	}
	newCount, err := s.items.CountByState(userID, domain.StateNew)
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("failed to count new items: %w", err)
	}
	mastered, err := s.items.CountByState(userID, domain.StateMastered)
	if err != nil {
		return domain.ItemCounts{}, fmt.Errorf("failed to count mastered items: %w", err)
	}
	return domain.ItemCounts{Total: total, New: newCount, Mastered: mastered}, nil
}

// noItemsError picks the reason code reported when no session could be
// assembled.
func (s *LearningService) noItemsError(counts domain.ItemCounts, level string) error {
	vocabTotal, err := s.words.CountAll()
	if err == nil && vocabTotal == 0 {
		return &domain.NoItemsError{Reason: domain.ReasonEmptyVocabulary}
	}

	levelTotal, err := s.words.CountByLevel(level)
	if err == nil && levelTotal > 0 && counts.Total >= levelTotal {
		return &domain.NoItemsError{Reason: domain.ReasonAllMastered}
	}

	return &domain.NoItemsError{Reason: domain.ReasonNoneFound}
}

// materializeItems ensures a review item exists for every introduced
// word and returns their IDs in candidate order.
func (s *LearningService) materializeItems(userID int64, candidates []domain.Word) ([]int64, error) {
	ids := make([]int64, 0, len(candidates))
	for _, w := range candidates {
		item, err := s.items.GetByUserAndWord(userID, w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up review item: %w", err)
		}
		if item == nil {
			item, err = s.items.Create(userID, w.ID)
			if err != nil {
				return nil, err
			}
		}
		ids = append(ids, item.ID)
	}
	return ids, nil
}
