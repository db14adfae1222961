package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/cloudexam/cloudexam-backend/internal/repository"
	"github.com/cloudexam/cloudexam-backend/internal/response"
	"github.com/jinzhu/copier"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyResolver resolves the answer key of an exam.
type KeyResolver interface {
	Resolve(ctx context.Context, examID int) (*AnswerKey, error)
}

// ResultStore persists and reads exam results.
type ResultStore interface {
	Create(ctx context.Context, result *model.ExamResult, answers []model.UserAnswer) error
	GetByID(ctx context.Context, resultID int) (*model.StoredResult, error)
	ListByUser(ctx context.Context, userID, limit, offset int) ([]model.StoredResult, int, error)
	ListScoresByUser(ctx context.Context, userID int) ([]model.ResultScore, error)
}

// ExamResultService handles exam submission, scoring and result read paths.
type ExamResultService struct {
	keys     KeyResolver
	store    ResultStore
	rdb      *redis.Client
	timeout  time.Duration
	statsTTL time.Duration
	log      zerolog.Logger
}

// NewExamResultService creates a new ExamResultService. rdb may be nil, in
// which case stats are never cached and no refresh is enqueued.
func NewExamResultService(
	keys KeyResolver,
	store ResultStore,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *ExamResultService {
	return &ExamResultService{
		keys:     keys,
		store:    store,
		rdb:      rdb,
		timeout:  cfg.RequestTimeout,
		statsTTL: cfg.StatsCacheTTL,
		log:      log.With().Str("component", "exam_result_service").Logger(),
	}
}

// SubmitExam scores a submission and persists it with all of its answers.
// Every call creates a new result.
func (s *ExamResultService) SubmitExam(ctx context.Context, userID int, req model.SubmitExamRequest) (*model.ExamSubmissionResult, error) {
	if err := validateSubmission(userID, req); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	key, err := s.keys.Resolve(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve answer key: %w", err)
	}

	scored, err := Score(key, req.Answers)
	if err != nil {
		if errors.Is(err, ErrNoQuestions) {
			s.log.Error().Int("exam_id", req.ExamID).Msg("Submission for exam without questions")
		}
		return nil, err
	}

	result := &model.ExamResult{
		UserID:         userID,
		ExamID:         req.ExamID,
		Score:          scored.Score,
		CorrectCount:   scored.CorrectCount,
		TotalQuestions: scored.TotalQuestions,
	}
	answers := make([]model.UserAnswer, len(scored.Details))
	for i, d := range scored.Details {
		answers[i] = model.UserAnswer{
			QuestionID: d.QuestionID,
			AnswerID:   d.UserAnswerID,
			IsCorrect:  d.IsCorrect,
		}
	}

	if err := s.store.Create(ctx, result, answers); err != nil {
		return nil, fmt.Errorf("store exam result: %w", err)
	}

	s.log.Info().
		Int("user_id", userID).
		Int("exam_id", req.ExamID).
		Int("exam_result_id", result.ID).
		Int("score", result.Score).
		Msg("Exam submitted")

	s.scheduleStatsRefresh(ctx, userID)

	return &model.ExamSubmissionResult{
		ExamResultID:   result.ID,
		Score:          scored.Score,
		TotalQuestions: scored.TotalQuestions,
		CorrectCount:   scored.CorrectCount,
		Details:        scored.Details,
	}, nil
}

func validateSubmission(userID int, req model.SubmitExamRequest) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidSubmission)
	}
	if !validID(req.ExamID) {
		return fmt.Errorf("%w: examId must be between 1 and %d", ErrInvalidSubmission, model.MaxID)
	}
	for i, a := range req.Answers {
		if !validID(a.QuestionID) || !validID(a.AnswerID) {
			return fmt.Errorf("%w: answers[%d] ids must be between 1 and %d", ErrInvalidSubmission, i, model.MaxID)
		}
	}
	return nil
}

func validID(id int) bool {
	return id > 0 && id <= model.MaxID
}

// GetHistory returns a page of the user's results, newest first.
func (s *ExamResultService) GetHistory(ctx context.Context, userID, page, perPage int) ([]model.HistoryEntry, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	results, total, err := s.store.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(results))
	for i := range results {
		entry, err := toHistoryEntry(&results[i])
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}

	return entries, response.NewPagination(page, perPage, total), nil
}

// GetResultByID returns one of the user's results with its answers.
// Results of other users are reported as ErrResultNotFound.
func (s *ExamResultService) GetResultByID(ctx context.Context, userID, resultID int) (*model.ResultDetail, error) {
	stored, err := s.store.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	if stored.UserID != userID {
		return nil, ErrResultNotFound
	}

	entry, err := toHistoryEntry(stored)
	if err != nil {
		return nil, err
	}

	detail := &model.ResultDetail{
		HistoryEntry: entry,
		UserAnswers:  stored.UserAnswers,
	}
	if detail.UserAnswers == nil {
		detail.UserAnswers = []model.UserAnswer{}
	}
	return detail, nil
}

func toHistoryEntry(stored *model.StoredResult) (model.HistoryEntry, error) {
	var entry model.HistoryEntry
	if err := copier.Copy(&entry, &stored.ExamResult); err != nil {
		return entry, fmt.Errorf("map exam result: %w", err)
	}
	entry.Exam = stored.Exam
	entry.Passed = stored.Passed()
	return entry, nil
}

// GetUserStats returns the user's aggregate, served from cache when possible.
func (s *ExamResultService) GetUserStats(ctx context.Context, userID int) (*model.UserStats, error) {
	if s.statsCacheEnabled() {
		if stats, ok := s.readStatsCache(ctx, userID); ok {
			return stats, nil
		}
	}
	return s.RefreshUserStats(ctx, userID)
}

// ComputeUserStats aggregates the user's stored results without touching the cache.
func (s *ExamResultService) ComputeUserStats(ctx context.Context, userID int) (*model.UserStats, error) {
	scores, err := s.store.ListScoresByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	stats := ComputeStats(scores)
	return &stats, nil
}

// RefreshUserStats recomputes the user's aggregate and stores it in the cache.
func (s *ExamResultService) RefreshUserStats(ctx context.Context, userID int) (*model.UserStats, error) {
	stats, err := s.ComputeUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.statsCacheEnabled() {
		s.writeStatsCache(ctx, userID, stats)
	}
	return stats, nil
}

func (s *ExamResultService) statsCacheEnabled() bool {
	return s.rdb != nil && s.statsTTL > 0
}

func (s *ExamResultService) readStatsCache(ctx context.Context, userID int) (*model.UserStats, bool) {
	data, err := s.rdb.Get(ctx, config.CacheKey.UserStatsKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Int("user_id", userID).Msg("Stats cache read failed")
		}
		return nil, false
	}
	var stats model.UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Corrupt cached stats")
		return nil, false
	}
	return &stats, true
}

func (s *ExamResultService) writeStatsCache(ctx context.Context, userID int, stats *model.UserStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.UserStatsKey(userID), data, s.statsTTL).Err(); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Stats cache write failed")
	}
}

// scheduleStatsRefresh drops the user's cached stats and queues a recompute.
// Failures are logged only; the result is already committed.
func (s *ExamResultService) scheduleStatsRefresh(ctx context.Context, userID int) {
	if s.rdb == nil {
		return
	}
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.UserStatsKey(userID))
	pipe.RPush(ctx, config.WorkerKey.RefreshStatsQueue, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Stats refresh scheduling failed")
	}
}
