package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnswerKeyEntry is the resolved correct answer of one question.
type AnswerKeyEntry struct {
	CorrectAnswerID int     `json:"correctAnswerId"`
	Explanation     *string `json:"explanation"`
}

// AnswerKey maps each resolvable question of an exam to its correct answer.
// Questions without any correct answer are counted in TotalQuestions but
// have no entry.
type AnswerKey struct {
	ExamID         int                    `json:"examId"`
	TotalQuestions int                    `json:"totalQuestions"`
	Entries        map[int]AnswerKeyEntry `json:"entries"`
	// Ambiguous lists questions with more than one correct answer; the lowest
	// answer id was taken for each.
	Ambiguous []int `json:"ambiguous,omitempty"`
}

// Lookup returns the entry for a question, if it has one.
func (k *AnswerKey) Lookup(questionID int) (AnswerKeyEntry, bool) {
	e, ok := k.Entries[questionID]
	return e, ok
}

// BuildAnswerKey folds answer-key rows into an AnswerKey. Row order does not
// matter: the lowest correct answer id of each question always wins.
func BuildAnswerKey(examID int, rows []model.AnswerKeyRow) *AnswerKey {
	key := &AnswerKey{
		ExamID:  examID,
		Entries: make(map[int]AnswerKeyEntry),
	}

	seen := make(map[int]struct{}, len(rows))
	ambiguous := make(map[int]struct{})

	for _, row := range rows {
		if _, ok := seen[row.QuestionID]; !ok {
			seen[row.QuestionID] = struct{}{}
			key.TotalQuestions++
		}
		if row.CorrectAnswerID == nil {
			continue
		}

		answerID := *row.CorrectAnswerID
		existing, ok := key.Entries[row.QuestionID]
		if ok {
			ambiguous[row.QuestionID] = struct{}{}
			if existing.CorrectAnswerID <= answerID {
				continue
			}
		}
		key.Entries[row.QuestionID] = AnswerKeyEntry{
			CorrectAnswerID: answerID,
			Explanation:     explanationOrNil(row.Explanation),
		}
	}

	for qid := range ambiguous {
		key.Ambiguous = append(key.Ambiguous, qid)
	}
	sort.Ints(key.Ambiguous)

	return key
}

// explanationOrNil reports an empty explanation as absent.
func explanationOrNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// AnswerKeySource is the catalog read model the resolver depends on.
type AnswerKeySource interface {
	Exists(ctx context.Context, examID int) (bool, error)
	ListAnswerKeyRows(ctx context.Context, examID int) ([]model.AnswerKeyRow, error)
	ListIDs(ctx context.Context) ([]int, error)
}

// AnswerKeyResolver resolves exam answer keys from the catalog, caching them
// in Redis when a client is configured.
type AnswerKeyResolver struct {
	source AnswerKeySource
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewAnswerKeyResolver creates a new AnswerKeyResolver. A nil rdb or a zero
// ttl disables caching.
func NewAnswerKeyResolver(source AnswerKeySource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *AnswerKeyResolver {
	return &AnswerKeyResolver{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.With().Str("component", "answer_key_resolver").Logger(),
	}
}

func (r *AnswerKeyResolver) cacheEnabled() bool {
	return r.rdb != nil && r.ttl > 0
}

// Resolve returns the answer key of an exam, or ErrExamNotFound.
func (r *AnswerKeyResolver) Resolve(ctx context.Context, examID int) (*AnswerKey, error) {
	if r.cacheEnabled() {
		if key, ok := r.readCache(ctx, examID); ok {
			return key, nil
		}
	}

	exists, err := r.source.Exists(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrExamNotFound
	}

	rows, err := r.source.ListAnswerKeyRows(ctx, examID)
	if err != nil {
		return nil, err
	}

	key := BuildAnswerKey(examID, rows)
	if len(key.Ambiguous) > 0 {
		r.log.Warn().
			Int("exam_id", examID).
			Ints("question_ids", key.Ambiguous).
			Msg("Questions with multiple correct answers, using lowest answer id")
	}

	if r.cacheEnabled() {
		r.writeCache(ctx, key)
	}
	return key, nil
}

// Invalidate drops the cached key of an exam.
func (r *AnswerKeyResolver) Invalidate(ctx context.Context, examID int) error {
	if r.rdb == nil {
		return nil
	}
	if err := r.rdb.Del(ctx, config.CacheKey.ExamAnswerKey(examID)).Err(); err != nil {
		return fmt.Errorf("invalidate answer key: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached answer key. Returns the number removed.
func (r *AnswerKeyResolver) InvalidateAll(ctx context.Context) (int, error) {
	if r.rdb == nil {
		return 0, nil
	}

	removed := 0
	iter := r.rdb.Scan(ctx, 0, config.CacheKey.ExamAnswerKeyPattern(), 100).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("invalidate answer keys: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan answer keys: %w", err)
	}
	return removed, nil
}

// Prewarm resolves and caches the key of every exam. Per-exam failures are
// logged and skipped. Returns the number of keys cached.
func (r *AnswerKeyResolver) Prewarm(ctx context.Context) (int, error) {
	if !r.cacheEnabled() {
		return 0, nil
	}

	ids, err := r.source.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list exams: %w", err)
	}

	warmed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		if err := r.Invalidate(ctx, id); err != nil {
			r.log.Warn().Err(err).Int("exam_id", id).Msg("Prewarm invalidate failed")
		}
		if _, err := r.Resolve(ctx, id); err != nil {
			r.log.Warn().Err(err).Int("exam_id", id).Msg("Prewarm resolve failed")
			continue
		}
		warmed++
	}

	r.log.Info().Int("exams", warmed).Msg("Answer keys prewarmed")
	return warmed, nil
}

func (r *AnswerKeyResolver) readCache(ctx context.Context, examID int) (*AnswerKey, bool) {
	data, err := r.rdb.Get(ctx, config.CacheKey.ExamAnswerKey(examID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Int("exam_id", examID).Msg("Answer key cache read failed")
		}
		return nil, false
	}

	var key AnswerKey
	if err := json.Unmarshal(data, &key); err != nil {
		r.log.Warn().Err(err).Int("exam_id", examID).Msg("Corrupt cached answer key")
		return nil, false
	}
	if key.Entries == nil {
		key.Entries = make(map[int]AnswerKeyEntry)
	}
	return &key, true
}

func (r *AnswerKeyResolver) writeCache(ctx context.Context, key *AnswerKey) {
	data, err := json.Marshal(key)
	if err != nil {
		r.log.Warn().Err(err).Int("exam_id", key.ExamID).Msg("Answer key encode failed")
		return
	}
	if err := r.rdb.Set(ctx, config.CacheKey.ExamAnswerKey(key.ExamID), data, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Int("exam_id", key.ExamID).Msg("Answer key cache write failed")
	}
}
