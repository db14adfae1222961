package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/cloudexam/cloudexam-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// unreachableRedis returns a client whose every command fails fast with a
// connection error.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// fakeCatalog is an in-memory AnswerKeySource.
type fakeCatalog struct {
	rows      map[int][]model.AnswerKeyRow // exam id -> rows
	err       error
	rowsCalls int
}

func (f *fakeCatalog) Exists(_ context.Context, examID int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.rows[examID]
	return ok, nil
}

func (f *fakeCatalog) ListAnswerKeyRows(_ context.Context, examID int) ([]model.AnswerKeyRow, error) {
	f.rowsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[examID], nil
}

func (f *fakeCatalog) ListIDs(context.Context) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]int, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// fakeResolver returns fixed keys.
type fakeResolver struct {
	keys map[int]*AnswerKey
	err  error
}

func (f *fakeResolver) Resolve(_ context.Context, examID int) (*AnswerKey, error) {
	if f.err != nil {
		return nil, f.err
	}
	key, ok := f.keys[examID]
	if !ok {
		return nil, ErrExamNotFound
	}
	return key, nil
}

// fakeStore is an in-memory ResultStore. Exams maps exam id to its summary.
type fakeStore struct {
	mu        sync.Mutex
	results   []model.StoredResult
	exams     map[int]model.ExamSummary
	createErr error
	clock     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		exams: map[int]model.ExamSummary{},
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) Create(_ context.Context, result *model.ExamResult, answers []model.UserAnswer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}

	f.clock = f.clock.Add(time.Minute)
	result.ID = len(f.results) + 1
	result.CompletedAt = f.clock

	stored := model.StoredResult{ExamResult: *result, Exam: f.exams[result.ExamID]}
	for i := range answers {
		answers[i].ID = i + 1
		answers[i].ExamResultID = result.ID
		stored.UserAnswers = append(stored.UserAnswers, answers[i])
	}
	f.results = append(f.results, stored)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, resultID int) (*model.StoredResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.results {
		if f.results[i].ID == resultID {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListByUser(_ context.Context, userID, limit, offset int) ([]model.StoredResult, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []model.StoredResult
	for _, r := range f.results {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if !mine[i].CompletedAt.Equal(mine[j].CompletedAt) {
			return mine[i].CompletedAt.After(mine[j].CompletedAt)
		}
		return mine[i].ID > mine[j].ID
	})
	total := len(mine)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func (f *fakeStore) ListScoresByUser(_ context.Context, userID int) ([]model.ResultScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var scores []model.ResultScore
	for _, r := range f.results {
		if r.UserID == userID {
			scores = append(scores, model.ResultScore{
				Score:          r.Score,
				CorrectCount:   r.CorrectCount,
				TotalQuestions: r.TotalQuestions,
			})
		}
	}
	return scores, nil
}

var errStoreDown = errors.New("connection refused")
