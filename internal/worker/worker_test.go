package worker

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/rs/zerolog"
)

func TestDedupeUserIDs(t *testing.T) {
	got := dedupeUserIDs([]int{3, 1, 3, 2, 1, 3})
	if want := []int{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeUserIDs = %v, want %v", got, want)
	}
	if got := dedupeUserIDs(nil); len(got) != 0 {
		t.Errorf("dedupeUserIDs(nil) = %v", got)
	}
}

type fakeRefresher struct {
	calls []int
	err   error
}

func (f *fakeRefresher) RefreshUserStats(_ context.Context, userID int) (*model.UserStats, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &model.UserStats{}, nil
}

func TestFlushRefreshesEachUserOnce(t *testing.T) {
	ref := &fakeRefresher{}
	w := NewStatsRefreshWorker(ref, nil, zerolog.Nop())

	w.flushSafe(context.Background(), []int{7, 7, 8, 7})
	if want := []int{7, 8}; !reflect.DeepEqual(ref.calls, want) {
		t.Errorf("refreshed %v, want %v", ref.calls, want)
	}

	w.flushSafe(context.Background(), nil)
	if len(ref.calls) != 2 {
		t.Error("empty batch must not refresh")
	}
}

func TestFlushDropsUserAfterMaxAttempts(t *testing.T) {
	ref := &fakeRefresher{err: errors.New("postgres down")}
	w := NewStatsRefreshWorker(ref, nil, zerolog.Nop())
	var requeued []int
	w.requeue = func(_ context.Context, userID int) error {
		requeued = append(requeued, userID)
		return nil
	}

	for i := 0; i < StatsMaxAttempts; i++ {
		w.flushSafe(context.Background(), []int{7})
	}
	if want := []int{7, 7}; !reflect.DeepEqual(requeued, want) {
		t.Errorf("requeued %v, want %v", requeued, want)
	}
	if _, tracked := w.failures[7]; tracked {
		t.Error("dropped user still tracked")
	}

	// A later enqueue starts a fresh budget, and success clears it.
	w.flushSafe(context.Background(), []int{7})
	if w.failures[7] != 1 || len(requeued) != 3 {
		t.Errorf("failures = %d, requeued %v", w.failures[7], requeued)
	}
	ref.err = nil
	w.flushSafe(context.Background(), []int{7})
	if _, tracked := w.failures[7]; tracked || len(requeued) != 3 {
		t.Errorf("success should reset the budget: failures %v, requeued %v", w.failures, requeued)
	}
}

type fakeIntegritySource struct {
	issues []model.IntegrityIssue
	err    error
}

func (f fakeIntegritySource) ListIntegrityIssues(context.Context) ([]model.IntegrityIssue, error) {
	return f.issues, f.err
}

func TestCatalogAuditRun(t *testing.T) {
	var buf bytes.Buffer
	job := NewCatalogAuditJob(fakeIntegritySource{issues: []model.IntegrityIssue{
		{ExamID: 1, QuestionID: 4, CorrectAnswers: 0},
		{ExamID: 1, QuestionID: 9, CorrectAnswers: 2},
	}}, zerolog.New(&buf))

	issues, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(issues))
	}
	out := buf.String()
	if !strings.Contains(out, "no_correct_answer") || !strings.Contains(out, "multiple_correct_answers") {
		t.Errorf("issues not logged: %s", out)
	}
}

func TestCatalogAuditRunError(t *testing.T) {
	boom := errors.New("boom")
	job := NewCatalogAuditJob(fakeIntegritySource{err: boom}, zerolog.Nop())
	if _, err := job.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestCatalogAuditSchedule(t *testing.T) {
	job := NewCatalogAuditJob(fakeIntegritySource{}, zerolog.Nop())
	c := NewScheduler(zerolog.Nop())

	id, err := job.Schedule(c, "@every 1h")
	if err != nil || id == 0 {
		t.Fatalf("Schedule = %v, %v", id, err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(c.Entries()))
	}

	if id, err := job.Schedule(c, ""); err != nil || id != 0 {
		t.Errorf("empty spec: Schedule = %v, %v", id, err)
	}
	if _, err := job.Schedule(c, "not a schedule"); err == nil {
		t.Error("expected error for invalid spec")
	}
}
