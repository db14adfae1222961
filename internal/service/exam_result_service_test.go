package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) (*ExamResultService, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	store.exams[1] = model.ExamSummary{
		ID:    1,
		Title: "AWS Cloud Practitioner - Practice Exam 1",
		Course: model.CourseSummary{
			ID: 1, Title: "AWS Cloud Practitioner", Level: model.CourseLevelPractitioner,
		},
	}

	resolver := &fakeResolver{keys: map[int]*AnswerKey{
		1: fiveQuestionKey(),
		2: {ExamID: 2, Entries: map[int]AnswerKeyEntry{}},
	}}

	cfg := &config.Config{RequestTimeout: time.Second, StatsCacheTTL: time.Minute}
	return NewExamResultService(resolver, store, nil, cfg, zerolog.Nop()), store
}

func submit(correct, total int) model.SubmitExamRequest {
	req := model.SubmitExamRequest{ExamID: 1}
	for q := 1; q <= total; q++ {
		answer := q * 10
		if q > correct {
			answer++
		}
		req.Answers = append(req.Answers, model.SubmittedAnswer{QuestionID: q, AnswerID: answer})
	}
	return req
}

func TestSubmitExam(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	res, err := svc.SubmitExam(ctx, 42, submit(3, 5))
	if err != nil {
		t.Fatalf("SubmitExam: %v", err)
	}
	if res.ExamResultID == 0 {
		t.Error("expected persisted result id")
	}
	if res.Score != 60 || res.CorrectCount != 3 || res.TotalQuestions != 5 || len(res.Details) != 5 {
		t.Errorf("unexpected result: %+v", res)
	}

	if len(store.results) != 1 {
		t.Fatalf("stored %d results, want 1", len(store.results))
	}
	stored := store.results[0]
	if stored.UserID != 42 || stored.ExamID != 1 || stored.Score != 60 {
		t.Errorf("unexpected stored result: %+v", stored.ExamResult)
	}
	if len(stored.UserAnswers) != 5 {
		t.Fatalf("stored %d answers, want 5", len(stored.UserAnswers))
	}
	for i, a := range stored.UserAnswers {
		if a.IsCorrect != res.Details[i].IsCorrect || a.AnswerID != res.Details[i].UserAnswerID {
			t.Errorf("answer %d does not match detail: %+v vs %+v", i, a, res.Details[i])
		}
	}
}

func TestSubmitExamEveryCallCreatesResult(t *testing.T) {
	svc, store := newTestService(t)
	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitExam(context.Background(), 42, submit(5, 5)); err != nil {
			t.Fatalf("SubmitExam: %v", err)
		}
	}
	if len(store.results) != 3 {
		t.Errorf("stored %d results, want 3", len(store.results))
	}
}

func TestSubmitExamUnknownExam(t *testing.T) {
	svc, store := newTestService(t)

	req := submit(1, 1)
	req.ExamID = 99
	_, err := svc.SubmitExam(context.Background(), 42, req)
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
	if len(store.results) != 0 {
		t.Error("unknown exam must not write anything")
	}
}

func TestSubmitExamWithoutQuestions(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.SubmitExam(context.Background(), 42, model.SubmitExamRequest{ExamID: 2, Answers: []model.SubmittedAnswer{}})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if len(store.results) != 0 {
		t.Error("exam without questions must not write anything")
	}
}

func TestSubmitExamInvalidIDs(t *testing.T) {
	svc, store := newTestService(t)
	tooBig := int(int64(model.MaxID) + 1)

	tests := []struct {
		name   string
		userID int
		req    model.SubmitExamRequest
	}{
		{"zero user", 0, submit(1, 1)},
		{"zero exam", 42, model.SubmitExamRequest{ExamID: 0}},
		{"zero question", 42, model.SubmitExamRequest{ExamID: 1, Answers: []model.SubmittedAnswer{{QuestionID: 0, AnswerID: 1}}}},
		{"negative answer", 42, model.SubmitExamRequest{ExamID: 1, Answers: []model.SubmittedAnswer{{QuestionID: 1, AnswerID: -1}}}},
		{"exam beyond int4", 42, model.SubmitExamRequest{ExamID: tooBig}},
		{"question beyond int4", 42, model.SubmitExamRequest{ExamID: 1, Answers: []model.SubmittedAnswer{{QuestionID: tooBig, AnswerID: 1}}}},
		{"answer beyond int4", 42, model.SubmitExamRequest{ExamID: 1, Answers: []model.SubmittedAnswer{{QuestionID: 1, AnswerID: tooBig}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitExam(context.Background(), tt.userID, tt.req)
			if !errors.Is(err, ErrInvalidSubmission) {
				t.Errorf("err = %v, want ErrInvalidSubmission", err)
			}
		})
	}
	if n := len(store.results); n != 0 {
		t.Errorf("invalid submissions wrote %d results", n)
	}
}

func TestSubmitExamStoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.createErr = errStoreDown

	_, err := svc.SubmitExam(context.Background(), 42, submit(1, 5))
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

func TestSubmitExamPropagatesResolverErrors(t *testing.T) {
	store := newFakeStore()
	svc := NewExamResultService(&fakeResolver{err: errStoreDown}, store, nil, &config.Config{}, zerolog.Nop())

	_, err := svc.SubmitExam(context.Background(), 1, submit(1, 1))
	if !errors.Is(err, errStoreDown) || errors.Is(err, ErrExamNotFound) {
		t.Fatalf("err = %v, want wrapped resolver error", err)
	}
}

func TestGetHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		if _, err := svc.SubmitExam(ctx, 42, submit(i%6, 5)); err != nil {
			t.Fatalf("SubmitExam: %v", err)
		}
	}
	if _, err := svc.SubmitExam(ctx, 7, submit(5, 5)); err != nil {
		t.Fatalf("SubmitExam: %v", err)
	}

	entries, page, err := svc.GetHistory(ctx, 42, 1, 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("entries = %d, want 10", len(entries))
	}
	if page.TotalItems != 12 || page.TotalPages != 2 || page.Page != 1 || page.PerPage != 10 {
		t.Errorf("unexpected pagination: %+v", page)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].CompletedAt.After(entries[i-1].CompletedAt) {
			t.Fatalf("history not ordered newest first at %d", i)
		}
	}
	first := entries[0]
	if first.ID != 12 {
		t.Errorf("newest entry id = %d, want 12", first.ID)
	}
	if first.Exam.Title == "" || first.Exam.Course.Level != model.CourseLevelPractitioner {
		t.Errorf("exam summary not attached: %+v", first.Exam)
	}
	for _, e := range entries {
		if e.Passed != (e.Score >= model.PassThreshold) {
			t.Errorf("entry %d passed=%v with score %d", e.ID, e.Passed, e.Score)
		}
	}

	entries, page, err = svc.GetHistory(ctx, 42, 2, 10)
	if err != nil {
		t.Fatalf("GetHistory page 2: %v", err)
	}
	if len(entries) != 2 || page.Page != 2 {
		t.Errorf("page 2: %d entries, pagination %+v", len(entries), page)
	}
}

func TestGetHistoryClampsPaging(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 500, 2, 100},
		{4, 25, 4, 25},
	}
	for _, tt := range tests {
		entries, page, err := svc.GetHistory(context.Background(), 1, tt.page, tt.limit)
		if err != nil {
			t.Fatalf("GetHistory: %v", err)
		}
		if page.Page != tt.wantPage || page.PerPage != tt.wantLimit {
			t.Errorf("GetHistory(%d, %d) pagination = %+v", tt.page, tt.limit, page)
		}
		if entries == nil || len(entries) != 0 || page.TotalPages != 0 {
			t.Errorf("expected empty non-nil history, got %v / %+v", entries, page)
		}
	}
}

func TestGetResultByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	submitted, err := svc.SubmitExam(ctx, 42, submit(2, 3))
	if err != nil {
		t.Fatalf("SubmitExam: %v", err)
	}

	detail, err := svc.GetResultByID(ctx, 42, submitted.ExamResultID)
	if err != nil {
		t.Fatalf("GetResultByID: %v", err)
	}
	if detail.Score != submitted.Score || detail.CorrectCount != submitted.CorrectCount || detail.TotalQuestions != submitted.TotalQuestions {
		t.Errorf("round trip mismatch: %+v vs %+v", detail.HistoryEntry, submitted)
	}
	if len(detail.UserAnswers) != len(submitted.Details) {
		t.Fatalf("userAnswers = %d, details = %d", len(detail.UserAnswers), len(submitted.Details))
	}
	for i, a := range detail.UserAnswers {
		if a.IsCorrect != submitted.Details[i].IsCorrect || a.QuestionID != submitted.Details[i].QuestionID {
			t.Errorf("answer %d mismatch: %+v vs %+v", i, a, submitted.Details[i])
		}
	}

	if _, err := svc.GetResultByID(ctx, 43, submitted.ExamResultID); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("foreign result: err = %v, want ErrResultNotFound", err)
	}
	if _, err := svc.GetResultByID(ctx, 42, 9999); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("missing result: err = %v, want ErrResultNotFound", err)
	}
}

func TestGetUserStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	stats, err := svc.GetUserStats(ctx, 42)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if *stats != (model.UserStats{}) {
		t.Errorf("stats without results = %+v, want zero value", *stats)
	}

	for _, correct := range []int{5, 3, 4} { // 100, 60, 80
		if _, err := svc.SubmitExam(ctx, 42, submit(correct, 5)); err != nil {
			t.Fatalf("SubmitExam: %v", err)
		}
	}

	stats, err = svc.GetUserStats(ctx, 42)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	want := model.UserStats{
		TotalExamsTaken:     3,
		AverageScore:        80,
		TotalCorrectAnswers: 12,
		TotalQuestions:      15,
		PassedExams:         2,
		FailedExams:         1,
	}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}

func TestSubmitExamSurvivesRedisOutage(t *testing.T) {
	store := newFakeStore()
	store.exams[1] = model.ExamSummary{ID: 1, Title: "Practice Exam"}
	resolver := &fakeResolver{keys: map[int]*AnswerKey{1: fiveQuestionKey()}}
	cfg := &config.Config{RequestTimeout: time.Second, StatsCacheTTL: time.Minute}
	svc := NewExamResultService(resolver, store, unreachableRedis(t), cfg, zerolog.Nop())
	ctx := context.Background()

	res, err := svc.SubmitExam(ctx, 42, submit(5, 5))
	if err != nil {
		t.Fatalf("SubmitExam with redis down: %v", err)
	}
	if res.Score != 100 || len(store.results) != 1 {
		t.Errorf("score %d, stored %d", res.Score, len(store.results))
	}

	stats, err := svc.GetUserStats(ctx, 42)
	if err != nil {
		t.Fatalf("GetUserStats with redis down: %v", err)
	}
	if stats.TotalExamsTaken != 1 || stats.PassedExams != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
