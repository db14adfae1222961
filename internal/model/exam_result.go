package model

import (
	"math"
	"time"
)

// PassThreshold is the minimum score (inclusive) for a result to count as passed.
const PassThreshold = 70

// NoCorrectAnswer is reported as the correct answer id when a submitted question
// has no resolvable correct answer. Answer ids are positive serials, so it never
// collides with a real id.
const NoCorrectAnswer = 0

// MaxID is the largest id a catalog or result row can carry (PostgreSQL INT).
// The binding tags below repeat it literally.
const MaxID = math.MaxInt32

// ExamResult is the immutable record of one scored submission.
type ExamResult struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	ExamID         int       `json:"examId"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correctCount"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Passed reports whether the stored score reaches PassThreshold.
func (r ExamResult) Passed() bool {
	return r.Score >= PassThreshold
}

// UserAnswer is one submitted answer of an ExamResult. IsCorrect is the
// correctness computed at submission time and is never re-derived.
type UserAnswer struct {
	ID           int  `json:"-"`
	ExamResultID int  `json:"-"`
	QuestionID   int  `json:"questionId"`
	AnswerID     int  `json:"answerId"`
	IsCorrect    bool `json:"isCorrect"`
}

// StoredResult is an ExamResult read back with its exam summary and answers.
type StoredResult struct {
	ExamResult
	Exam        ExamSummary
	UserAnswers []UserAnswer
}

// ResultScore is the projection used for statistics.
type ResultScore struct {
	Score          int
	CorrectCount   int
	TotalQuestions int
}

// ─── Requests ──────────────────────────────────────────────────────────

// SubmittedAnswer is a single (question, chosen answer) pair of a submission.
type SubmittedAnswer struct {
	QuestionID int `json:"questionId" binding:"required,gt=0,max=2147483647"`
	AnswerID   int `json:"answerId" binding:"required,gt=0,max=2147483647"`
}

// SubmitExamRequest is the payload for submitting an exam.
type SubmitExamRequest struct {
	ExamID  int               `json:"examId" binding:"required,gt=0,max=2147483647"`
	Answers []SubmittedAnswer `json:"answers" binding:"required,max=1000,dive"`
}

// HistoryQuery holds the pagination query of the history endpoint.
type HistoryQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// ─── Responses ─────────────────────────────────────────────────────────

// QuestionResult is the per-submitted-answer outcome returned after scoring.
type QuestionResult struct {
	QuestionID      int     `json:"questionId"`
	IsCorrect       bool    `json:"isCorrect"`
	UserAnswerID    int     `json:"userAnswerId"`
	CorrectAnswerID int     `json:"correctAnswerId"`
	Explanation     *string `json:"explanation"`
}

// ExamSubmissionResult is returned by a successful submission.
type ExamSubmissionResult struct {
	ExamResultID   int              `json:"examResultId"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	CorrectCount   int              `json:"correctCount"`
	Details        []QuestionResult `json:"details"`
}

// HistoryEntry is one row of a user's exam history.
type HistoryEntry struct {
	ID             int         `json:"id"`
	Score          int         `json:"score"`
	CorrectCount   int         `json:"correctCount"`
	TotalQuestions int         `json:"totalQuestions"`
	CompletedAt    time.Time   `json:"completedAt"`
	Passed         bool        `json:"passed"`
	Exam           ExamSummary `json:"exam"`
}

// ResultDetail is a single result with the answers it was scored from.
type ResultDetail struct {
	HistoryEntry
	UserAnswers []UserAnswer `json:"userAnswers"`
}

// UserStats aggregates every stored result of a user.
type UserStats struct {
	TotalExamsTaken     int `json:"totalExamsTaken"`
	AverageScore        int `json:"averageScore"`
	TotalCorrectAnswers int `json:"totalCorrectAnswers"`
	TotalQuestions      int `json:"totalQuestions"`
	PassedExams         int `json:"passedExams"`
	FailedExams         int `json:"failedExams"`
}
