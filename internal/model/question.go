package model

// Question is a single-choice question of an exam.
type Question struct {
	ID          int     `json:"id"`
	ExamID      int     `json:"examId"`
	Content     string  `json:"content"`
	Explanation *string `json:"explanation"`
}

// Answer is one option of a question. Immutable once created.
type Answer struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"questionId"`
	Content    string `json:"content"`
	IsCorrect  bool   `json:"isCorrect"`
}

// AnswerKeyRow is one row of the answer-key query: a question joined to one of
// its correct answers. CorrectAnswerID is nil when the question has none.
type AnswerKeyRow struct {
	QuestionID      int
	Explanation     *string
	CorrectAnswerID *int
}

// IntegrityIssue reports a question that does not have exactly one correct answer.
type IntegrityIssue struct {
	ExamID         int `json:"examId"`
	QuestionID     int `json:"questionId"`
	CorrectAnswers int `json:"correctAnswers"`
}
