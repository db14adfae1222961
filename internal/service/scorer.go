package service

import (
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/shopspring/decimal"
)

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	Score          int
	TotalQuestions int
	CorrectCount   int
	Details        []model.QuestionResult
}

// Score grades submitted answers against an answer key. Every submitted pair
// yields one detail row in submission order, duplicates included. Pairs whose
// question has no entry in the key are incorrect with CorrectAnswerID set to
// model.NoCorrectAnswer.
func Score(key *AnswerKey, answers []model.SubmittedAnswer) (*ScoreResult, error) {
	if key.TotalQuestions == 0 {
		return nil, ErrNoQuestions
	}

	res := &ScoreResult{
		TotalQuestions: key.TotalQuestions,
		Details:        make([]model.QuestionResult, 0, len(answers)),
	}

	for _, a := range answers {
		detail := model.QuestionResult{
			QuestionID:      a.QuestionID,
			UserAnswerID:    a.AnswerID,
			CorrectAnswerID: model.NoCorrectAnswer,
		}
		if entry, ok := key.Lookup(a.QuestionID); ok {
			detail.CorrectAnswerID = entry.CorrectAnswerID
			detail.Explanation = entry.Explanation
			detail.IsCorrect = a.AnswerID == entry.CorrectAnswerID
		}
		if detail.IsCorrect {
			res.CorrectCount++
		}
		res.Details = append(res.Details, detail)
	}

	res.Score = roundRatio(int64(res.CorrectCount)*100, int64(res.TotalQuestions))
	return res, nil
}

// roundRatio returns num/den rounded half away from zero, computed exactly.
// den must be non-zero.
func roundRatio(num, den int64) int {
	return int(decimal.NewFromInt(num).DivRound(decimal.NewFromInt(den), 0).IntPart())
}
