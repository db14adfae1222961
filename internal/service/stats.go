package service

import "github.com/cloudexam/cloudexam-backend/internal/model"

// ComputeStats aggregates stored result scores. The average is taken over the
// stored, already rounded, per-result scores.
func ComputeStats(scores []model.ResultScore) model.UserStats {
	var stats model.UserStats
	if len(scores) == 0 {
		return stats
	}

	var sum int64
	for _, s := range scores {
		sum += int64(s.Score)
		stats.TotalCorrectAnswers += s.CorrectCount
		stats.TotalQuestions += s.TotalQuestions
		if s.Score >= model.PassThreshold {
			stats.PassedExams++
		}
	}

	stats.TotalExamsTaken = len(scores)
	stats.FailedExams = stats.TotalExamsTaken - stats.PassedExams
	stats.AverageScore = roundRatio(sum, int64(len(scores)))
	return stats
}
