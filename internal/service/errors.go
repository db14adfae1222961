package service

import "errors"

var (
	// ErrExamNotFound is returned when a submission references an unknown exam.
	ErrExamNotFound = errors.New("exam not found")
	// ErrResultNotFound is returned for results that do not exist or belong to another user.
	ErrResultNotFound = errors.New("exam result not found")
	// ErrNoQuestions is returned when an exam has no questions and cannot be scored.
	ErrNoQuestions = errors.New("exam has no questions")
	// ErrInvalidSubmission is returned for submissions carrying non-positive ids.
	ErrInvalidSubmission = errors.New("invalid submission")
)
