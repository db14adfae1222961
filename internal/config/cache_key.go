package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamAnswerKey returns the cache key for an exam's resolved answer key
func (r *CacheKeyStruct) ExamAnswerKey(examID int) string {
	return fmt.Sprintf("exam:%d:answer_key", examID)
}

// ExamAnswerKeyPattern matches every cached answer key
func (r *CacheKeyStruct) ExamAnswerKeyPattern() string {
	return "exam:*:answer_key"
}

// UserStatsKey returns the cache key for a user's aggregated exam statistics
func (r *CacheKeyStruct) UserStatsKey(userID int) string {
	return fmt.Sprintf("user:%d:exam_stats", userID)
}

var CacheKey = NewCacheKeyStruct()
