package model

import "time"

// CourseLevel enumerates certification tiers.
type CourseLevel string

const (
	CourseLevelPractitioner CourseLevel = "Practitioner"
	CourseLevelAssociate    CourseLevel = "Associate"
	CourseLevelProfessional CourseLevel = "Professional"
)

// Exam is a practice exam belonging to one course.
type Exam struct {
	ID              int       `json:"id"`
	CourseID        int       `json:"courseId"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	TotalQuestions  int       `json:"totalQuestions"` // declared; scoring counts actual questions
	CreatedAt       time.Time `json:"createdAt"`
}

// ProviderSummary is the provider slice embedded in result views.
type ProviderSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CourseSummary is the course slice embedded in result views.
type CourseSummary struct {
	ID       int              `json:"id"`
	Title    string           `json:"title"`
	Level    CourseLevel      `json:"level"`
	Provider *ProviderSummary `json:"provider,omitempty"`
}

// ExamSummary is the exam slice embedded in history entries and result details.
// Description and DurationMinutes are only loaded for single-result lookups.
type ExamSummary struct {
	ID              int           `json:"id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	DurationMinutes *int          `json:"durationMinutes,omitempty"`
	Course          CourseSummary `json:"course"`
}
