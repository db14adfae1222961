package model

import "time"

// Provider is a cloud vendor offering certifications.
type Provider struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Course is a certification track of a provider.
type Course struct {
	ID           int         `json:"id"`
	ProviderID   int         `json:"providerId"`
	Title        string      `json:"title"`
	Description  *string     `json:"description"`
	Level        CourseLevel `json:"level"`
	ThumbnailURL *string     `json:"thumbnailUrl"`
	CreatedAt    time.Time   `json:"createdAt"`
}
