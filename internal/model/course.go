package model

import "time"

// Course is a catalogue entry. Courses are created by cmd/seed or the console,
// never by the API.
type Course struct {
	ID             string    `json:"id" firestore:"-"`
	Title          string    `json:"title" firestore:"title"`
	Description    string    `json:"description" firestore:"description"`
	CourseIncludes []string  `json:"courseIncludes" firestore:"courseIncludes"`
	Price          float64   `json:"price" firestore:"price"`
	ThumbnailURL   string    `json:"thumbnailURL" firestore:"thumbnailURL"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// CourseBrief is echoed back after enrollment.
type CourseBrief struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Brief returns the short form of the course.
func (c *Course) Brief() CourseBrief {
	return CourseBrief{ID: c.ID, Title: c.Title, Description: c.Description}
}
