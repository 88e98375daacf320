package service

import (
	"context"

	"github.com/techincepto/portal-backend/internal/model"
)

// CourseService exposes the read-only course catalogue.
type CourseService struct {
	courses CourseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses CourseStore) *CourseService {
	return &CourseService{courses: courses}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courses.List(ctx)
}

// Get returns a course or ErrCourseNotFound.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}
