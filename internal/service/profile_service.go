package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/techincepto/portal-backend/internal/model"
)

// ProfileFilter narrows the admin profile list.
type ProfileFilter struct {
	Search string
	Role   string
}

// ProfileService serves the admin view of user profiles.
type ProfileService struct {
	users   UserStore
	courses CourseStore
	now     func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users UserStore, courses CourseStore) *ProfileService {
	return &ProfileService{users: users, courses: courses, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *ProfileService) WithClock(now func() time.Time) *ProfileService {
	s.now = now
	return s
}

// List returns summaries of users matching f. Search is a case-insensitive
// substring match over username, email and full name; Role must match exactly.
func (s *ProfileService) List(ctx context.Context, f ProfileFilter) ([]model.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if search != "" && !matchesSearch(u, search) {
			continue
		}
		out = append(out, u.Summary())
	}
	return out, nil
}

func matchesSearch(u *model.User, needle string) bool {
	return strings.Contains(strings.ToLower(u.Username), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle) ||
		strings.Contains(strings.ToLower(u.FullName()), needle)
}

// Get returns the detailed profile of a user with courses expanded.
// Courses that no longer exist are skipped.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.UserProfile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	enrolled, err := s.courses.GetByIDs(ctx, u.EnrolledCourses)
	if err != nil {
		return nil, err
	}
	completed, err := s.courses.GetByIDs(ctx, u.CompletedCourses)
	if err != nil {
		return nil, err
	}

	return &model.UserProfile{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Username:         u.Username,
		Email:            u.Email,
		Phone:            u.Phone,
		PhotoURL:         u.PhotoURL,
		Role:             u.Role,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
		LastActive:       u.LastActive,
		EnrolledCourses:  enrolled,
		CompletedCourses: completed,
		Stats:            s.stats(u),
	}, nil
}

func (s *ProfileService) stats(u *model.User) model.UserStats {
	st := model.UserStats{
		EnrolledCount:  len(u.EnrolledCourses),
		CompletedCount: len(u.CompletedCourses),
	}
	if st.EnrolledCount > 0 {
		rate := float64(st.CompletedCount) / float64(st.EnrolledCount) * 100
		st.CompletionRate = math.Round(rate*100) / 100
	}
	if !u.LastActive.IsZero() {
		if d := s.now().Sub(u.LastActive); d > 0 {
			st.LastActivityDays = int(d / (24 * time.Hour))
		}
	}
	return st
}
