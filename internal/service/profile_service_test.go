package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techincepto/portal-backend/internal/model"
)

func seedProfiles(clock *fakeClock) (*fakeUsers, *fakeCourses) {
	users := newFakeUsers(clock.Now)
	now := clock.Now()
	users.put(&model.User{
		ID: "u1", FirstName: "Ada", LastName: "Lovelace", Username: "ada", Email: "ada@example.com",
		Role: model.RoleStudent, EnrolledCourses: []string{"c1", "c2", "gone"}, CompletedCourses: []string{"c1"},
		CreatedAt: now.Add(-48 * time.Hour), LastActive: now.Add(-50 * time.Hour),
	})
	users.put(&model.User{
		ID: "u2", FirstName: "Alan", LastName: "Turing", Username: "alan", Email: "alan@example.org",
		Role: model.RoleAdmin, EnrolledCourses: []string{}, CompletedCourses: []string{},
		CreatedAt: now.Add(-24 * time.Hour), LastActive: now,
	})
	courses := newFakeCourses(
		model.Course{ID: "c1", Title: "Go"},
		model.Course{ID: "c2", Title: "Firebase"},
	)
	return users, courses
}

func TestProfileService_ListFilters(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	users, courses := seedProfiles(clock)
	s := NewProfileService(users, courses).WithClock(clock.Now)

	all, err := s.List(ctx, ProfileFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[0].ID, "newest first")

	byName, err := s.List(ctx, ProfileFilter{Search: "ADA LOVE"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, 3, byName[0].EnrolledCoursesCount)
	assert.Equal(t, 1, byName[0].CompletedCoursesCount)

	byEmail, _ := s.List(ctx, ProfileFilter{Search: "example.org"})
	require.Len(t, byEmail, 1)
	assert.Equal(t, "u2", byEmail[0].ID)

	students, _ := s.List(ctx, ProfileFilter{Role: model.RoleStudent})
	require.Len(t, students, 1)
	assert.Equal(t, "u1", students[0].ID)

	none, _ := s.List(ctx, ProfileFilter{Search: "ada", Role: model.RoleAdmin})
	assert.Empty(t, none)
}

func TestProfileService_GetExpandsCoursesAndStats(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	users, courses := seedProfiles(clock)
	s := NewProfileService(users, courses).WithClock(clock.Now)

	p, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, p.EnrolledCourses, 2, "missing course skipped")
	assert.Equal(t, "Go", p.EnrolledCourses[0].Title)
	require.Len(t, p.CompletedCourses, 1)

	assert.Equal(t, 3, p.Stats.EnrolledCount)
	assert.Equal(t, 1, p.Stats.CompletedCount)
	assert.InDelta(t, 33.33, p.Stats.CompletionRate, 0.001)
	assert.Equal(t, 2, p.Stats.LastActivityDays)

	empty, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Zero(t, empty.Stats.CompletionRate)
	assert.Zero(t, empty.Stats.LastActivityDays)

	_, err = s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
