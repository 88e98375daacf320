package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/repository"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

const (
	DefaultAnnouncementLimit = 20
	MaxAnnouncementLimit     = 100
)

// ClampAnnouncementLimit maps a requested page size into [1, MaxAnnouncementLimit].
// Zero or negative values select the default.
func ClampAnnouncementLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultAnnouncementLimit
	case n > MaxAnnouncementLimit:
		return MaxAnnouncementLimit
	}
	return n
}

// AnnouncementService handles announcements and reactions.
type AnnouncementService struct {
	announcements AnnouncementStore
	dedup         bool
	now           func() time.Time
	log           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService. With dedup set a
// user holds at most one reaction per emoji on an announcement.
func NewAnnouncementService(announcements AnnouncementStore, dedup bool, log zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		dedup:         dedup,
		now:           time.Now,
		log:           log.With().Str("component", "announcement_service").Logger(),
	}
}

// WithClock replaces the time source, for tests.
func (s *AnnouncementService) WithClock(now func() time.Time) *AnnouncementService {
	s.now = now
	return s
}

// List returns recent announcements, newest first.
func (s *AnnouncementService) List(ctx context.Context, limit int) ([]model.Announcement, error) {
	return s.announcements.ListRecent(ctx, ClampAnnouncementLimit(limit))
}

// Get returns an announcement or ErrAnnouncementNotFound.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*model.Announcement, error) {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAnnouncementNotFound
	}
	return a, nil
}

// Create stores a new announcement authored by adminID.
func (s *AnnouncementService) Create(ctx context.Context, adminID string, req *model.CreateAnnouncementRequest) (*model.Announcement, error) {
	a := &model.Announcement{
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
		CreatedBy: adminID,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Str("announcement_id", a.ID).Str("admin_id", adminID).Msg("Announcement created")
	return a, nil
}

// Update applies the provided fields.
func (s *AnnouncementService) Update(ctx context.Context, id string, req *model.UpdateAnnouncementRequest) error {
	if req.Title == nil && req.Message == nil {
		_, err := s.Get(ctx, id)
		return err
	}
	if err := s.announcements.Update(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return nil
}

// Delete removes an announcement together with its reactions.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	s.log.Info().Str("announcement_id", id).Msg("Announcement deleted")
	return nil
}

// AddReaction records userID reacting with emoji. created is false when the
// one-per-emoji policy found an existing reaction.
func (s *AnnouncementService) AddReaction(ctx context.Context, announcementID, userID, emoji string) (reaction *model.Reaction, created bool, err error) {
	if _, err := s.Get(ctx, announcementID); err != nil {
		return nil, false, err
	}

	re := &model.Reaction{UserID: userID, Emoji: emoji, CreatedAt: s.now().UTC()}
	created, err = s.announcements.AddReaction(ctx, announcementID, re, s.dedup)
	if err != nil {
		return nil, false, err
	}
	return re, created, nil
}

// ListReactions returns the reactions of an existing announcement.
func (s *AnnouncementService) ListReactions(ctx context.Context, announcementID string) ([]model.Reaction, error) {
	if _, err := s.Get(ctx, announcementID); err != nil {
		return nil, err
	}
	return s.announcements.ListReactions(ctx, announcementID)
}

// Watch streams the recent announcement list to fn until ctx is cancelled.
func (s *AnnouncementService) Watch(ctx context.Context, limit int, fn func([]model.Announcement)) error {
	return s.announcements.WatchRecent(ctx, ClampAnnouncementLimit(limit), fn)
}
