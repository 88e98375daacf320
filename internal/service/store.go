package service

import (
	"context"

	"github.com/techincepto/portal-backend/internal/model"
)

// Store interfaces implemented by the Firestore repositories. Getters return
// (nil, nil) for absent records.

type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateProfile(ctx context.Context, id string, req *model.UpdateProfileRequest) error
	Enroll(ctx context.Context, id, courseID string) error
	TouchLastActive(ctx context.Context, id string) error
}

type CourseStore interface {
	List(ctx context.Context) ([]model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Course, error)
}

type AnnouncementStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.Announcement, error)
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	Create(ctx context.Context, a *model.Announcement) error
	Update(ctx context.Context, id string, req *model.UpdateAnnouncementRequest) error
	Delete(ctx context.Context, id string) error
	AddReaction(ctx context.Context, announcementID string, re *model.Reaction, dedup bool) (bool, error)
	ListReactions(ctx context.Context, announcementID string) ([]model.Reaction, error)
	WatchRecent(ctx context.Context, limit int, fn func([]model.Announcement)) error
}
