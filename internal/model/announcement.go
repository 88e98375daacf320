package model

import "time"

// Announcement is an admin-authored notice visible to everyone.
type Announcement struct {
	ID        string    `json:"id" firestore:"-"`
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	CreatedBy string    `json:"createdBy" firestore:"createdBy"`
}

// Reaction is stored in the reactions subcollection of an announcement.
type Reaction struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	Emoji     string    `json:"emoji" firestore:"emoji"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// CreateAnnouncementRequest is the payload for creating an announcement.
type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=2000"`
}

// UpdateAnnouncementRequest is a partial update; nil fields are left untouched.
type UpdateAnnouncementRequest struct {
	Title   *string `json:"title" binding:"omitnil,min=1,max=200"`
	Message *string `json:"message" binding:"omitnil,min=1,max=2000"`
}

// ReactionRequest is the payload for adding a reaction.
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=10"`
}
