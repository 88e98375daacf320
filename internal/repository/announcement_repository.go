package repository

import (
	"context"
	"encoding/hex"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/model"
)

// AnnouncementRepository handles announcements and their reactions subcollection.
type AnnouncementRepository struct {
	client *firestore.Client
}

// NewAnnouncementRepository creates a new AnnouncementRepository.
func NewAnnouncementRepository(client *firestore.Client) *AnnouncementRepository {
	return &AnnouncementRepository{client: client}
}

func (r *AnnouncementRepository) col() *firestore.CollectionRef {
	return r.client.Collection(config.Collection.Announcements)
}

func (r *AnnouncementRepository) recent(limit int) firestore.Query {
	return r.col().OrderBy("createdAt", firestore.Desc).Limit(limit)
}

// ListRecent returns up to limit announcements, newest first.
func (r *AnnouncementRepository) ListRecent(ctx context.Context, limit int) ([]model.Announcement, error) {
	docs, err := r.recent(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return decodeAnnouncements(docs)
}

// GetByID retrieves an announcement. Returns nil when absent.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement %s: %w", id, err)
	}
	return decodeAnnouncement(snap)
}

// Create stores a new announcement and fills in its generated ID.
func (r *AnnouncementRepository) Create(ctx context.Context, a *model.Announcement) error {
	ref, _, err := r.col().Add(ctx, a)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	a.ID = ref.ID
	return nil
}

// Update applies the provided fields. Returns ErrNotFound if the announcement is gone.
func (r *AnnouncementRepository) Update(ctx context.Context, id string, req *model.UpdateAnnouncementRequest) error {
	var updates []firestore.Update
	if req.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *req.Title})
	}
	if req.Message != nil {
		updates = append(updates, firestore.Update{Path: "message", Value: *req.Message})
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := r.col().Doc(id).Update(ctx, updates)
	if isNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update announcement %s: %w", id, err)
	}
	return nil
}

// Delete removes the announcement and then its reactions.
// Returns ErrNotFound if the announcement does not exist.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	ref := r.col().Doc(id)
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete announcement %s: %w", id, err)
	}

	refs, err := ref.Collection(config.Collection.Reactions).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("list reactions of %s: %w", id, err)
	}
	if len(refs) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, rr := range refs {
		job, err := bw.Delete(rr)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue reaction delete: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil && !isNotFound(err) {
			return fmt.Errorf("delete reaction: %w", err)
		}
	}
	return nil
}

// AddReaction stores a reaction under the announcement. With dedup set the
// document id is derived from user and emoji, and an existing reaction makes
// the call a no-op reporting created=false.
func (r *AnnouncementRepository) AddReaction(ctx context.Context, announcementID string, re *model.Reaction, dedup bool) (bool, error) {
	reactions := r.col().Doc(announcementID).Collection(config.Collection.Reactions)

	if !dedup {
		ref, _, err := reactions.Add(ctx, re)
		if err != nil {
			return false, fmt.Errorf("add reaction: %w", err)
		}
		re.ID = ref.ID
		return true, nil
	}

	ref := reactions.Doc(ReactionDocID(re.UserID, re.Emoji))
	_, err := ref.Create(ctx, re)
	if isAlreadyExists(err) {
		re.ID = ref.ID
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("add reaction: %w", err)
	}
	re.ID = ref.ID
	return true, nil
}

// ReactionDocID is the deterministic reaction id used under the one-per-emoji policy.
func ReactionDocID(userID, emoji string) string {
	return userID + "_" + hex.EncodeToString([]byte(emoji))
}

// ListReactions returns the reactions of an announcement, newest first.
func (r *AnnouncementRepository) ListReactions(ctx context.Context, announcementID string) ([]model.Reaction, error) {
	docs, err := r.col().Doc(announcementID).Collection(config.Collection.Reactions).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list reactions of %s: %w", announcementID, err)
	}
	out := make([]model.Reaction, 0, len(docs))
	for _, doc := range docs {
		re, err := decode[model.Reaction](doc)
		if err != nil {
			return nil, fmt.Errorf("decode reaction %s: %w", doc.Ref.ID, err)
		}
		re.ID = doc.Ref.ID
		out = append(out, *re)
	}
	return out, nil
}

// WatchRecent calls fn with the recent announcement list on every change
// until ctx is cancelled. A cancelled context ends the watch without error.
func (r *AnnouncementRepository) WatchRecent(ctx context.Context, limit int, fn func([]model.Announcement)) error {
	it := r.recent(limit).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("watch announcements: %w", err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("read announcement snapshot: %w", err)
		}
		list, err := decodeAnnouncements(docs)
		if err != nil {
			return err
		}
		fn(list)
	}
}

func decodeAnnouncements(docs []*firestore.DocumentSnapshot) ([]model.Announcement, error) {
	out := make([]model.Announcement, 0, len(docs))
	for _, doc := range docs {
		a, err := decodeAnnouncement(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

func decodeAnnouncement(snap *firestore.DocumentSnapshot) (*model.Announcement, error) {
	a, err := decode[model.Announcement](snap)
	if err != nil {
		return nil, fmt.Errorf("decode announcement %s: %w", snap.Ref.ID, err)
	}
	if a != nil {
		a.ID = snap.Ref.ID
	}
	return a, nil
}
