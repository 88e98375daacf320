package router

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/repository"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memAdmins struct{ list []model.Admin }

func (m *memAdmins) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	for i := range m.list {
		if m.list[i].Username == username {
			a := m.list[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for i := range m.list {
		if m.list[i].Email == email {
			a := m.list[i]
			return &a, nil
		}
	}
	return nil, nil
}

type memUsers struct {
	mu    sync.Mutex
	now   func() time.Time
	users map[string]model.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.EnrolledCourses = slices.Clone(u.EnrolledCourses)
	return &u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return repository.ErrUsernameTaken
		}
	}
	rec := *u
	now := m.now()
	rec.EnrolledCourses, rec.CompletedCourses = []string{}, []string{}
	rec.CreatedAt, rec.UpdatedAt, rec.LastActive = now, now, now
	m.users[u.ID] = rec
	return nil
}

func (m *memUsers) mutate(id string, fn func(*model.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = m.now()
	m.users[id] = u
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, req *model.UpdateProfileRequest) error {
	return m.mutate(id, func(u *model.User) {
		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		if req.Phone != nil {
			u.Phone = *req.Phone
		}
		if req.PhotoURL != nil {
			u.PhotoURL = *req.PhotoURL
		}
	})
}

func (m *memUsers) Enroll(_ context.Context, id, courseID string) error {
	return m.mutate(id, func(u *model.User) {
		if !slices.Contains(u.EnrolledCourses, courseID) {
			u.EnrolledCourses = append(slices.Clone(u.EnrolledCourses), courseID)
		}
		u.LastActive = m.now()
	})
}

func (m *memUsers) TouchLastActive(_ context.Context, id string) error {
	return m.mutate(id, func(u *model.User) { u.LastActive = m.now() })
}

type memCourses struct{ byID map[string]model.Course }

func (m *memCourses) List(_ context.Context) ([]model.Course, error) {
	out := make([]model.Course, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCourses) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCourses) GetByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	out := []model.Course{}
	for _, id := range ids {
		if c, ok := m.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type memAnnouncements struct {
	mu        sync.Mutex
	seq       int
	items     map[string]model.Announcement
	reactions map[string][]model.Reaction
	watching  atomic.Int32
}

func (m *memAnnouncements) ListRecent(_ context.Context, limit int) ([]model.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Announcement, 0, len(m.items))
	for _, a := range m.items {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b model.Announcement) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAnnouncements) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memAnnouncements) Create(_ context.Context, a *model.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	a.ID = fmt.Sprintf("ann-%d", m.seq)
	m.items[a.ID] = *a
	return nil
}

func (m *memAnnouncements) Update(_ context.Context, id string, req *model.UpdateAnnouncementRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Message != nil {
		a.Message = *req.Message
	}
	m.items[id] = a
	return nil
}

func (m *memAnnouncements) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	delete(m.reactions, id)
	return nil
}

func (m *memAnnouncements) AddReaction(_ context.Context, announcementID string, re *model.Reaction, _ bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	re.ID = fmt.Sprintf("re-%d", len(m.reactions[announcementID])+1)
	m.reactions[announcementID] = append(m.reactions[announcementID], *re)
	return true, nil
}

func (m *memAnnouncements) ListReactions(_ context.Context, announcementID string) ([]model.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.reactions[announcementID]), nil
}

func (m *memAnnouncements) WatchRecent(ctx context.Context, limit int, fn func([]model.Announcement)) error {
	m.watching.Add(1)
	defer m.watching.Add(-1)
	list, _ := m.ListRecent(ctx, limit)
	fn(list)
	<-ctx.Done()
	return nil
}

// memIdentity accepts bearer tokens of the form "token-<uid>".
type memIdentity struct {
	mu       sync.Mutex
	seq      int
	accounts map[string]identity.NewUser
}

func (m *memIdentity) VerifyIDToken(_ context.Context, tok string) (*identity.Token, error) {
	if tok == "expired" {
		return nil, identity.ErrTokenExpired
	}
	uid, ok := strings.CutPrefix(tok, "token-")
	if !ok || uid == "" {
		return nil, identity.ErrTokenInvalid
	}
	return &identity.Token{UID: uid}, nil
}

func (m *memIdentity) EmailRegistered(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memIdentity) CreateUser(_ context.Context, u identity.NewUser) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	uid := fmt.Sprintf("uid%d", m.seq)
	m.accounts[uid] = u
	return uid, nil
}

func (m *memIdentity) DeleteUser(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, uid)
	return nil
}

func (m *memIdentity) UpdateDisplayName(context.Context, string, string) error { return nil }

func (m *memIdentity) EmailVerificationLink(_ context.Context, email string) (string, error) {
	return "https://verify.example/?e=" + email, nil
}
