package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/repository"
)

var errStoreDown = errors.New("store unavailable")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// ─── Admins ─────────────────────────────────────────────────────────

type fakeAdmins struct {
	admins []*model.Admin
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range f.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

// ─── Users ──────────────────────────────────────────────────────────

type fakeUsers struct {
	mu        sync.Mutex
	now       func() time.Time
	users     map[string]*model.User
	createErr error
}

func newFakeUsers(now func() time.Time) *fakeUsers {
	return &fakeUsers{now: now, users: make(map[string]*model.User)}
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.EnrolledCourses = slices.Clone(u.EnrolledCourses)
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return repository.ErrUsernameTaken
		}
	}
	now := f.now()
	cp := *u
	cp.EnrolledCourses = []string{}
	cp.CompletedCourses = []string{}
	cp.CreatedAt, cp.UpdatedAt, cp.LastActive = now, now, now
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, req *model.UpdateProfileRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
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
	u.UpdatedAt = f.now()
	return nil
}

func (f *fakeUsers) Enroll(_ context.Context, id, courseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !slices.Contains(u.EnrolledCourses, courseID) {
		u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	}
	u.LastActive = f.now()
	u.UpdatedAt = u.LastActive
	return nil
}

func (f *fakeUsers) TouchLastActive(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastActive = f.now()
	u.UpdatedAt = u.LastActive
	return nil
}

func (f *fakeUsers) put(u *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
}

// ─── Courses ────────────────────────────────────────────────────────

type fakeCourses struct {
	courses map[string]*model.Course
}

func newFakeCourses(cs ...model.Course) *fakeCourses {
	f := &fakeCourses{courses: make(map[string]*model.Course)}
	for i := range cs {
		f.courses[cs[i].ID] = &cs[i]
	}
	return f
}

func (f *fakeCourses) List(_ context.Context) ([]model.Course, error) {
	out := make([]model.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourses) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourses) GetByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	out := []model.Course{}
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ─── Announcements ──────────────────────────────────────────────────

type fakeAnnouncements struct {
	mu        sync.Mutex
	seq       int
	items     map[string]*model.Announcement
	reactions map[string][]model.Reaction
	lastLimit int
}

func newFakeAnnouncements() *fakeAnnouncements {
	return &fakeAnnouncements{
		items:     make(map[string]*model.Announcement),
		reactions: make(map[string][]model.Reaction),
	}
}

func (f *fakeAnnouncements) ListRecent(_ context.Context, limit int) ([]model.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := make([]model.Announcement, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAnnouncements) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAnnouncements) Create(_ context.Context, a *model.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	a.ID = "ann-" + string(rune('0'+f.seq))
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeAnnouncements) Update(_ context.Context, id string, req *model.UpdateAnnouncementRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Message != nil {
		a.Message = *req.Message
	}
	return nil
}

func (f *fakeAnnouncements) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	delete(f.reactions, id)
	return nil
}

func (f *fakeAnnouncements) AddReaction(_ context.Context, announcementID string, re *model.Reaction, dedup bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dedup {
		id := repository.ReactionDocID(re.UserID, re.Emoji)
		for _, existing := range f.reactions[announcementID] {
			if existing.ID == id {
				re.ID = id
				return false, nil
			}
		}
		re.ID = id
	} else {
		re.ID = "re-" + string(rune('a'+len(f.reactions[announcementID])))
	}
	f.reactions[announcementID] = append(f.reactions[announcementID], *re)
	return true, nil
}

func (f *fakeAnnouncements) ListReactions(_ context.Context, announcementID string) ([]model.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.reactions[announcementID]), nil
}

func (f *fakeAnnouncements) WatchRecent(ctx context.Context, limit int, fn func([]model.Announcement)) error {
	list, _ := f.ListRecent(ctx, limit)
	fn(list)
	<-ctx.Done()
	return nil
}

// ─── Identity provider ──────────────────────────────────────────────

type fakeIdentity struct {
	mu           sync.Mutex
	seq          int
	accounts     map[string]identity.NewUser
	displayNames map[string]string
	deleted      []string
	tokens       map[string]string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts:     make(map[string]identity.NewUser),
		displayNames: make(map[string]string),
		tokens:       make(map[string]string),
	}
}

func (f *fakeIdentity) VerifyIDToken(_ context.Context, tok string) (*identity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, ok := f.tokens[tok]
	if !ok {
		return nil, identity.ErrTokenInvalid
	}
	return &identity.Token{UID: uid}, nil
}

func (f *fakeIdentity) EmailRegistered(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeIdentity) CreateUser(_ context.Context, u identity.NewUser) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	uid := "uid-" + string(rune('0'+f.seq))
	f.accounts[uid] = u
	f.displayNames[uid] = u.DisplayName
	return uid, nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeIdentity) UpdateDisplayName(_ context.Context, uid, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displayNames[uid] = name
	return nil
}

func (f *fakeIdentity) EmailVerificationLink(_ context.Context, email string) (string, error) {
	return "https://verify.example/" + email, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendVerification(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}
