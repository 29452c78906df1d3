package main

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/PaulBabatuyi/security-app-api/internal/data"
	"github.com/PaulBabatuyi/security-app-api/internal/db"
	"github.com/PaulBabatuyi/security-app-api/internal/normalize"
)

// memStore backs every fake with one mutex and an id counter.
type memStore struct {
	mu    sync.Mutex
	seq   int
	clock time.Time
}

func (m *memStore) nextID() (string, time.Time) {
	m.seq++
	// Strictly increasing dates keep newest-first ordering deterministic.
	m.clock = m.clock.Add(time.Millisecond)
	return "id-" + strconv.Itoa(m.seq), m.clock
}

type fakeUsers struct {
	*memStore
	byID map[string]data.User
	// codeCollisions makes the next n inserts fail with ErrUserCodeTaken.
	codeCollisions int
}

func (f *fakeUsers) CreateUser(_ context.Context, u *data.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.Email = normalize.Email(u.Email)
	u.UserCode = normalize.UserCode(u.UserCode)
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return data.ErrEmailTaken
		}
		if u.UserCode != "" && existing.UserCode == u.UserCode {
			return data.ErrUserCodeTaken
		}
	}
	if f.codeCollisions > 0 {
		f.codeCollisions--
		return data.ErrUserCodeTaken
	}
	id, created := f.nextID()
	if u.ID == "" {
		u.ID = id
	}
	u.CreatedDate = created
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) find(match func(data.User) bool) (*data.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, data.ErrNotFound
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*data.User, error) {
	email = normalize.Email(email)
	return f.find(func(u data.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*data.User, error) {
	return f.find(func(u data.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetUserByCode(_ context.Context, code string) (*data.User, error) {
	code = normalize.UserCode(code)
	if code == "" {
		return nil, data.ErrNotFound
	}
	return f.find(func(u data.User) bool { return u.UserCode == code })
}

func (f *fakeUsers) UpdateUser(_ context.Context, id string, update data.UserUpdate) (*data.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.AvatarURL != nil {
		avatar := *update.AvatarURL
		u.AvatarURL = &avatar
	}
	f.byID[id] = u
	return &u, nil
}

type fakeChats struct {
	*memStore
	items []data.Chat
	// staleFinds makes the next FindChatWithPeer calls miss, as a reader
	// racing a concurrent insert would.
	staleFinds int
}

func (f *fakeChats) CreateChat(_ context.Context, c *data.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.PeerUserID != "" {
		for _, existing := range f.items {
			if existing.UserID == c.UserID && existing.PeerUserID == c.PeerUserID {
				return &data.DuplicateKeyError{Index: db.ChatsOwnerPeerIndex}
			}
		}
	}
	c.ID, c.CreatedDate = f.nextID()
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeChats) ListChats(_ context.Context, userID string, limit int64) ([]data.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []data.Chat{}
	for _, c := range f.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeChats) UpdateChat(_ context.Context, userID, chatID string, update data.ChatUpdate) (*data.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		c := &f.items[i]
		if c.ID != chatID || c.UserID != userID {
			continue
		}
		if update.ContactName != nil {
			c.ContactName = *update.ContactName
		}
		if update.IsOnline != nil {
			c.IsOnline = *update.IsOnline
		}
		if update.LastMessage != nil {
			c.LastMessage = *update.LastMessage
		}
		if update.Time != nil {
			c.Time = *update.Time
		}
		if update.UnreadCount != nil {
			c.UnreadCount = *update.UnreadCount
		}
		out := *c
		return &out, nil
	}
	return nil, data.ErrNotFound
}

func (f *fakeChats) FindChatWithPeer(_ context.Context, userID, peerUserID string) (*data.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleFinds > 0 {
		f.staleFinds--
		return nil, data.ErrNotFound
	}
	for _, c := range f.items {
		if c.UserID == userID && c.PeerUserID == peerUserID {
			c := c
			return &c, nil
		}
	}
	return nil, data.ErrNotFound
}

type fakeMessages struct {
	*memStore
	items []data.Message
}

func (f *fakeMessages) SaveMessage(_ context.Context, m *data.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID, m.CreatedDate = f.nextID()
	m.Timestamp = m.CreatedDate
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeMessages) ListMessages(_ context.Context, chatID string, limit int64) ([]data.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []data.Message{}
	for _, m := range f.items {
		if chatID == "" || m.ChatID == chatID {
			out = append(out, m)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTasks struct {
	*memStore
	items []data.Task
}

func (f *fakeTasks) CreateTask(_ context.Context, t *data.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID, t.CreatedDate = f.nextID()
	f.items = append(f.items, *t)
	return nil
}

func (f *fakeTasks) ListTasks(_ context.Context, userID string, _ int64) ([]data.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []data.Task{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, userID, taskID string, update data.TaskUpdate) (*data.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		t := &f.items[i]
		if t.ID != taskID || t.UserID != userID {
			continue
		}
		if update.Title != nil {
			t.Title = *update.Title
		}
		if update.Description != nil {
			t.Description = update.Description
		}
		if update.Status != nil {
			t.Status = *update.Status
		}
		if update.StartTime != nil {
			t.StartTime = update.StartTime
		}
		if update.EndTime != nil {
			t.EndTime = update.EndTime
		}
		if update.Duration != nil {
			t.Duration = *update.Duration
		}
		out := *t
		return &out, nil
	}
	return nil, data.ErrNotFound
}

type fakeOrders struct {
	*memStore
	items []data.Order
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *data.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.Items == nil {
		o.Items = []data.OrderItem{}
	}
	o.ID, o.CreatedDate = f.nextID()
	f.items = append(f.items, *o)
	return nil
}

func (f *fakeOrders) ListOrders(_ context.Context, userID string, _ int64) ([]data.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []data.Order{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

type fakeSOS struct {
	*memStore
	items []data.SOSAlert
}

func (f *fakeSOS) CreateAlert(_ context.Context, a *data.SOSAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID, a.CreatedDate = f.nextID()
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeSOS) ListAlerts(_ context.Context, userID string, _ int64) ([]data.SOSAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []data.SOSAlert{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

type fakeFiles struct {
	*memStore
	byID map[string]data.StoredFile
}

func (f *fakeFiles) SaveFile(_ context.Context, file *data.StoredFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file.ID, file.CreatedDate = f.nextID()
	file.Size = int64(len(file.Data))
	f.byID[file.ID] = *file
	return nil
}

func (f *fakeFiles) GetFile(_ context.Context, id string) (*data.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.byID[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	return &file, nil
}

// fakeStores wires a fresh set of fakes sharing one memStore.
type fakeStores struct {
	users *fakeUsers
	chats *fakeChats
}

func newFakeStores() (stores, fakeStores) {
	mem := &memStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	users := &fakeUsers{memStore: mem, byID: map[string]data.User{}}
	chats := &fakeChats{memStore: mem}
	st := stores{
		users:    users,
		chats:    chats,
		messages: &fakeMessages{memStore: mem},
		tasks:    &fakeTasks{memStore: mem},
		orders:   &fakeOrders{memStore: mem},
		sos:      &fakeSOS{memStore: mem},
		files:    &fakeFiles{memStore: mem, byID: map[string]data.StoredFile{}},
	}
	return st, fakeStores{users: users, chats: chats}
}
