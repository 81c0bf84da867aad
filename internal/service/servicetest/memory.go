// Package servicetest provides in-memory stores that satisfy the service interfaces.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/repository"
	"github.com/articlehub/articlehub-backend/internal/service"
)

var (
	_ service.AppUserStore = (*AppUsers)(nil)
	_ service.StudentStore = (*Students)(nil)
	_ service.ChatStore    = (*Chat)(nil)
	_ service.ChatNotifier = (*Notifier)(nil)
)

// AppUsers is an in-memory service.AppUserStore.
type AppUsers struct {
	mu    sync.Mutex
	next  int
	users map[int]*model.AppUser
}

func NewAppUsers() *AppUsers {
	return &AppUsers{users: map[int]*model.AppUser{}}
}

func (f *AppUsers) GetByID(_ context.Context, id int) (*model.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *AppUsers) GetByEmail(_ context.Context, email string) (*model.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *AppUsers) List(_ context.Context) ([]model.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.AppUser{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *AppUsers) Create(_ context.Context, u *model.AppUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	f.next++
	u.ID = f.next
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *AppUsers) Update(_ context.Context, u *model.AppUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range f.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	existing.Name, existing.Email = u.Name, u.Email
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *AppUsers) UpdateStatus(_ context.Context, id int, status model.AccountStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Status = status
	return nil
}

func (f *AppUsers) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// Students is an in-memory service.StudentStore.
type Students struct {
	mu       sync.Mutex
	students []*model.Student
}

func (f *Students) GetByID(_ context.Context, id int) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *Students) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *Students) Create(_ context.Context, s *model.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.students {
		if strings.EqualFold(existing.Email, s.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	s.ID = len(f.students) + 1
	cp := *s
	f.students = append(f.students, &cp)
	return nil
}

// Chat is an in-memory service.ChatStore. Threads come back ordered by
// created_at and then id, the same ordering the Postgres store uses.
type Chat struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	failErr  error
	clock    func(n int) time.Time
}

// NewFrozenChat returns a Chat that stamps every message with the same instant.
func NewFrozenChat(at time.Time) *Chat {
	return &Chat{clock: func(int) time.Time { return at }}
}

// SetFailure makes every call fail with err until it is reset with nil.
func (f *Chat) SetFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failErr = err
}

func (f *Chat) Insert(_ context.Context, m *model.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	m.ID = int64(len(f.messages) + 1)
	if f.clock != nil {
		m.CreatedAt = f.clock(len(f.messages))
	} else {
		m.CreatedAt = time.Date(2024, 5, 1, 12, 0, len(f.messages), 0, time.UTC)
	}
	f.messages = append(f.messages, *m)
	return nil
}

func (f *Chat) ListThread(_ context.Context, thread string) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	out := []model.ChatMessage{}
	for _, m := range f.messages {
		for _, k := range m.ThreadKeys() {
			if k == thread {
				out = append(out, m)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *Chat) ListRecipients(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	seen := map[string]bool{}
	out := []string{}
	for _, m := range f.messages {
		for _, k := range m.ThreadKeys() {
			if k != "" && !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Notifier delivers published messages to in-process subscribers and keeps
// a record of everything published.
type Notifier struct {
	mu         sync.Mutex
	subs       map[string][]chan model.ChatMessage
	published  []model.ChatMessage
	publishErr error
}

func NewNotifier() *Notifier {
	return &Notifier{subs: map[string][]chan model.ChatMessage{}}
}

// SetPublishError makes Publish fail with err. Nothing is delivered while it is set.
func (f *Notifier) SetPublishError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishErr = err
}

// Published returns a copy of every successfully published message.
func (f *Notifier) Published() []model.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ChatMessage(nil), f.published...)
}

func (f *Notifier) Publish(_ context.Context, m *model.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, *m)
	for _, k := range m.ThreadKeys() {
		for _, ch := range f.subs[k] {
			select {
			case ch <- *m:
			default:
			}
		}
	}
	return nil
}

func (f *Notifier) Subscribe(_ context.Context, thread string) (service.ChatSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan model.ChatMessage, 8)
	f.subs[thread] = append(f.subs[thread], ch)
	return &subscription{ch: ch}, nil
}

// Subscribers returns how many subscriptions were opened on a thread.
func (f *Notifier) Subscribers(thread string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[thread])
}

type subscription struct {
	ch chan model.ChatMessage
}

func (s *subscription) Messages() <-chan model.ChatMessage { return s.ch }
func (s *subscription) Close() error                       { return nil }
