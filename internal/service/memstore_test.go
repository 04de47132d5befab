package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// memStore is an in-memory stand-in for a storage backend. Every write
// advances the clock by one second so listing order is deterministic.
type memStore struct {
	mu    sync.Mutex
	seq   int
	clock time.Time
	tasks map[string]model.Task
	users map[string]model.User
	txs   int
}

func newMemStore() *memStore {
	return &memStore{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		tasks: map[string]model.Task{},
		users: map[string]model.User{},
	}
}

func (m *memStore) Tasks() repository.TaskRepository { return memTasks{m} }
func (m *memStore) Users() repository.UserRepository { return memUsers{m} }

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txs++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%04d", prefix, m.seq)
}

// task and user read straight from the maps for assertions.
func (m *memStore) task(id string) model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTask(m.tasks[id])
}

func (m *memStore) user(id string) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneUser(m.users[id])
}

func (m *memStore) addUser(name string, role model.Role) model.User {
	u := model.User{Name: name, Role: role, Tasks: []string{}}
	if err := m.Users().Create(context.Background(), &u); err != nil {
		panic(err)
	}
	return u
}

func (m *memStore) addTask(name string, status model.TaskStatus) model.Task {
	t := model.Task{Name: name, Description: name + " description", Status: status}
	if err := m.Tasks().Create(context.Background(), &t); err != nil {
		panic(err)
	}
	return t
}

func cloneTask(t model.Task) model.Task {
	if t.Assignee != nil {
		a := *t.Assignee
		t.Assignee = &a
	}
	return t
}

func cloneUser(u model.User) model.User {
	u.Tasks = append([]string{}, u.Tasks...)
	return u
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inRange(ts time.Time, r *repository.TimeRange) bool {
	return r == nil || (!ts.Before(r.From) && ts.Before(r.To))
}

func window[T any](items []T, page repository.Page) []T {
	if page.Offset >= len(items) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

type memTasks struct{ m *memStore }

func (r memTasks) Create(_ context.Context, t *model.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t.ID == "" {
		t.ID = r.m.nextID("t")
	}
	ts := r.m.tick()
	t.CreatedAt, t.UpdatedAt = ts, ts
	r.m.tasks[t.ID] = cloneTask(*t)
	return nil
}

func (r memTasks) GetByID(_ context.Context, id string) (*model.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	t = cloneTask(t)
	return &t, nil
}

func (r memTasks) GetByIDs(_ context.Context, ids []string) ([]model.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Task
	for _, id := range ids {
		if t, ok := r.m.tasks[id]; ok {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (r memTasks) matching(f repository.TaskFilter) []model.Task {
	var out []model.Task
	for _, t := range r.m.tasks {
		if t.IsDeleted || !containsFold(t.Name, f.Name) || !containsFold(string(t.Status), f.Status) {
			continue
		}
		if !inRange(t.CreatedAt, f.CreatedAt) || !inRange(t.UpdatedAt, f.UpdatedAt) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r memTasks) List(_ context.Context, f repository.TaskFilter, page repository.Page) ([]model.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return window(r.matching(f), page), nil
}

func (r memTasks) Count(_ context.Context, f repository.TaskFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r memTasks) Update(_ context.Context, t *model.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.tasks[t.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = r.m.tick()
	r.m.tasks[t.ID] = cloneTask(*t)
	return nil
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u.ID == "" {
		u.ID = r.m.nextID("u")
	}
	ts := r.m.tick()
	u.CreatedAt, u.UpdatedAt = ts, ts
	r.m.users[u.ID] = cloneUser(*u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r memUsers) GetByIDs(_ context.Context, ids []string) ([]model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := r.m.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r memUsers) matching(f repository.UserFilter) []model.User {
	var out []model.User
	for _, u := range r.m.users {
		if u.IsDeleted || !containsFold(u.Name, f.Name) || !containsFold(string(u.Role), f.Role) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r memUsers) List(_ context.Context, f repository.UserFilter, page repository.Page) ([]model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return window(r.matching(f), page), nil
}

func (r memUsers) Count(_ context.Context, f repository.UserFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r memUsers) Update(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.users[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.CreatedAt = stored.CreatedAt
	u.UpdatedAt = r.m.tick()
	r.m.users[u.ID] = cloneUser(*u)
	return nil
}
