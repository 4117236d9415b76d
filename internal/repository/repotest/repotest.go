// Package repotest provides in-memory repositories for tests. They follow the
// same claim rules as the Postgres implementation, with a mutex standing in
// for row locks.
package repotest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

var (
	_ repository.PostRepository    = (*PostStore)(nil)
	_ repository.AccountRepository = (*AccountStore)(nil)
	_ repository.EntityRepository  = (*EntityStore)(nil)
)

var ErrInjected = errors.New("injected store failure")

type PostStore struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	seq   int

	// Fail* make the matching call return ErrInjected.
	FailClaim bool
	FailSave  func(post *models.Post) bool

	claims int
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[string]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	if p.MediaURLs != nil {
		c.MediaURLs = append([]string(nil), p.MediaURLs...)
	}
	if p.Engagement != nil {
		c.Engagement = append(json.RawMessage(nil), p.Engagement...)
	}
	return &c
}

// Put stores post as given. A zero CreatedAt is filled with a strictly
// increasing timestamp so FIFO order follows insertion order.
func (s *PostStore) Put(post *models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Millisecond)
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	s.posts[post.ID] = clonePost(post)
}

// Get returns a copy of the stored post or nil.
func (s *PostStore) Get(id string) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil
	}
	return clonePost(p)
}

func (s *PostStore) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (string, error) {
	s.Put(post)
	return post.ID, nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.Get(id), nil
}

func (s *PostStore) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Post
	for _, p := range s.posts {
		if filter.EntityID != "" && p.EntityID != filter.EntityID {
			continue
		}
		if filter.AccountID != "" && (p.AccountID == nil || *p.AccountID != filter.AccountID) {
			continue
		}
		if filter.Platform != "" && p.Platform != filter.Platform {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Eligible mirrors the WHERE clause of the Postgres claim query.
func Eligible(p *models.Post, maxRetries int, now time.Time) bool {
	switch p.Status {
	case models.PostStatusQueued:
		return true
	case models.PostStatusScheduled:
		return p.ScheduledFor != nil && !p.ScheduledFor.After(now)
	case models.PostStatusFailed:
		return p.RetryCount < maxRetries && p.NextRetryAt != nil && !p.NextRetryAt.After(now)
	}
	return false
}

func (s *PostStore) Claim(ctx context.Context, batchSize, maxRetries int, now time.Time) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims++

	if s.FailClaim {
		return nil, ErrInjected
	}

	var due []*models.Post
	for _, p := range s.posts {
		if Eligible(p, maxRetries, now) {
			due = append(due, p)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if len(due) > batchSize {
		due = due[:batchSize]
	}

	claimed := make([]*models.Post, 0, len(due))
	for _, p := range due {
		p.Status = models.PostStatusPosting
		p.NextRetryAt = nil
		p.UpdatedAt = now
		claimed = append(claimed, clonePost(p))
	}
	return claimed, nil
}

// ClaimCount reports how many times Claim has been called.
func (s *PostStore) ClaimCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims
}

func (s *PostStore) SaveOutcome(ctx context.Context, post *models.Post) error {
	if s.FailSave != nil && s.FailSave(post) {
		return ErrInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return nil
	}
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *PostStore) RemoveCancellable(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok || !p.Cancellable() {
		return false, nil
	}
	delete(s.posts, id)
	return true, nil
}

func (s *PostStore) ListStalePosting(ctx context.Context, before time.Time) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.Status == models.PostStatusPosting && p.UpdatedAt.Before(before) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*models.Account)}
}

func (s *AccountStore) Put(account *models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *account
	s.accounts[account.ID] = &c
}

func (s *AccountStore) Create(ctx context.Context, tx *sql.Tx, account *models.Account) (string, error) {
	s.Put(account)
	return account.ID, nil
}

func (s *AccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (s *AccountStore) List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Account
	for _, a := range s.accounts {
		if filter.EntityID != "" && a.EntityID != filter.EntityID {
			continue
		}
		if filter.Platform != "" && a.Platform != filter.Platform {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *AccountStore) Update(ctx context.Context, account *models.Account) error {
	s.Put(account)
	return nil
}

func (s *AccountStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

type EntityStore struct {
	mu       sync.Mutex
	entities map[string]*models.Entity
}

func NewEntityStore() *EntityStore {
	return &EntityStore{entities: make(map[string]*models.Entity)}
}

func (s *EntityStore) Create(ctx context.Context, entity *models.Entity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *entity
	s.entities[entity.ID] = &c
	return entity.ID, nil
}

func (s *EntityStore) GetByID(ctx context.Context, id string) (*models.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok || e.DeletedAt != nil {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (s *EntityStore) CheckBySlug(ctx context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entities {
		if e.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *EntityStore) List(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Entity
	for _, e := range s.entities {
		if e.DeletedAt == nil {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *EntityStore) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		now := time.Now()
		e.DeletedAt = &now
	}
	return nil
}
