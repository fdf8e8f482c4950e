// Package memstore keeps users, companies and jobs in memory. It follows the
// same contracts as the gorm repositories and backs the service and handler
// tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobpilot-service/internal/jobquery"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository"
)

type Store struct {
	mu        sync.Mutex
	now       func() time.Time
	users     map[uint]*model.User
	companies map[uint]*model.Company
	jobs      map[uint]*model.Job
	nextID    uint
	// Err, when set, is returned by every operation
	Err error
}

func New() *Store {
	return &Store{
		now:       time.Now,
		users:     make(map[uint]*model.User),
		companies: make(map[uint]*model.Company),
		jobs:      make(map[uint]*model.Job),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Users returns the user store view
func (s *Store) Users() *Users { return &Users{s} }

// Companies returns the company store view
func (s *Store) Companies() *Companies { return &Companies{s} }

// Jobs returns the job store view
func (s *Store) Jobs() *Jobs { return &Jobs{s} }

type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, user *model.User) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}

	user.ID = s.id()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (u *Users) FindByID(_ context.Context, id uint) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return u.find(func(user *model.User) bool {
		return user.Email == model.NormalizeIdentifier(email)
	})
}

func (u *Users) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return u.find(func(user *model.User) bool {
		return user.Username == model.NormalizeIdentifier(username)
	})
}

func (u *Users) find(match func(*model.User) bool) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, user := range s.users {
		if match(user) {
			out := *user
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Delete removes a user; used to simulate an account disappearing
func (u *Users) Delete(id uint) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	delete(u.s.users, id)
}

type Companies struct{ s *Store }

func (c *Companies) Create(_ context.Context, company *model.Company) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, existing := range s.companies {
		if existing.UserID == company.UserID {
			return repository.ErrDuplicate
		}
	}

	company.ID = s.id()
	company.CreatedAt = s.now()
	company.UpdatedAt = company.CreatedAt
	stored := *company
	s.companies[company.ID] = &stored
	return nil
}

func (c *Companies) FindByUserID(_ context.Context, userID uint) (*model.Company, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, company := range s.companies {
		if company.UserID == userID {
			out := *company
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

type Jobs struct{ s *Store }

func (j *Jobs) Create(_ context.Context, job *model.Job) error {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	job.ID = s.id()
	job.CreatedAt = s.now()
	job.UpdatedAt = job.CreatedAt
	stored := job.Clone()
	stored.Company = nil
	s.jobs[job.ID] = stored
	return nil
}

func (j *Jobs) FindByID(_ context.Context, id uint) (*model.Job, error) {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.withCompany(job), nil
}

func (j *Jobs) List(_ context.Context, q jobquery.ListQuery) ([]*model.Job, int64, error) {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	var matched []*model.Job
	for _, job := range s.jobs {
		if q.Matches(job) {
			matched = append(matched, job)
		}
	}
	sort.Slice(matched, func(a, b int) bool {
		if !matched[a].CreatedAt.Equal(matched[b].CreatedAt) {
			return matched[a].CreatedAt.After(matched[b].CreatedAt)
		}
		return matched[a].ID > matched[b].ID
	})

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit < end-start {
		end = start + q.Limit
	}

	page := make([]*model.Job, 0, end-start)
	for _, job := range matched[start:end] {
		page = append(page, s.withCompany(job))
	}
	return page, total, nil
}

func (j *Jobs) Update(_ context.Context, job *model.Job) error {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	existing, ok := s.jobs[job.ID]
	if !ok {
		return repository.ErrNotFound
	}
	job.CreatedAt = existing.CreatedAt
	job.UpdatedAt = s.now()
	stored := job.Clone()
	stored.Company = nil
	s.jobs[job.ID] = stored
	return nil
}

func (j *Jobs) Delete(_ context.Context, id uint) error {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

// Count returns the number of stored jobs
func (j *Jobs) Count() int {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	return len(j.s.jobs)
}

// Get returns a copy of a stored job without its company, or nil
func (j *Jobs) Get(id uint) *model.Job {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	job, ok := j.s.jobs[id]
	if !ok {
		return nil
	}
	return job.Clone()
}

// withCompany copies job and attaches its company. Callers hold s.mu.
func (s *Store) withCompany(job *model.Job) *model.Job {
	out := job.Clone()
	if company, ok := s.companies[job.CompanyID]; ok {
		c := *company
		out.Company = &c
	}
	return out
}
