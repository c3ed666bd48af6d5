package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// DefaultRecentLimit is used by Recent when limit <= 0.
const DefaultRecentLimit = 10

// Store is the in-memory session table. It owns every record; callers only
// ever see copies. State is lost on restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[int]*Session
	nextID   int
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[int]*Session), nextID: 1, now: time.Now}
}

func (s *Store) Create(_ context.Context, in NewSession) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	rec := &Session{
		ID:        s.nextID,
		URL:       in.URL,
		Domain:    in.Domain,
		Status:    status,
		ScrapedAt: s.now(),
		Options:   in.Options,
	}
	s.nextID++
	s.sessions[rec.ID] = rec
	return rec.clone(), nil
}

func (s *Store) Get(_ context.Context, id int) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

// All returns every session, newest scrapedAt first. Zero timestamps sort
// last and ties keep creation order.
func (s *Store) All(_ context.Context) ([]*Session, error) {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, rec := range s.sessions {
		out = append(out, rec.clone())
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	sort.SliceStable(out, func(i, j int) bool {
		return unixMilli(out[i].ScrapedAt) > unixMilli(out[j].ScrapedAt)
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, id int, u Update) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := rec.clone()
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.Results != nil {
		next.Results = u.Results.clone()
	}
	if u.ErrorMessage != nil {
		msg := *u.ErrorMessage
		next.ErrorMessage = &msg
	}
	s.sessions[id] = next
	return next.clone(), nil
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) Statistics(_ context.Context) (Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Statistics
	completed := 0
	for _, rec := range s.sessions {
		if rec.Status != StatusCompleted {
			continue
		}
		completed++
		if rec.Results == nil {
			continue
		}
		st.TotalImages += len(rec.Results.Images)
		st.TotalColors += len(rec.Results.Colors)
		st.TotalTypography += len(rec.Results.Typography)
	}
	st.TotalScrapes = len(s.sessions)
	if st.TotalScrapes > 0 {
		st.SuccessRate = float64(completed) / float64(st.TotalScrapes) * 100
	}
	return st, nil
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
