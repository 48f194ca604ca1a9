package web

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gaurav-prasanna/shameladocx/core"
)

// Download is a finished book waiting to be fetched.
type Download struct {
	Path     string
	Filename string
	Ref      core.BookRef
	Created  time.Time
}

// Store maps download tokens to finished books. It is the only state shared
// between requests. Entries expire after ttl; when more than max entries are
// held the oldest is evicted. Evicted files are removed from disk.
type Store struct {
	mu     sync.Mutex
	items  map[string]Download
	order  []string
	ttl    time.Duration
	max    int
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates a Store. A zero ttl keeps entries until evicted by size.
func NewStore(ttl time.Duration, max int, logger *slog.Logger) *Store {
	if max <= 0 {
		max = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		items:  make(map[string]Download),
		ttl:    ttl,
		max:    max,
		now:    time.Now,
		logger: logger,
	}
}

// Put records d under token.
func (s *Store) Put(token string, d Download) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Created.IsZero() {
		d.Created = s.now()
	}
	if _, exists := s.items[token]; !exists {
		s.order = append(s.order, token)
	}
	s.items[token] = d
	s.expireLocked()
	for len(s.order) > s.max {
		s.removeLocked(s.order[0])
	}
}

// Get returns the download for token, if it exists and has not expired.
func (s *Store) Get(token string) (Download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	d, ok := s.items[token]
	return d, ok
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close removes every stored file.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) > 0 {
		s.removeLocked(s.order[0])
	}
}

// expireLocked drops entries older than ttl. order is oldest first.
func (s *Store) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for len(s.order) > 0 {
		d := s.items[s.order[0]]
		if d.Created.After(cutoff) {
			return
		}
		s.removeLocked(s.order[0])
	}
}

func (s *Store) removeLocked(token string) {
	d, ok := s.items[token]
	delete(s.items, token)
	for i, t := range s.order {
		if t == token {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if ok && d.Path != "" {
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("removing expired download", slog.String("path", d.Path), slog.String("error", err.Error()))
		}
	}
}
