package wizard

import (
	"context"
	"sync"
	"time"

	"techflow-careers/internal/common/metrics"
)

type storeKey struct {
	sessionID string
	jobID     string
}

type storeEntry struct {
	wizard   *Wizard
	lastSeen time.Time
}

// Store keeps one wizard per browser session and job, in memory only.
type Store struct {
	sink    Sink
	idleTTL time.Duration
	opts    []Option
	now     func() time.Time

	mu      sync.Mutex
	wizards map[storeKey]*storeEntry
}

// NewStore creates wizards that submit to sink. Wizards untouched for
// idleTTL are dropped by Sweep. opts are applied to every wizard.
func NewStore(sink Sink, idleTTL time.Duration, opts ...Option) *Store {
	s := &Store{
		sink:    sink,
		idleTTL: idleTTL,
		opts:    opts,
		now:     time.Now,
		wizards: make(map[storeKey]*storeEntry),
	}
	// Share the wizards' clock if one was configured.
	probe := &Wizard{now: time.Now}
	for _, opt := range opts {
		opt(probe)
	}
	s.now = probe.now
	return s
}

// Open starts a fresh application for jobID, replacing any wizard the
// session already had for it.
func (s *Store) Open(sessionID, jobID, jobTitle string) *Wizard {
	w := New(jobID, jobTitle, s.sink, s.opts...)
	key := storeKey{sessionID, jobID}

	s.mu.Lock()
	old, existed := s.wizards[key]
	s.wizards[key] = &storeEntry{wizard: w, lastSeen: s.now()}
	s.mu.Unlock()

	if existed {
		old.wizard.Close()
	} else {
		metrics.WizardsOpen.Inc()
	}
	return w
}

// Get returns the live wizard for the session and job and marks it used.
func (s *Store) Get(sessionID, jobID string) (*Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.wizards[storeKey{sessionID, jobID}]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.wizard, true
}

// Close discards the session's wizard for jobID, if any.
func (s *Store) Close(sessionID, jobID string) {
	key := storeKey{sessionID, jobID}

	s.mu.Lock()
	e, ok := s.wizards[key]
	delete(s.wizards, key)
	s.mu.Unlock()

	if ok {
		metrics.WizardsOpen.Dec()
		e.wizard.Close()
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wizards)
}

// Sweep closes wizards idle for longer than the store's TTL and returns how
// many were removed. Wizards with a submission in flight are kept.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	var expired []*Wizard
	s.mu.Lock()
	for key, e := range s.wizards {
		if e.lastSeen.After(cutoff) || e.wizard.State() == StateSubmitting {
			continue
		}
		expired = append(expired, e.wizard)
		delete(s.wizards, key)
	}
	s.mu.Unlock()

	for _, w := range expired {
		metrics.WizardsOpen.Dec()
		w.Close()
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
