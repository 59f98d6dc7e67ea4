// Package store holds the process-wide subscriber and crowd-report
// collections. Both are append-mostly: request handlers add entries while
// the background watch iterates. Every read hands out a snapshot so no
// lock is held across external calls, and nothing survives a restart.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Jessssswill/AI-flood/internal/domain"
)

// Subscribers is a concurrency-safe in-memory subscriber collection.
type Subscribers struct {
	mu   sync.RWMutex
	subs []domain.Subscriber
}

// NewSubscribers creates an empty subscriber collection.
func NewSubscribers() *Subscribers {
	return &Subscribers{}
}

// Add registers a subscriber and returns it with a generated ID.
func (s *Subscribers) Add(sub domain.Subscriber) domain.Subscriber {
	sub.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return sub
}

// Snapshot returns a copy of the current subscribers. The watch iterates
// the copy, so subscriptions arriving mid-cycle are simply picked up next
// cycle.
func (s *Subscribers) Snapshot() []domain.Subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Subscriber, len(s.subs))
	copy(out, s.subs)
	return out
}

// Len returns the current subscriber count.
func (s *Subscribers) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Reports is a concurrency-safe in-memory crowd-report collection.
type Reports struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	reports []domain.Report
}

// NewReports creates an empty report collection using the given clock for
// report timestamps. Pass nil for real time.
func NewReports(clock clockwork.Clock) *Reports {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reports{clock: clock}
}

// Add stores a citizen report and returns it with ID and timestamp set.
func (r *Reports) Add(report domain.Report) domain.Report {
	report.ID = uuid.NewString()
	report.Time = r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return report
}

// CountNear returns how many reports fall within the report search box
// centered on (lat, lon).
func (r *Reports) CountNear(lat, lon float64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rep := range r.reports {
		if rep.Near(lat, lon) {
			count++
		}
	}
	return count
}

// Len returns the total report count.
func (r *Reports) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reports)
}
