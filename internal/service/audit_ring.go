package service

import (
	"strings"
	"sync"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/rs/zerolog"
)

// DefaultAuditCapacity bounds the in-process audit ring.
const DefaultAuditCapacity = 2000

// AuditRing is a fixed-capacity append-only ring buffer of guarded
// decisions. Appends never fail; once full, the oldest event is evicted.
type AuditRing struct {
	mu       sync.Mutex
	events   []domain.AuditEvent
	capacity int
	next     int
	full     bool
	log      zerolog.Logger
}

// NewAuditRing creates an audit ring. capacity <= 0 falls back to
// DefaultAuditCapacity.
func NewAuditRing(capacity int, log zerolog.Logger) *AuditRing {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditRing{
		events:   make([]domain.AuditEvent, capacity),
		capacity: capacity,
		log:      log,
	}
}

// Append records an event. It also mirrors the entry into the structured
// log stream so operators can grep without the dashboard.
func (r *AuditRing) Append(event domain.AuditEvent) {
	if event.TS.IsZero() {
		event.TS = time.Now().UTC()
	}

	r.mu.Lock()
	r.events[r.next] = event
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()

	ev := r.log.Info().
		Str("action", event.Action).
		Str("actor", event.Actor)
	for k, v := range event.Attributes {
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

// Snapshot returns the buffered events oldest-first.
func (r *AuditRing) Snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]domain.AuditEvent, r.next)
		copy(out, r.events[:r.next])
		return out
	}
	out := make([]domain.AuditEvent, 0, r.capacity)
	out = append(out, r.events[r.next:]...)
	out = append(out, r.events[:r.next]...)
	return out
}

// GuardrailEvents returns only guardrail decisions, oldest-first. Used by
// the ops dashboard.
func (r *AuditRing) GuardrailEvents() []domain.AuditEvent {
	all := r.Snapshot()
	out := make([]domain.AuditEvent, 0, len(all))
	for _, e := range all {
		if strings.Contains(e.Action, "guardrail") {
			out = append(out, e)
		}
	}
	return out
}
