package domain

import "time"

// IdempotencyRecord stores the outcome of a side-effecting operation so
// that retries with the same key return the stored result instead of
// executing again.
type IdempotencyRecord struct {
	Key         string    `json:"key"`
	Fingerprint string    `json:"fingerprint"`
	Result      []byte    `json:"result"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the record is older than the eviction horizon.
func (r *IdempotencyRecord) Expired(horizon time.Duration, now time.Time) bool {
	if horizon <= 0 {
		return false
	}
	return now.Sub(r.CreatedAt) > horizon
}
