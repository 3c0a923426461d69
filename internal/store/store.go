// Package store defines the persistence contract for learned chat memory.
// Backends live in subpackages (see store/file for the flat-file log).
package store

import "context"

// Record is one learned (question, answer) pair. Both fields hold normalized
// text (see brain.Normalize); the store never inspects or rewrites them.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MemoryStore is an append-only log of records, scoped per chat.
// Records are never edited or deleted; Scan returns them in append order.
type MemoryStore interface {
	// Append writes one complete record to the chat's log. Concurrent
	// appends to the same chat must not interleave at the byte level.
	Append(ctx context.Context, chatID int64, rec Record) error

	// Scan returns every complete record in the chat's log, oldest first.
	// A chat that was never written to yields an empty slice, not an error.
	Scan(ctx context.Context, chatID int64) ([]Record, error)

	Close() error
}

// Questions returns the distinct questions in recs, in first-seen order.
func Questions(recs []Record) []string {
	seen := make(map[string]struct{}, len(recs))
	var qs []string
	for _, r := range recs {
		if _, ok := seen[r.Question]; ok {
			continue
		}
		seen[r.Question] = struct{}{}
		qs = append(qs, r.Question)
	}
	return qs
}

// AnswersFor returns every answer recorded under the exact question q,
// in append order. Repeats are kept; they weight random selection.
func AnswersFor(recs []Record, q string) []string {
	var as []string
	for _, r := range recs {
		if r.Question == q {
			as = append(as, r.Answer)
		}
	}
	return as
}
