// Package file implements store.MemoryStore as one append-only UTF-8 log
// file per chat. The format is the bot's only durable contract: two tagged
// lines per record followed by a blank separator,
//
//	q:<normalized question>
//	a:<normalized answer>
//
// forward-scannable with no header, length prefixes or deletion markers.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pivolabs/pivobot/internal/store"
)

const (
	qPrefix         = "q:"
	aPrefix         = "a:"
	memoryExtension = ".memory"
)

// MemoryStore keeps one <chatID>.memory file per chat under dir.
// Appends to the same chat are serialized by a per-chat mutex and written
// with a single buffered write, so readers never observe a torn record.
// Different chats share nothing and proceed in parallel.
type MemoryStore struct {
	dir string

	mu    sync.Mutex // guards locks
	locks map[int64]*sync.Mutex
}

// NewMemoryStore creates the data directory if needed.
func NewMemoryStore(dir string) (*MemoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	return &MemoryStore{
		dir:   dir,
		locks: make(map[int64]*sync.Mutex),
	}, nil
}

func (s *MemoryStore) path(chatID int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(chatID, 10)+memoryExtension)
}

func (s *MemoryStore) lock(chatID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[chatID] = l
	}
	return l
}

// Append writes rec as one complete record. The record is rendered into a
// single buffer first; the durable write is one call under the chat lock.
func (s *MemoryStore) Append(_ context.Context, chatID int64, rec store.Record) error {
	record := qPrefix + rec.Question + "\n" + aPrefix + rec.Answer + "\n\n"

	l := s.lock(chatID)
	l.Lock()
	defer l.Unlock()

	f, err := os.OpenFile(s.path(chatID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open memory log: %w", err)
	}
	if _, err := f.WriteString(record); err != nil {
		f.Close()
		return fmt.Errorf("append memory record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close memory log: %w", err)
	}
	return nil
}

// Scan parses the chat's log leniently: blank lines are separators, a q:
// line pairs with the next a: line, and anything that breaks the pairing
// (a truncated trailing record, a stray line) is skipped, never an error.
func (s *MemoryStore) Scan(_ context.Context, chatID int64) ([]store.Record, error) {
	f, err := os.Open(s.path(chatID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open memory log: %w", err)
	}
	defer f.Close()

	var recs []store.Record
	var pendingQ string
	var havePending bool

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, qPrefix):
			// A q: directly after another q: drops the unpaired one.
			pendingQ = line[len(qPrefix):]
			havePending = true
		case strings.HasPrefix(line, aPrefix):
			if !havePending {
				continue
			}
			recs = append(recs, store.Record{
				Question: pendingQ,
				Answer:   line[len(aPrefix):],
			})
			havePending = false
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan memory log: %w", err)
	}
	return recs, nil
}

func (s *MemoryStore) Close() error { return nil }
