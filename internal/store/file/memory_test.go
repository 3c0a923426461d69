package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pivolabs/pivobot/internal/store"
)

func newTestStore(t *testing.T) (*MemoryStore, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := NewMemoryStore(dir)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, dir
}

func TestMemoryStore_AppendScanRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	want := []store.Record{
		{Question: "как дела", Answer: "хорошо"},
		{Question: "как дела", Answer: "отлично"},
		{Question: "что нового", Answer: "ничего"},
	}
	for _, r := range want {
		if err := st.Append(ctx, 42, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := st.Scan(ctx, 42)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Scan returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMemoryStore_ScanUnknownChat(t *testing.T) {
	st, _ := newTestStore(t)

	recs, err := st.Scan(context.Background(), 999)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Scan of unknown chat returned %d records, want 0", len(recs))
	}
}

func TestMemoryStore_LogFormat(t *testing.T) {
	ctx := context.Background()
	st, dir := newTestStore(t)

	err := st.Append(ctx, 7, store.Record{Question: "как дела", Answer: "хорошо"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "7.memory"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "q:как дела\na:хорошо\n\n"
	if string(data) != want {
		t.Errorf("log content = %q, want %q", data, want)
	}
}

func TestMemoryStore_SkipsTruncatedTrailingRecord(t *testing.T) {
	ctx := context.Background()
	st, dir := newTestStore(t)

	err := st.Append(ctx, 7, store.Record{Question: "как дела", Answer: "хорошо"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Simulate a crash mid-append: a q: line with no a: line after it.
	f, err := os.OpenFile(filepath.Join(dir, "7.memory"), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("q:оборванный вопрос\n"); err != nil {
		t.Fatalf("write fragment: %v", err)
	}
	f.Close()

	recs, err := st.Scan(ctx, 7)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Scan returned %d records, want 1", len(recs))
	}
	if recs[0].Question != "как дела" || recs[0].Answer != "хорошо" {
		t.Errorf("surviving record = %+v", recs[0])
	}
}

func TestMemoryStore_ChatsAreIsolated(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	if err := st.Append(ctx, 1, store.Record{Question: "вопрос раз", Answer: "ответ раз"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	recs, err := st.Scan(ctx, 2)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("chat 2 sees %d records from chat 1", len(recs))
	}
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := store.Record{
				Question: "как дела",
				Answer:   fmt.Sprintf("ответ номер %d", i),
			}
			if err := st.Append(ctx, 1, rec); err != nil {
				t.Errorf("Append #%d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	recs, err := st.Scan(ctx, 1)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(recs) != n {
		t.Fatalf("Scan returned %d records, want %d", len(recs), n)
	}

	seen := make(map[string]bool, n)
	for _, r := range recs {
		if r.Question != "как дела" {
			t.Fatalf("corrupted question: %q", r.Question)
		}
		if seen[r.Answer] {
			t.Fatalf("answer %q appears twice", r.Answer)
		}
		seen[r.Answer] = true
	}
	for i := 0; i < n; i++ {
		if !seen[fmt.Sprintf("ответ номер %d", i)] {
			t.Errorf("answer %d missing after concurrent appends", i)
		}
	}
}

func TestQuestionsAndAnswersFor(t *testing.T) {
	recs := []store.Record{
		{Question: "как дела", Answer: "хорошо"},
		{Question: "что нового", Answer: "ничего"},
		{Question: "как дела", Answer: "отлично"},
	}

	qs := store.Questions(recs)
	if len(qs) != 2 || qs[0] != "как дела" || qs[1] != "что нового" {
		t.Errorf("Questions = %v, want first-seen distinct order", qs)
	}

	as := store.AnswersFor(recs, "как дела")
	if len(as) != 2 || as[0] != "хорошо" || as[1] != "отлично" {
		t.Errorf("AnswersFor = %v", as)
	}
}
