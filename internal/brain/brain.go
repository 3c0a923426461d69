// Package brain is the bot's learned memory: it records (question, answer)
// pairs observed in a chat and answers later questions by fuzzy-matching
// them against everything recorded for that chat. Each chat's memory is
// isolated; nothing learned in one chat ever surfaces in another.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"unicode"
	"unicode/utf8"

	"github.com/pivolabs/pivobot/internal/store"
)

const (
	// DefaultMatchThreshold is the minimum token-set score for a stored
	// question to be considered an acceptable match.
	DefaultMatchThreshold = 80

	// DefaultMaxAnswers caps both the number of answers recorded per
	// question and the number of match candidates considered per query.
	DefaultMaxAnswers = 8
)

// Config tunes matching and capacity. Zero values take the defaults.
type Config struct {
	MatchThreshold int
	MaxAnswers     int
}

// Brain wraps a MemoryStore with the learn/answer logic.
type Brain struct {
	store     store.MemoryStore
	threshold int
	maxAns    int
}

func New(st store.MemoryStore, cfg Config) *Brain {
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = DefaultMatchThreshold
	}
	if cfg.MaxAnswers <= 0 {
		cfg.MaxAnswers = DefaultMaxAnswers
	}
	return &Brain{store: st, threshold: cfg.MatchThreshold, maxAns: cfg.MaxAnswers}
}

// Learn records a (question, answer) pair for the chat. Pairs whose
// question or answer does not survive normalization are dropped silently,
// as are pairs for a question that already has the full set of answers;
// neither is an error. Identical pairs may repeat, which weights that
// answer in random selection. Only storage I/O failures return an error.
func (b *Brain) Learn(ctx context.Context, chatID int64, question, answer string) error {
	q, ok := Normalize(question)
	if !ok {
		return nil
	}
	a, ok := Normalize(answer)
	if !ok {
		return nil
	}

	recs, err := b.store.Scan(ctx, chatID)
	if err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	if len(store.AnswersFor(recs, q)) >= b.maxAns {
		slog.Debug("answer cap reached, dropping pair", "chat_id", chatID, "question", q)
		return nil
	}

	if err := b.store.Append(ctx, chatID, store.Record{Question: q, Answer: a}); err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	return nil
}

// Answer finds the best-matching recorded question for the chat and returns
// one of its recorded answers, capitalized for presentation. ok is false
// when the query is unusable or nothing scores at or above the threshold;
// that is a normal outcome, not an error. Ties among acceptable questions
// and among a question's answers are broken uniformly at random.
func (b *Brain) Answer(ctx context.Context, chatID int64, question string) (string, bool, error) {
	q, ok := Normalize(question)
	if !ok {
		return "", false, nil
	}
	if !hasMatchableTokens(q) {
		return "", false, nil
	}

	recs, err := b.store.Scan(ctx, chatID)
	if err != nil {
		return "", false, fmt.Errorf("answer: %w", err)
	}
	questions := store.Questions(recs)
	if len(questions) == 0 {
		return "", false, nil
	}

	var accepted []string
	for _, m := range extract(q, questions, b.maxAns) {
		if m.Score >= b.threshold {
			accepted = append(accepted, m.Question)
		}
	}
	if len(accepted) == 0 {
		return "", false, nil
	}

	chosen := accepted[rand.IntN(len(accepted))]
	answers := store.AnswersFor(recs, chosen)
	if len(answers) == 0 {
		return "", false, nil
	}
	return capitalize(answers[rand.IntN(len(answers))]), true, nil
}

// capitalize upper-cases the first rune; stored text is already lower case.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
