package bootstrap

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/pivolabs/pivobot/internal/brain"
	"github.com/pivolabs/pivobot/internal/bus"
	"github.com/pivolabs/pivobot/internal/config"
)

// Responder consumes inbound group messages, feeds reply pairs to the
// brain, and decides when to answer: always when the message summons the
// bot (a reply to it, or a trigger word plus an actual question), and
// otherwise with a configured probability. Chat tunables can be swapped
// at runtime by the config watcher.
type Responder struct {
	brain *brain.Brain
	bus   *bus.MessageBus

	mu          sync.RWMutex
	probability int
	triggers    map[string]struct{}
}

func NewResponder(b *brain.Brain, mb *bus.MessageBus, chat config.ChatConfig) *Responder {
	r := &Responder{brain: b, bus: mb}
	r.UpdateChatConfig(chat)
	return r
}

// UpdateChatConfig replaces the runtime tunables. Safe to call while Run
// is consuming messages.
func (r *Responder) UpdateChatConfig(chat config.ChatConfig) {
	triggers := make(map[string]struct{}, len(chat.Triggers))
	for _, t := range chat.Triggers {
		triggers[strings.ToLower(t)] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.probability = chat.ResponseProbability
	r.triggers = triggers
}

// Run consumes inbound messages until ctx is cancelled.
func (r *Responder) Run(ctx context.Context) {
	for {
		msg, ok := r.bus.ConsumeInbound(ctx)
		if !ok {
			return
		}
		r.handle(ctx, msg)
	}
}

func (r *Responder) handle(ctx context.Context, msg bus.InboundMessage) {
	// Every reply pair is training data, whether or not the bot answers.
	if msg.ReplyToText != "" {
		if err := r.brain.Learn(ctx, msg.ChatID, msg.ReplyToText, msg.Text); err != nil {
			slog.Warn("learn failed", "chat_id", msg.ChatID, "error", err)
		}
	}

	query, summoned := r.summoned(msg)
	if !summoned && !r.probably() {
		return
	}

	answer, ok, err := r.brain.Answer(ctx, msg.ChatID, query)
	if err != nil {
		// Degrade to silence; the next message gets a fresh attempt.
		slog.Warn("answer failed", "chat_id", msg.ChatID, "error", err)
		return
	}
	if !ok {
		return
	}

	r.bus.PublishOutbound(bus.OutboundMessage{
		ChatID:           msg.ChatID,
		ReplyToMessageID: msg.MessageID,
		Text:             answer,
		SimulateTyping:   true,
	})
}

// summoned reports whether the message calls the bot out, and returns the
// query text to answer. A reply to the bot uses the text as-is; a message
// carrying a trigger word uses the text with the trigger words removed,
// and only counts when something remains to answer.
func (r *Responder) summoned(msg bus.InboundMessage) (string, bool) {
	if msg.ReplyToBot {
		return msg.Text, true
	}

	r.mu.RLock()
	triggers := r.triggers
	r.mu.RUnlock()

	words := strings.Fields(strings.ToLower(msg.Text))
	var rest []string
	hit := false
	for _, w := range words {
		if _, ok := triggers[w]; ok {
			hit = true
			continue
		}
		rest = append(rest, w)
	}
	if hit && len(rest) > 0 {
		return strings.Join(rest, " "), true
	}
	return msg.Text, false
}

func (r *Responder) probably() bool {
	r.mu.RLock()
	p := r.probability
	r.mu.RUnlock()
	return rand.IntN(100) < p
}
