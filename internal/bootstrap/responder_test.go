package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/pivolabs/pivobot/internal/brain"
	"github.com/pivolabs/pivobot/internal/bus"
	"github.com/pivolabs/pivobot/internal/config"
	"github.com/pivolabs/pivobot/internal/store/file"
)

func newTestResponder(t *testing.T, chat config.ChatConfig) (*Responder, *bus.MessageBus) {
	t.Helper()
	st, err := file.NewMemoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mb := bus.New()
	r := NewResponder(brain.New(st, brain.Config{}), mb, chat)
	return r, mb
}

func consumeOutbound(t *testing.T, mb *bus.MessageBus, wait time.Duration) (bus.OutboundMessage, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return mb.ConsumeOutbound(ctx)
}

func TestResponder_ReplyToBotGetsAnswer(t *testing.T) {
	ctx := context.Background()
	r, mb := newTestResponder(t, config.ChatConfig{ResponseProbability: 1})

	// Teach via a reply pair, then summon by replying to the bot.
	r.handle(ctx, bus.InboundMessage{
		ChatID:      1,
		MessageID:   10,
		Text:        "хорошо",
		ReplyToText: "как дела",
	})
	r.handle(ctx, bus.InboundMessage{
		ChatID:     1,
		MessageID:  11,
		Text:       "как дела",
		ReplyToBot: true,
	})

	out, ok := consumeOutbound(t, mb, time.Second)
	if !ok {
		t.Fatal("no outbound reply to a message addressed to the bot")
	}
	if out.Text != "Хорошо" {
		t.Errorf("reply = %q, want %q", out.Text, "Хорошо")
	}
	if out.ReplyToMessageID != 11 {
		t.Errorf("ReplyToMessageID = %d, want 11", out.ReplyToMessageID)
	}
	if !out.SimulateTyping {
		t.Error("reply should request typing simulation")
	}
}

func TestResponder_TriggerWordStripped(t *testing.T) {
	ctx := context.Background()
	r, mb := newTestResponder(t, config.ChatConfig{
		ResponseProbability: 1,
		Triggers:            []string{"бот"},
	})

	r.handle(ctx, bus.InboundMessage{
		ChatID:      1,
		MessageID:   10,
		Text:        "хорошо",
		ReplyToText: "как дела",
	})
	r.handle(ctx, bus.InboundMessage{
		ChatID:    1,
		MessageID: 12,
		Text:      "бот как дела",
	})

	out, ok := consumeOutbound(t, mb, time.Second)
	if !ok {
		t.Fatal("no outbound reply to a trigger-word message")
	}
	if out.Text != "Хорошо" {
		t.Errorf("reply = %q, want %q", out.Text, "Хорошо")
	}
}

func TestResponder_Summoned(t *testing.T) {
	r, _ := newTestResponder(t, config.ChatConfig{
		ResponseProbability: 1,
		Triggers:            []string{"бот"},
	})

	if _, ok := r.summoned(bus.InboundMessage{Text: "бот"}); ok {
		t.Error("bare trigger word counted as a summons")
	}
	if _, ok := r.summoned(bus.InboundMessage{Text: "просто сообщение"}); ok {
		t.Error("plain message counted as a summons")
	}

	query, ok := r.summoned(bus.InboundMessage{Text: "Бот как дела"})
	if !ok {
		t.Fatal("trigger word with a question not counted as a summons")
	}
	if query != "как дела" {
		t.Errorf("query = %q, want trigger word stripped", query)
	}

	query, ok = r.summoned(bus.InboundMessage{Text: "как дела", ReplyToBot: true})
	if !ok || query != "как дела" {
		t.Errorf("reply to bot: query=%q ok=%v, want text as-is", query, ok)
	}
}

func TestResponder_SilentWithoutMatch(t *testing.T) {
	ctx := context.Background()
	r, mb := newTestResponder(t, config.ChatConfig{ResponseProbability: 100})

	r.handle(ctx, bus.InboundMessage{
		ChatID:    1,
		MessageID: 10,
		Text:      "совершенно незнакомый вопрос",
	})

	if out, ok := consumeOutbound(t, mb, 50*time.Millisecond); ok {
		t.Errorf("unexpected outbound reply %+v from an empty memory", out)
	}
}

func TestResponder_UpdateChatConfig(t *testing.T) {
	r, _ := newTestResponder(t, config.ChatConfig{
		ResponseProbability: 1,
		Triggers:            []string{"бот"},
	})

	r.UpdateChatConfig(config.ChatConfig{
		ResponseProbability: 1,
		Triggers:            []string{"пивасик"},
	})

	if _, ok := r.summoned(bus.InboundMessage{Text: "бот как дела"}); ok {
		t.Error("stale trigger still summons after config update")
	}
	if _, ok := r.summoned(bus.InboundMessage{Text: "пивасик как дела"}); !ok {
		t.Error("new trigger does not summon after config update")
	}
}
