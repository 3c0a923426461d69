// Package telegram runs the bot's Telegram side: it long-polls for
// updates, turns group messages into bus inbound messages, answers the
// small command set directly, and delivers bus outbound replies with a
// typing pause so answers do not land instantly.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/pivolabs/pivobot/internal/bus"
)

// Channel is the Telegram transport.
type Channel struct {
	bot    *telego.Bot
	bus    *bus.MessageBus
	dedupe *bus.DedupeCache
	botID  int64
}

// NewChannel creates the Telegram channel. The token is not checked
// against the API until Start.
func NewChannel(token string, mb *bus.MessageBus) (*Channel, error) {
	bot, err := telego.NewBot(token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Channel{
		bot:    bot,
		bus:    mb,
		dedupe: bus.NewDedupeCache(dedupeTTL, dedupeMaxSize),
	}, nil
}

// Start long-polls until ctx is cancelled or polling fails. Outbound
// delivery runs on its own goroutine for the lifetime of the poll loop.
func (c *Channel) Start(ctx context.Context) error {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	c.botID = me.ID
	slog.Info("telegram channel started", "bot", me.Username, "bot_id", me.ID)

	updates, err := c.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("telegram long polling: %w", err)
	}

	go c.sendLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram updates channel closed")
			}
			c.handleUpdate(ctx, update)
		}
	}
}

func (c *Channel) handleUpdate(ctx context.Context, update telego.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}
	if msg.From.IsBot {
		return
	}

	key := fmt.Sprintf("%d:%d", msg.Chat.ID, update.UpdateID)
	if c.dedupe.IsDuplicate(key) {
		slog.Debug("duplicate update dropped", "key", key)
		return
	}

	isGroup := msg.Chat.Type == telego.ChatTypeGroup || msg.Chat.Type == telego.ChatTypeSupergroup

	if c.handleBotCommand(ctx, msg, isGroup) {
		return
	}
	if !isGroup {
		// Private chats only serve commands; there is nothing to learn
		// from a one-on-one conversation with the bot.
		return
	}

	inbound := bus.InboundMessage{
		ID:         uuid.New(),
		ChatID:     msg.Chat.ID,
		MessageID:  msg.MessageID,
		SenderName: msg.From.FirstName,
		Text:       msg.Text,
		IsGroup:    true,
		ReceivedAt: time.Now(),
	}
	if reply := msg.ReplyToMessage; reply != nil {
		inbound.ReplyToText = reply.Text
		inbound.ReplyToBot = reply.From != nil && reply.From.ID == c.botID
	}

	c.bus.PublishInbound(inbound)
}

// sendLoop delivers outbound replies from the bus.
func (c *Channel) sendLoop(ctx context.Context) {
	for {
		out, ok := c.bus.ConsumeOutbound(ctx)
		if !ok {
			return
		}
		c.deliver(ctx, out)
	}
}

func (c *Channel) deliver(ctx context.Context, out bus.OutboundMessage) {
	if out.SimulateTyping {
		c.simulateTyping(ctx, out.ChatID, out.Text)
	}

	params := tu.Message(tu.ID(out.ChatID), out.Text)
	if out.ReplyToMessageID != 0 {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: out.ReplyToMessageID}
	}
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		if out.ReplyToMessageID == 0 {
			slog.Warn("telegram send failed", "chat_id", out.ChatID, "error", err)
			return
		}
		// The message being replied to is gone; call it out instead.
		slog.Debug("reply target missing", "chat_id", out.ChatID, "error", err)
		fallback := tu.Message(tu.ID(out.ChatID), "Удалил, да? 🫡")
		if _, err := c.bot.SendMessage(ctx, fallback); err != nil {
			slog.Warn("telegram send failed", "chat_id", out.ChatID, "error", err)
		}
	}
}

// simulateTyping shows the typing indicator and pauses roughly as long as
// a person would need to type text, with a little jitter.
func (c *Channel) simulateTyping(ctx context.Context, chatID int64, text string) {
	err := c.bot.SendChatAction(ctx, &telego.SendChatActionParams{
		ChatID: tu.ID(chatID),
		Action: telego.ChatActionTyping,
	})
	if err != nil {
		slog.Debug("send chat action failed", "chat_id", chatID, "error", err)
	}

	delay := typingDelay(text)
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func typingDelay(text string) time.Duration {
	delay := time.Duration(utf8.RuneCountInString(text)) * typingPerRune
	delay += time.Duration(rand.Int64N(int64(800 * time.Millisecond)))
	if delay > typingMaxDelay {
		delay = typingMaxDelay
	}
	return delay
}
