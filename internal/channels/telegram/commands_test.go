package telegram

import (
	"context"
	"testing"

	"github.com/mymmrac/telego"
)

func TestHandleBotCommand_PassThrough(t *testing.T) {
	c := &Channel{}
	ctx := context.Background()
	msg := func(text string) *telego.Message {
		return &telego.Message{
			Text: text,
			From: &telego.User{ID: 1, FirstName: "Ваня"},
			Chat: telego.Chat{ID: 1},
		}
	}

	if c.handleBotCommand(ctx, msg("просто текст"), true) {
		t.Error("plain text consumed as a command")
	}
	// Unrecognized commands in a group are ordinary chatter: the bot
	// still learns from and may answer them.
	if c.handleBotCommand(ctx, msg("/reset"), true) {
		t.Error("unknown group command consumed")
	}
	if c.handleBotCommand(ctx, msg("/reset@somebot with args"), true) {
		t.Error("unknown group command with suffix and args consumed")
	}
	// Group-only and private-only commands swap roles the same way.
	if c.handleBotCommand(ctx, msg("/pivo"), false) {
		t.Error("/pivo in a private chat consumed")
	}
	if c.handleBotCommand(ctx, msg("/start"), true) {
		t.Error("/start in a group consumed")
	}
}
