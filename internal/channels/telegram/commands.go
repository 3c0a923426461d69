package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var pivoLines = []string{
	"наливаю кружку свежего 🍺",
	"наливаю 2 кружки мощного 🍺🍺",
	"тебе аж 3 кружки 🍺🍺🍺 🥰",
	"ты сегодня чемпион, держи пива галон 😘",
}

// handleBotCommand answers the bot's own commands. Returns true when the
// message was consumed as a command.
func (c *Channel) handleBotCommand(ctx context.Context, msg *telego.Message, isGroup bool) bool {
	if len(msg.Text) == 0 || msg.Text[0] != '/' {
		return false
	}

	// Strip arguments and the @botname suffix used in groups.
	cmd := strings.SplitN(msg.Text, " ", 2)[0]
	cmd = strings.SplitN(cmd, "@", 2)[0]
	cmd = strings.ToLower(cmd)

	chatID := tu.ID(msg.Chat.ID)

	switch {
	case cmd == "/start" && !isGroup:
		c.send(ctx, tu.Message(chatID, "Started"))
		return true

	case cmd == "/help" && !isGroup:
		c.send(ctx, tu.Message(chatID, "Helped"))
		return true

	case cmd == "/pivo" && isGroup:
		line := pivoLines[rand.IntN(len(pivoLines))]
		reply := tu.Message(chatID, fmt.Sprintf("%s, %s", msg.From.FirstName, line))
		reply.ReplyParameters = &telego.ReplyParameters{MessageID: msg.MessageID}
		c.send(ctx, reply)
		return true
	}

	// Anything else is not ours: it flows on as an ordinary message, so
	// group chatter like "/shrug" is still learned and answered.
	return false
}

func (c *Channel) send(ctx context.Context, params *telego.SendMessageParams) {
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		slog.Warn("telegram send failed", "chat_id", params.ChatID, "error", err)
	}
}
