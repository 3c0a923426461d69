// Package bus decouples the Telegram channel from the responder: the
// channel publishes inbound chat messages, the responder publishes
// outbound replies, and each side consumes the other's queue.
package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InboundMessage is one chat message as seen by the responder.
type InboundMessage struct {
	ID         uuid.UUID
	ChatID     int64
	MessageID  int
	SenderName string
	Text       string
	IsGroup    bool

	// ReplyToText is the text of the message this one replies to
	// (empty when it is not a reply). Reply pairs are what the bot
	// learns from.
	ReplyToText string

	// ReplyToBot marks a reply to one of the bot's own messages.
	ReplyToBot bool

	ReceivedAt time.Time
}

// OutboundMessage is one reply for the channel to deliver.
type OutboundMessage struct {
	ChatID int64

	// ReplyToMessageID is the message to reply to; 0 sends a plain message.
	ReplyToMessageID int

	Text string

	// SimulateTyping asks the channel to show a typing indicator and
	// pause before delivering, so the reply does not land instantly.
	SimulateTyping bool
}

// MessageBus carries messages between the channel and the responder.
// Queues are buffered; both consume operations honor ctx cancellation.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
}

func New() *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, 100),
		outbound: make(chan OutboundMessage, 100),
	}
}

// PublishInbound queues a message from the channel.
func (mb *MessageBus) PublishInbound(msg InboundMessage) {
	mb.inbound <- msg
}

// ConsumeInbound blocks until a message is available or ctx is cancelled.
func (mb *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case msg := <-mb.inbound:
		return msg, true
	case <-ctx.Done():
		return InboundMessage{}, false
	}
}

// PublishOutbound queues a reply for the channel.
func (mb *MessageBus) PublishOutbound(msg OutboundMessage) {
	mb.outbound <- msg
}

// ConsumeOutbound blocks until a reply is available or ctx is cancelled.
func (mb *MessageBus) ConsumeOutbound(ctx context.Context) (OutboundMessage, bool) {
	select {
	case msg := <-mb.outbound:
		return msg, true
	case <-ctx.Done():
		return OutboundMessage{}, false
	}
}
