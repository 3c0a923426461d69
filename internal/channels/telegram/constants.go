package telegram

import "time"

const (
	// typingPerRune is the simulated typing time per rune of the reply.
	typingPerRune = 190 * time.Millisecond

	// typingMaxDelay caps the simulated typing pause; Telegram shows the
	// typing indicator for about five seconds per action anyway.
	typingMaxDelay = 5 * time.Second

	// dedupeTTL is how long an update ID is remembered. Long polling can
	// redeliver recent updates after a reconnect.
	dedupeTTL = 20 * time.Minute

	// dedupeMaxSize bounds the dedupe cache.
	dedupeMaxSize = 5000
)
