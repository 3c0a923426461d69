// Package bootstrap wires the bot together: config, memory store, brain,
// bus, responder and the Telegram channel.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pivolabs/pivobot/internal/brain"
	"github.com/pivolabs/pivobot/internal/bus"
	"github.com/pivolabs/pivobot/internal/channels/telegram"
	"github.com/pivolabs/pivobot/internal/config"
	"github.com/pivolabs/pivobot/internal/store/file"
)

// restartDelay is the pause before restarting the channel after an
// unhandled failure.
const restartDelay = 5 * time.Second

// Run starts the bot and blocks until ctx is cancelled. Channel failures
// (network drop, Telegram hiccup) are logged and retried after a delay;
// only setup errors and cancellation end the run.
func Run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("no telegram token: set telegram.token in %s or TELEGRAM_TOKEN", cfgPath)
	}

	st, err := file.NewMemoryStore(cfg.Brain.Dir)
	if err != nil {
		return err
	}
	defer st.Close()

	br := brain.New(st, brain.Config{
		MatchThreshold: cfg.Brain.MatchThreshold,
		MaxAnswers:     cfg.Brain.MaxAnswers,
	})
	mb := bus.New()
	responder := NewResponder(br, mb, cfg.Chat)

	// Hot-reload chat tunables when the config file exists.
	if _, statErr := os.Stat(cfgPath); statErr == nil {
		watcher, werr := config.NewWatcher(cfgPath)
		if werr != nil {
			return fmt.Errorf("config watcher: %w", werr)
		}
		watcher.OnChange(func(next *config.Config) {
			responder.UpdateChatConfig(next.Chat)
		})
		if werr := watcher.Start(); werr != nil {
			return fmt.Errorf("config watcher: %w", werr)
		}
		defer watcher.Stop()
	}

	go responder.Run(ctx)

	slog.Info("pivobot starting", "brain_dir", cfg.Brain.Dir)

	for {
		channel, cerr := telegram.NewChannel(cfg.Telegram.Token, mb)
		if cerr != nil {
			return cerr
		}
		cerr = channel.Start(ctx)
		if ctx.Err() != nil {
			slog.Info("pivobot stopped")
			return nil
		}
		slog.Error("telegram channel failed, restarting", "error", cerr, "delay", restartDelay)
		select {
		case <-ctx.Done():
			slog.Info("pivobot stopped")
			return nil
		case <-time.After(restartDelay):
		}
	}
}
