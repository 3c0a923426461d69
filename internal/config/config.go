// Package config loads bot configuration from a json5 file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// DefaultPath is used when neither the --config flag nor PIVOBOT_CONFIG is set.
const DefaultPath = "./pivobot.json5"

// Config is the full bot configuration.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Brain    BrainConfig    `json:"brain"`
	Chat     ChatConfig     `json:"chat"`
}

type TelegramConfig struct {
	// Token is the bot token. The TELEGRAM_TOKEN environment variable
	// takes precedence over the file so the secret can stay out of it.
	Token string `json:"token"`
}

type BrainConfig struct {
	// Dir holds the per-chat .memory log files.
	Dir string `json:"dir"`

	// MatchThreshold is the minimum fuzzy score (0-100) to accept a
	// stored question as a match.
	MatchThreshold int `json:"matchThreshold"`

	// MaxAnswers caps recorded answers per question.
	MaxAnswers int `json:"maxAnswers"`
}

type ChatConfig struct {
	// ResponseProbability is the percent chance of answering a group
	// message that did not mention the bot.
	ResponseProbability int `json:"responseProbability"`

	// Triggers are words that summon the bot when they appear in a
	// group message alongside other text.
	Triggers []string `json:"triggers"`
}

func defaultConfig() *Config {
	return &Config{
		Brain: BrainConfig{
			Dir:            "./brain",
			MatchThreshold: 80,
			MaxAnswers:     8,
		},
		Chat: ChatConfig{
			ResponseProbability: 30,
			Triggers:            []string{"пиво", "пива", "пивас", "пивасик", "бот", "ботик"},
		},
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults (plus environment overrides) are returned so the bot can run
// with nothing but TELEGRAM_TOKEN set.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := defaultConfig()
	if cfg.Brain.Dir == "" {
		cfg.Brain.Dir = d.Brain.Dir
	}
	if cfg.Brain.MatchThreshold <= 0 {
		cfg.Brain.MatchThreshold = d.Brain.MatchThreshold
	}
	if cfg.Brain.MaxAnswers <= 0 {
		cfg.Brain.MaxAnswers = d.Brain.MaxAnswers
	}
	// ResponseProbability is left alone: Load unmarshals over the
	// preloaded defaults, so an absent key already means 30 while an
	// explicit 0 means "only answer when summoned".
	if cfg.Chat.ResponseProbability < 0 {
		cfg.Chat.ResponseProbability = 0
	}
	if len(cfg.Chat.Triggers) == 0 {
		cfg.Chat.Triggers = d.Chat.Triggers
	}
}
