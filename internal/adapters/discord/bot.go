package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the Discord gateway session used to post lifecycle messages.
type Bot struct {
	session *discordgo.Session
	logger  *slog.Logger
}

func NewBot(token string, logger *slog.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return &Bot{session: s, logger: logger}, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	if u := b.session.State.User; u != nil {
		b.logger.Info("discord session opened", "bot_user", u.Username)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) Session() *discordgo.Session {
	return b.session
}
