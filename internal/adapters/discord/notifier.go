package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/output"
	pkgdiscord "gamenight/pkg/discord"
)

var _ output.Notifier = (*Notifier)(nil)

var errNoChannel = errors.New("discord: no channel configured for event")

// MessageSender is the part of *discordgo.Session the notifier uses.
type MessageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts lifecycle embeds to the event's channel, or to the default
// channel when the event has none.
type Notifier struct {
	sender         MessageSender
	defaultChannel string
	embeds         pkgdiscord.EmbedContext
	logger         *slog.Logger
}

func NewNotifier(sender MessageSender, defaultChannel string, embeds pkgdiscord.EmbedContext, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:         sender,
		defaultChannel: defaultChannel,
		embeds:         embeds,
		logger:         logger,
	}
}

func (n *Notifier) NotifyStatusChange(ctx context.Context, change output.StatusChange) error {
	embed := pkgdiscord.BuildStatusEmbed(n.embeds, change.Event, change.To, change.Leaderboard)
	return n.send(ctx, change.Event, embed)
}

func (n *Notifier) NotifyReminder(ctx context.Context, reminder output.Reminder) error {
	embed := pkgdiscord.BuildReminderEmbed(n.embeds, reminder.Event, reminder.Kind)
	return n.send(ctx, reminder.Event, embed)
}

func (n *Notifier) send(ctx context.Context, event entities.Event, embed *discordgo.MessageEmbed) error {
	channelID := event.ChannelID
	if channelID == "" {
		channelID = n.defaultChannel
	}
	if channelID == "" {
		return errNoChannel
	}
	_, err := n.sender.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: send to channel %s: %w", channelID, err)
	}
	n.logger.DebugContext(ctx, "discord message sent",
		"event_id", event.ID,
		"channel_id", channelID,
	)
	return nil
}
