package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/domain/ranking"
)

// Discord caps embed descriptions; longer leaderboards are truncated.
const maxLeaderboardLines = 25

// Translator renders a localized message.
type Translator interface {
	T(locale, key string, data map[string]any) string
}

// EmbedContext carries what every embed builder needs to render text.
type EmbedContext struct {
	Translator Translator
	Locale     string
	Location   *time.Location
}

var statusColors = map[domain.EventStatus]int{
	domain.EventDraft:     0x99AAB5,
	domain.EventUpcoming:  0x5865F2,
	domain.EventLive:      0x57F287,
	domain.EventCompleted: 0xFEE75C,
	domain.EventCancelled: 0xED4245,
	domain.EventArchived:  0x4F545C,
}

func (c EmbedContext) templateData(event entities.Event) map[string]any {
	start := FormatEventDateTime(event.StartTime, c.Location)
	if start == "" {
		start = c.Translator.T(c.Locale, "notify.unscheduled", nil)
	}
	return map[string]any{
		"Title": event.Title,
		"Start": start,
	}
}

func (c EmbedContext) scheduleFields(event entities.Event) []*discordgo.MessageEmbedField {
	var fields []*discordgo.MessageEmbedField
	if !event.StartTime.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   c.Translator.T(c.Locale, "notify.field.start", nil),
			Value:  DiscordTimestamp(event.StartTime, 'F'),
			Inline: true,
		})
	}
	if event.HasEndTime() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   c.Translator.T(c.Locale, "notify.field.end", nil),
			Value:  DiscordTimestamp(event.EndTime, 'F'),
			Inline: true,
		})
	}
	return fields
}

// BuildStatusEmbed announces that an event moved to a new status. A non-empty
// leaderboard is appended as its own field.
func BuildStatusEmbed(c EmbedContext, event entities.Event, to domain.EventStatus, leaderboard []ranking.Entry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       event.Title,
		Description: c.Translator.T(c.Locale, "notify.status."+string(to), c.templateData(event)),
		Color:       statusColors[to],
		Fields: append(c.scheduleFields(event), &discordgo.MessageEmbedField{
			Name:   c.Translator.T(c.Locale, "notify.field.status", nil),
			Value:  string(to),
			Inline: true,
		}),
	}
	if to == domain.EventCompleted && len(leaderboard) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  c.Translator.T(c.Locale, "notify.leaderboard.title", c.templateData(event)),
			Value: strings.Join(FormatLeaderboardLines(c, leaderboard), "\n"),
		})
	}
	return embed
}

func BuildReminderEmbed(c EmbedContext, event entities.Event, kind domain.ReminderKind) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       event.Title,
		Description: c.Translator.T(c.Locale, "notify.reminder."+string(kind), c.templateData(event)),
		Color:       statusColors[domain.EventUpcoming],
		Fields:      c.scheduleFields(event),
	}
}

// BuildLeaderboardEmbed renders a standalone leaderboard.
func BuildLeaderboardEmbed(c EmbedContext, event entities.Event, entries []ranking.Entry) *discordgo.MessageEmbed {
	desc := c.Translator.T(c.Locale, "notify.leaderboard.empty", nil)
	if len(entries) > 0 {
		desc = strings.Join(FormatLeaderboardLines(c, entries), "\n")
	}
	return &discordgo.MessageEmbed{
		Title:       c.Translator.T(c.Locale, "notify.leaderboard.title", c.templateData(event)),
		Description: desc,
		Color:       statusColors[domain.EventCompleted],
	}
}

// FormatLeaderboardLines renders one "label mention name score" line per entry.
func FormatLeaderboardLines(c EmbedContext, entries []ranking.Entry) []string {
	n := min(len(entries), maxLeaderboardLines)
	lines := make([]string, 0, n)
	for _, e := range entries[:n] {
		line := fmt.Sprintf("%s <@%s> %s", e.Label, e.Participant.UserID, e.Participant.Name())
		if e.Participant.Score != nil {
			score := strconv.FormatFloat(*e.Participant.Score, 'f', -1, 64)
			line += " · " + c.Translator.T(c.Locale, "notify.leaderboard.score", map[string]any{"Score": score})
		}
		lines = append(lines, line)
	}
	return lines
}
