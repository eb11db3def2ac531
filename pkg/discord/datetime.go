package discord

import (
	"fmt"
	"time"
)

// FormatEventDateTime renders t in loc, or "" for the zero time.
func FormatEventDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04")
}

// DiscordTimestamp renders t as Discord timestamp markup, shown to each reader
// in their own timezone. style is one of Discord's format letters (f, F, R...).
func DiscordTimestamp(t time.Time, style byte) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("<t:%d:%c>", t.Unix(), style)
}
