package output

// T renders user-facing text: notification bodies, embeds and API error
// messages. data fills template placeholders and may be nil.
type T interface {
	T(locale, key string, data map[string]any) string
}
