package i18n

import (
	"embed"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"gamenight/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// maxCachedLocalizers bounds the cache; locale strings come from request headers.
const maxCachedLocalizers = 64

// Translator renders notification and error text from the embedded message
// files. Localizers are cached per requested locale string.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *slog.Logger

	mu         sync.RWMutex
	localizers map[string]*i18n.Localizer
}

// NewTranslator loads every embedded active.*.toml file. An unparseable
// defaultLocale falls back to English.
func NewTranslator(defaultLocale string, logger *slog.Logger) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(localeFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Error("i18n: load message file failed", "file", file, "error", err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          logger,
		localizers:      make(map[string]*i18n.Localizer),
	}
}

// T renders key for locale, which may be a tag ("fr") or a full
// Accept-Language value. Missing messages fall back to the default locale,
// then to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Warn("i18n: localize failed", "key", key, "locale", locale, "error", err)
		return key
	}
	return msg
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	t.mu.RLock()
	l, ok := t.localizers[locale]
	t.mu.RUnlock()
	if ok {
		return l
	}

	langs := make([]string, 0, 2)
	if locale != "" {
		langs = append(langs, locale)
	}
	langs = append(langs, t.defaultLanguage.String())
	l = i18n.NewLocalizer(t.bundle, langs...)

	t.mu.Lock()
	if len(t.localizers) < maxCachedLocalizers {
		t.localizers[locale] = l
	}
	t.mu.Unlock()
	return l
}

func (t *Translator) DefaultLocale() string {
	return t.defaultLanguage.String()
}
