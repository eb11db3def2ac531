package i18n

import (
	"gamenight/internal/domain"
	"gamenight/internal/ports/output"
)

// ErrorMessage resolves a domain error to a user-facing message through the
// error.<code> keys. Errors without a domain code read as error.internal.
func ErrorMessage(t output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	code := domain.Code(err)
	if code == "" {
		code = "internal"
	}
	return t.T(locale, "error."+code, nil)
}
