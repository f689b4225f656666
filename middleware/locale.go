package middleware

import (
	"goldengeneration/services/i18n"

	"github.com/gin-gonic/gin"
)

// ContextLocale is the key under which LocaleMiddleware stores the locale.
const ContextLocale = "locale"

// LocaleMiddleware resolves the request locale from ?lang=, then
// Accept-Language, then fallback.
func LocaleMiddleware(catalog *i18n.Catalog, fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := catalog.Match(c.Query("lang"), c.GetHeader("Accept-Language"), fallback)
		c.Set(ContextLocale, locale)
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// Locale returns the locale stored by LocaleMiddleware or the base locale.
func Locale(c *gin.Context) string {
	if locale := c.GetString(ContextLocale); locale != "" {
		return locale
	}
	return i18n.BaseLocale
}
