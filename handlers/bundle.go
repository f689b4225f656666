package handlers

import (
	"goldengeneration/middleware"
	"goldengeneration/services/i18n"
)

// HandlerBundle groups all endpoint handlers and what the routes need to
// guard them.
type HandlerBundle struct {
	Verifier      middleware.TokenVerifier
	Catalog       *i18n.Catalog
	DefaultLocale string
	RateLimit     int
	Origins       []string

	Signup  *SignupHandler
	Events  *EventHandler
	I18n    *I18nHandler
	Members *MemberHandler
}
