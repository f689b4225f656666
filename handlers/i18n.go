package handlers

import (
	"net/http"

	"goldengeneration/middleware"
	"goldengeneration/services/i18n"
	"goldengeneration/services/signup"

	"github.com/gin-gonic/gin"
)

// I18nHandler serves the language list and the localized form catalog.
type I18nHandler struct {
	Catalog *i18n.Catalog
}

func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{Catalog: catalog}
}

func (h *I18nHandler) LanguagesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": h.Catalog.Languages(),
		"current":   middleware.Locale(c),
	})
}

// FormOptionsHandler lists every signup field with its localized label and options.
func (h *I18nHandler) FormOptionsHandler(c *gin.Context) {
	locale := middleware.Locale(c)
	c.JSON(http.StatusOK, gin.H{
		"locale": locale,
		"fields": signup.FormCatalog(h.Catalog.Translator(locale)),
	})
}
