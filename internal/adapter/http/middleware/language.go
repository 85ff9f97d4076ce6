package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nemanjaninkovic-1/rust-tracker/pkg/translator"
)

// LanguageMiddleware sets the request language from the Accept-Language
// header, falling back to English.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = translator.LanguageEn
		}
		c.Set("lang", lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}
