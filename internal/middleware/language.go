package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// LanguageMiddleware resolves the request language from the "language" query
// parameter or the first Accept-Language tag, falling back to the default.
// There is no fallback chain on the data side: a missing pivot row for the
// resolved language simply yields no translated text.
func LanguageMiddleware(defaultLanguage string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			language := c.QueryParam("language")
			if language == "" {
				if header := c.Request().Header.Get("Accept-Language"); header != "" {
					first := strings.Split(header, ",")[0]
					language = strings.TrimSpace(strings.Split(first, ";")[0])
					if idx := strings.Index(language, "-"); idx > 0 {
						language = language[:idx]
					}
				}
			}
			if language == "" {
				language = defaultLanguage
			}

			c.Set("language", strings.ToLower(language))
			return next(c)
		}
	}
}

// Language returns the resolved request language.
func Language(c echo.Context) string {
	if language, ok := c.Get("language").(string); ok && language != "" {
		return language
	}
	return "en"
}
