package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func resolveLanguage(t *testing.T, target, acceptLanguage string) string {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var resolved string
	handler := LanguageMiddleware("en")(func(c echo.Context) error {
		resolved = Language(c)
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return resolved
}

func TestLanguageFromQueryParameter(t *testing.T) {
	if got := resolveLanguage(t, "/hotels?language=DE", ""); got != "de" {
		t.Fatalf("language = %q, want de", got)
	}
}

func TestLanguageFromAcceptLanguageHeader(t *testing.T) {
	if got := resolveLanguage(t, "/hotels", "tr-TR,tr;q=0.9,en;q=0.8"); got != "tr" {
		t.Fatalf("language = %q, want tr", got)
	}
}

func TestLanguageQueryBeatsHeader(t *testing.T) {
	if got := resolveLanguage(t, "/hotels?language=fr", "tr-TR"); got != "fr" {
		t.Fatalf("language = %q, want fr", got)
	}
}

func TestLanguageFallsBackToDefault(t *testing.T) {
	if got := resolveLanguage(t, "/hotels", ""); got != "en" {
		t.Fatalf("language = %q, want en", got)
	}
}

func TestLanguageAccessorWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got := Language(c); got != "en" {
		t.Fatalf("language = %q, want en", got)
	}
}
