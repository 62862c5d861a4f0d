package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func formContext(t *testing.T, values url.Values) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFormString(t *testing.T) {
	c := formContext(t, url.Values{"category": {"exterior"}})

	value, present := formString(c, "category")
	if !present || value != "exterior" {
		t.Fatalf("formString = (%q, %v)", value, present)
	}
	if _, present := formString(c, "missing"); present {
		t.Fatal("missing field reported as present")
	}
}

func TestFormBool(t *testing.T) {
	c := formContext(t, url.Values{"refundable": {"true"}, "bad": {"yep"}})

	value, present, err := formBool(c, "refundable")
	if err != nil || !present || !value {
		t.Fatalf("formBool = (%v, %v, %v)", value, present, err)
	}

	if _, present, err := formBool(c, "bad"); err == nil || !present {
		t.Fatal("expected parse error for non-boolean value")
	}

	if _, present, err := formBool(c, "missing"); err != nil || present {
		t.Fatal("missing field should be absent without error")
	}
}

func TestFormDate(t *testing.T) {
	c := formContext(t, url.Values{
		"start": {"2026-05-01"},
		"stamp": {"2026-05-01T10:30:00Z"},
		"bad":   {"May 1st"},
	})

	date, present, err := formDate(c, "start")
	if err != nil || !present {
		t.Fatalf("formDate error: %v", err)
	}
	if date.Year() != 2026 || date.Month() != time.May || date.Day() != 1 {
		t.Fatalf("unexpected date: %v", date)
	}

	if _, _, err := formDate(c, "stamp"); err != nil {
		t.Fatalf("RFC3339 value rejected: %v", err)
	}
	if _, _, err := formDate(c, "bad"); err == nil {
		t.Fatal("expected parse error for free-form date")
	}
}

func TestFormInt(t *testing.T) {
	c := formContext(t, url.Values{"ordering": {"7"}, "bad": {"seven"}})

	value, present, err := formInt(c, "ordering")
	if err != nil || !present || value != 7 {
		t.Fatalf("formInt = (%d, %v, %v)", value, present, err)
	}
	if _, _, err := formInt(c, "bad"); err == nil {
		t.Fatal("expected parse error for non-numeric value")
	}
}
