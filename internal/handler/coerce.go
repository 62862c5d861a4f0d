package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Multipart form values arrive as strings; these helpers decode each field
// through an explicit typed parse instead of sniffing. The second return
// reports whether the field was present at all.

func formString(c echo.Context, key string) (string, bool) {
	value := c.FormValue(key)
	return value, value != ""
}

func formBool(c echo.Context, key string) (bool, bool, error) {
	raw := c.FormValue(key)
	if raw == "" {
		return false, false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, true, fmt.Errorf("field %s must be true or false", key)
	}
	return value, true, nil
}

func formDate(c echo.Context, key string) (time.Time, bool, error) {
	raw := c.FormValue(key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if value, err := time.Parse(layout, raw); err == nil {
			return value, true, nil
		}
	}
	return time.Time{}, true, fmt.Errorf("field %s must be an ISO date", key)
}

func formInt(c echo.Context, key string) (int, bool, error) {
	raw := c.FormValue(key)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("field %s must be an integer", key)
	}
	return value, true, nil
}
