package handler

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RecordsPerPageOptions is echoed on every list response.
var RecordsPerPageOptions = []int{10, 20, 50, 100}

// ListQuery holds the shared list-endpoint query parameters.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// parseListQuery reads page/limit/search with their defaults.
func parseListQuery(c echo.Context) ListQuery {
	q := ListQuery{Page: 1, Limit: 10, Search: c.QueryParam("search")}

	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	return q
}

// Offset returns the row offset for the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// totalPages computes ceil(total / limit).
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func success(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

func paginated(c echo.Context, message string, data interface{}, total int64, q ListQuery) error {
	return c.JSON(200, echo.Map{
		"success":               true,
		"message":               message,
		"data":                  data,
		"recordsPerPageOptions": RecordsPerPageOptions,
		"total":                 total,
		"totalPages":            totalPages(total, q.Limit),
		"currentPage":           q.Page,
		"limit":                 q.Limit,
	})
}
