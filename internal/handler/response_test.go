package handler

import (
	"net/http"
	"testing"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestParseListQueryDefaults(t *testing.T) {
	c, _ := newJSONContext(t, http.MethodGet, "/dealers", "", nil)

	q := parseListQuery(c)
	if q.Page != 1 || q.Limit != 10 || q.Search != "" {
		t.Fatalf("unexpected defaults: %#v", q)
	}
	if q.Offset() != 0 {
		t.Fatalf("Offset() = %d, want 0", q.Offset())
	}
}

func TestParseListQueryRejectsInvalidValues(t *testing.T) {
	c, _ := newJSONContext(t, http.MethodGet, "/dealers?page=-3&limit=abc&search=sun", "", nil)

	q := parseListQuery(c)
	if q.Page != 1 || q.Limit != 10 {
		t.Fatalf("invalid values should fall back to defaults, got %#v", q)
	}
	if q.Search != "sun" {
		t.Fatalf("Search = %q, want sun", q.Search)
	}
}

func TestListQueryOffset(t *testing.T) {
	q := ListQuery{Page: 4, Limit: 20}
	if q.Offset() != 60 {
		t.Fatalf("Offset() = %d, want 60", q.Offset())
	}
}
