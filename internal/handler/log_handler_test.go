package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFindAllLogsResolvesActorNames(t *testing.T) {
	mock := newMockDB(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT \* FROM "logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "process", "target_name", "target_id", "user_id", "content", "created_at"}).
			AddRow("l-1", "admin", "update", "admins", "a-2", "a-2", `{"id":"a-2"}`, now).
			AddRow("l-2", "admin", "create", "dealers", "d-1", "a-2", `{"id":"d-1"}`, now).
			AddRow("l-3", "user", "delete", "made_up_table", "x-1", "u-gone", `{}`, now).
			AddRow("l-4", "admin", "update", "dealers", "d-2", "a-1", `{"id":"d-2"}`, now))

	// a-2 edited their own record in l-1, u-gone resolves to nothing,
	// a-1 is the requester.
	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name_surname"}).
			AddRow("a-1", "First Operator").
			AddRow("a-2", "Second Operator"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name_surname"}))

	c, rec := newJSONContext(t, http.MethodGet, "/admin/logs", "", adminClaims())

	if err := FindAllLogs(c); err != nil {
		t.Fatalf("FindAllLogs error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	rows := resp["data"].([]interface{})
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	byID := map[string]map[string]interface{}{}
	for _, raw := range rows {
		row := raw.(map[string]interface{})
		byID[row["id"].(string)] = row
	}

	if byID["l-1"]["user_name"] != "Self" {
		t.Errorf("actor editing their own record should render as Self, got %v", byID["l-1"]["user_name"])
	}
	if byID["l-2"]["user_name"] != "Second Operator" {
		t.Errorf("resolved admin name expected, got %v", byID["l-2"]["user_name"])
	}
	if byID["l-3"]["user_name"] != "Unknown" {
		t.Errorf("vanished actors should render as Unknown, got %v", byID["l-3"]["user_name"])
	}
	if byID["l-4"]["user_name"] != "First Operator" {
		t.Errorf("the requester's entries on other records resolve by name, got %v", byID["l-4"]["user_name"])
	}

	if byID["l-2"]["label"] != "Dealer" {
		t.Errorf("label = %v, want Dealer", byID["l-2"]["label"])
	}
	if byID["l-3"]["label"] != "made_up_table" {
		t.Errorf("unmapped tables should fall back to the raw name, got %v", byID["l-3"]["label"])
	}
}
