package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetPermissionsMergesOverrides(t *testing.T) {
	mock := newMockDB(t)

	// One stored override flips a default; unknown names are ignored.
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "target", "target_id", "status"}).
			AddRow("p-1", "users.manage", "dealer", "d-1", false).
			AddRow("p-2", "made.up", "dealer", "d-1", false))

	c, rec := newJSONContext(t, http.MethodGet, "/admin/permissions/dealer/d-1", "", adminClaims())
	c.SetParamNames("target", "target_id")
	c.SetParamValues("dealer", "d-1")

	if err := GetPermissions(c); err != nil {
		t.Fatalf("GetPermissions error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})
	list := data["permissions"].([]interface{})

	effective := map[string]bool{}
	for _, entry := range list {
		row := entry.(map[string]interface{})
		effective[row["name"].(string)] = row["status"].(bool)
	}

	if len(effective) != len(defaultPermissions["dealer"]) {
		t.Fatalf("expected the full default key set, got %v", effective)
	}
	if effective["users.manage"] != false {
		t.Fatal("stored override should flip the default")
	}
	if effective["bookings.create"] != true {
		t.Fatal("untouched keys should keep their default")
	}
	if _, ok := effective["made.up"]; ok {
		t.Fatal("override for an unknown key must not leak into the set")
	}
}

func TestGetPermissionsUnknownTarget(t *testing.T) {
	newMockDB(t)

	c, rec := newJSONContext(t, http.MethodGet, "/admin/permissions/ghost/x", "", adminClaims())
	c.SetParamNames("target", "target_id")
	c.SetParamValues("ghost", "x")

	if err := GetPermissions(c); err != nil {
		t.Fatalf("GetPermissions error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestUpdatePermissionRejectsUnknownName(t *testing.T) {
	newMockDB(t)

	body := `{"name":"made.up","status":false}`
	c, rec := newJSONContext(t, http.MethodPut, "/admin/permissions/dealer/d-1", body, adminClaims())
	c.SetParamNames("target", "target_id")
	c.SetParamValues("dealer", "d-1")

	if err := UpdatePermission(c); err != nil {
		t.Fatalf("UpdatePermission error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestUpdatePermissionUpdatesExistingOverride(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "target", "target_id", "status"}).
			AddRow("p-1", "users.manage", "dealer", "d-1", true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "permissions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "target", "target_id", "status"}).
			AddRow("p-1", "users.manage", "dealer", "d-1", false))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"name":"users.manage","status":false}`
	c, rec := newJSONContext(t, http.MethodPut, "/admin/permissions/dealer/d-1", body, adminClaims())
	c.SetParamNames("target", "target_id")
	c.SetParamValues("dealer", "d-1")

	if err := UpdatePermission(c); err != nil {
		t.Fatalf("UpdatePermission error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
}
