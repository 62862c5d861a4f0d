package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateDealerRejectsDuplicateName(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := `{"name":"Sunrise Travel","city_id":"0b06c949-68b1-4a96-b2a5-bb02ab0a3e1c","district_id":"77b9cbb9-5be5-44d7-bd09-5c0a6eecb90a"}`
	c, rec := newJSONContext(t, http.MethodPost, "/admin/dealers", body, adminClaims())

	if err := CreateDealer(c); err != nil {
		t.Fatalf("CreateDealer error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["success"] != false || resp["message"] != "Dealer name already exists" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestCreateDealerRequiresKnownCity(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cities"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	body := `{"name":"Sunrise Travel","city_id":"0b06c949-68b1-4a96-b2a5-bb02ab0a3e1c","district_id":"77b9cbb9-5be5-44d7-bd09-5c0a6eecb90a"}`
	c, rec := newJSONContext(t, http.MethodPost, "/admin/dealers", body, adminClaims())

	if err := CreateDealer(c); err != nil {
		t.Fatalf("CreateDealer error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["message"] != "City not found" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestCreateDealerValidationFailure(t *testing.T) {
	newMockDB(t)

	// Missing required name and malformed city id.
	body := `{"city_id":"not-a-uuid","district_id":"77b9cbb9-5be5-44d7-bd09-5c0a6eecb90a"}`
	c, rec := newJSONContext(t, http.MethodPost, "/admin/dealers", body, adminClaims())

	err := CreateDealer(c)
	if err == nil {
		t.Fatal("expected validation error")
	}
	_ = rec
}

func TestCreateDealerRequiresAuthentication(t *testing.T) {
	newMockDB(t)

	c, rec := newJSONContext(t, http.MethodPost, "/admin/dealers", `{"name":"x"}`, nil)
	if err := CreateDealer(c); err != nil {
		t.Fatalf("CreateDealer error: %v", err)
	}
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestFindAllDealersPaginationEnvelope(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow("d-1", "Sunrise Travel", true).
			AddRow("d-2", "Moonlight Tours", false))

	c, rec := newJSONContext(t, http.MethodGet, "/admin/dealers?page=2&limit=10", "", adminClaims())

	if err := FindAllDealers(c); err != nil {
		t.Fatalf("FindAllDealers error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["total"] != float64(23) || resp["totalPages"] != float64(3) || resp["currentPage"] != float64(2) {
		t.Fatalf("unexpected pagination metadata: %v", resp)
	}
	options, ok := resp["recordsPerPageOptions"].([]interface{})
	if !ok || len(options) != 4 {
		t.Fatalf("expected recordsPerPageOptions echoed, got %v", resp["recordsPerPageOptions"])
	}
}

func TestFindOneDealerNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newJSONContext(t, http.MethodGet, "/admin/dealers/gone", "", adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("gone")

	if err := FindOneDealer(c); err != nil {
		t.Fatalf("FindOneDealer error: %v", err)
	}
	assertStatus(t, rec, http.StatusNotFound)
}
