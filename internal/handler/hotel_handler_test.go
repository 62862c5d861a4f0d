package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func hotelRow(id, partnerID string, status bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "solution_partner_id", "status", "admin_approval"}).
		AddRow(id, partnerID, status, false)
}

func TestSendHotelForApprovalIncomplete(t *testing.T) {
	mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT \* FROM "hotels"`).
		WillReturnRows(hotelRow("h-1", "sp-1", false))

	// Readiness checks run per child table; only rooms exist.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "hotel_rooms"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "hotel_features"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "hotel_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "hotel_galleries"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, rec := newJSONContext(t, http.MethodPost, "/solution-partner/hotels/h-1/send-for-approval", "", partnerClaims("sp-1"))
	c.SetParamNames("id")
	c.SetParamValues("h-1")

	if err := SendHotelForApproval(c); err != nil {
		t.Fatalf("SendHotelForApproval error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})
	if data["completed"] != false {
		t.Fatalf("expected incomplete submission, got %v", data)
	}
	if data["status"] != false {
		t.Fatal("incomplete submission must not flip status")
	}
	checks := data["checks"].(map[string]interface{})
	if checks["rooms"] != true || checks["features"] != false {
		t.Fatalf("unexpected checks: %v", checks)
	}
}

func TestSendHotelForApprovalComplete(t *testing.T) {
	mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT \* FROM "hotels"`).
		WillReturnRows(hotelRow("h-1", "sp-1", false))

	for _, table := range []string{"hotel_rooms", "hotel_features", "hotel_images", "hotel_galleries"} {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "` + table + `"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}

	// Submission update plus reload, then the audit insert.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "hotels" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "hotels"`).
		WillReturnRows(hotelRow("h-1", "sp-1", true))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(t, http.MethodPost, "/solution-partner/hotels/h-1/send-for-approval", "", partnerClaims("sp-1"))
	c.SetParamNames("id")
	c.SetParamValues("h-1")

	if err := SendHotelForApproval(c); err != nil {
		t.Fatalf("SendHotelForApproval error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})
	if data["completed"] != true || data["status"] != true {
		t.Fatalf("expected accepted submission, got %v", data)
	}
}

func TestSendHotelForApprovalForeignPartner(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "hotels"`).
		WillReturnRows(hotelRow("h-1", "sp-other", false))

	c, rec := newJSONContext(t, http.MethodPost, "/solution-partner/hotels/h-1/send-for-approval", "", partnerClaims("sp-1"))
	c.SetParamNames("id")
	c.SetParamValues("h-1")

	if err := SendHotelForApproval(c); err != nil {
		t.Fatalf("SendHotelForApproval error: %v", err)
	}
	assertStatus(t, rec, http.StatusForbidden)
}

func TestApproveHotelRequiresSubmission(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "hotels"`).
		WillReturnRows(hotelRow("h-1", "sp-1", false))

	c, rec := newJSONContext(t, http.MethodPut, "/admin/hotels/h-1/approve", `{"approve":true}`, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("h-1")

	if err := ApproveHotel(c); err != nil {
		t.Fatalf("ApproveHotel error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["message"] != "Hotel has not been submitted for approval" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestFindOneHotelMissingTranslation(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "hotels"`).
		WillReturnRows(hotelRow("h-1", "sp-1", true))
	mock.ExpectQuery(`SELECT \* FROM "hotel_pivots"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "hotel_rooms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "hotel_features"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "hotel_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "hotel_galleries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newJSONContext(t, http.MethodGet, "/solution-partner/hotels/h-1?language=xx", "", partnerClaims("sp-1"))
	c.SetParamNames("id")
	c.SetParamValues("h-1")

	if err := FindOneHotel(c); err != nil {
		t.Fatalf("FindOneHotel error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})
	if data["translation"] != nil {
		t.Fatalf("missing language should yield null translation, got %v", data["translation"])
	}
}
