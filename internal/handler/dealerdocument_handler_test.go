package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateDealerDocumentDecodesFormFields(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "dealer_documents"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newFormContext(t, "/admin/dealers/d-1/documents", url.Values{
		"title":      {"Trade license"},
		"file_url":   {"/uploads/license.pdf"},
		"expires_at": {"2027-01-31"},
		"status":     {"false"},
	}, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("d-1")

	if err := CreateDealerDocument(c); err != nil {
		t.Fatalf("CreateDealerDocument error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})

	if data["status"] != false {
		t.Errorf(`form "false" should decode to a boolean, got %v`, data["status"])
	}
	expiresAt, _ := data["expires_at"].(string)
	if len(expiresAt) < 10 || expiresAt[:10] != "2027-01-31" {
		t.Errorf("form date should decode to the document expiry, got %v", data["expires_at"])
	}
	if data["dealer_id"] != "d-1" {
		t.Errorf("dealer_id = %v, want d-1", data["dealer_id"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCreateDealerDocumentRejectsBadBool(t *testing.T) {
	newMockDB(t)

	c, rec := newFormContext(t, "/admin/dealers/d-1/documents", url.Values{
		"title":    {"Trade license"},
		"file_url": {"/uploads/license.pdf"},
		"status":   {"yep"},
	}, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("d-1")

	if err := CreateDealerDocument(c); err != nil {
		t.Fatalf("CreateDealerDocument error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestCreateDealerDocumentRejectsBadDate(t *testing.T) {
	newMockDB(t)

	c, rec := newFormContext(t, "/admin/dealers/d-1/documents", url.Values{
		"title":      {"Trade license"},
		"file_url":   {"/uploads/license.pdf"},
		"expires_at": {"next spring"},
	}, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("d-1")

	if err := CreateDealerDocument(c); err != nil {
		t.Fatalf("CreateDealerDocument error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestCreateDealerDocumentRequiresFile(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, rec := newFormContext(t, "/admin/dealers/d-1/documents", url.Values{
		"title": {"Trade license"},
	}, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("d-1")

	if err := CreateDealerDocument(c); err != nil {
		t.Fatalf("CreateDealerDocument error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
}
