package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpdateCountryAuditsChangedFields(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "countries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "phone_code", "status"}).
			AddRow("c-1", "TR", "+1", true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "countries" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "countries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "phone_code", "status"}).
			AddRow("c-1", "TR", "+90", true))
	mock.ExpectCommit()

	// The audit snapshot must carry the changed fields, not just the id.
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "logs"`).
		WithArgs(sqlmock.AnyArg(), "admin", "update", "countries", "c-1", "a-1",
			`{"id":"c-1","phone_code":"+90","status":true}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"phone_code":"+90","status":true}`
	c, rec := newJSONContext(t, http.MethodPut, "/admin/countries/c-1", body, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("c-1")

	if err := UpdateCountry(c); err != nil {
		t.Fatalf("UpdateCountry error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
