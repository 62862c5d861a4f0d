package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTranslateCreateFillsIdentityColumns(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "hotel_pivots"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	row, err := TranslateCreate(db, TranslateParams{
		Table:        "hotel_pivots",
		TargetKey:    "hotel_id",
		TargetID:     "h-1",
		LanguageCode: "en",
		Data:         map[string]interface{}{"name": "Harbor View"},
	})
	if err != nil {
		t.Fatalf("TranslateCreate error: %v", err)
	}

	if row["id"] == "" || row["id"] == nil {
		t.Fatal("expected generated id on pivot row")
	}
	if row["hotel_id"] != "h-1" || row["language_code"] != "en" {
		t.Fatalf("unexpected identity columns: %#v", row)
	}
	if row["name"] != "Harbor View" {
		t.Fatalf("expected data fields merged into row, got %#v", row)
	}
	if row["created_at"] == nil || row["updated_at"] == nil {
		t.Fatal("expected timestamps set on map insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestTranslateUpdateScopesToLanguage(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "hotel_pivots" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := TranslateUpdate(db, TranslateParams{
		Table:        "hotel_pivots",
		TargetKey:    "hotel_id",
		TargetID:     "h-1",
		LanguageCode: "de",
		Data:         map[string]interface{}{"name": "Hafenblick"},
	})
	if err != nil {
		t.Fatalf("TranslateUpdate error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestTranslateReplaceSoftDeletesThenInserts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "country_pivots" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "country_pivots"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	row, err := TranslateReplace(db, TranslateParams{
		Table:        "country_pivots",
		TargetKey:    "country_id",
		TargetID:     "c-1",
		LanguageCode: "en",
		Data:         map[string]interface{}{"name": "Iceland"},
	})
	if err != nil {
		t.Fatalf("TranslateReplace error: %v", err)
	}
	if row["name"] != "Iceland" {
		t.Fatalf("unexpected replacement row: %#v", row)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestTranslateDeleteCascadesAllLanguages(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "hotel_pivots" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	if err := TranslateDelete(db, "hotel_pivots", "hotel_id", "h-1"); err != nil {
		t.Fatalf("TranslateDelete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
