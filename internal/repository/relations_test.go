package repository

import (
	"testing"

	"booking-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOneToOneJoinsRelatedRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.City](db, "cities")

	mock.ExpectQuery(`SELECT cities\.\*, countries\.\* FROM "cities" INNER JOIN countries ON cities\.country_id = countries\.id AND countries\.deleted_at IS NULL`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "country_id", "code"}).
			AddRow("c-1", "tr", "TR"))

	row, err := repo.OneToOne("c-1", "countries", "country_id")
	if err != nil {
		t.Fatalf("OneToOne error: %v", err)
	}
	if row == nil || row["code"] != "TR" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestOneToOneMissingOwnerReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.City](db, "cities")

	mock.ExpectQuery(`SELECT cities\.\*, countries\.\* FROM "cities"`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := repo.OneToOne("ghost", "countries", "country_id")
	if err != nil {
		t.Fatalf("OneToOne error: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil for missing owner, got %#v", row)
	}
}

func TestOneToManyReturnsFlatRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.City](db, "cities")

	mock.ExpectQuery(`SELECT cities\.id AS city_id, districts\.name FROM "cities" LEFT JOIN districts ON districts\.city_id = cities\.id AND districts\.deleted_at IS NULL`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"city_id", "name"}).
			AddRow("c-1", "Kadikoy").
			AddRow("c-1", "Besiktas"))

	rows, err := repo.OneToMany("c-1", "districts", "city_id",
		[]string{"cities.id AS city_id", "districts.name"}, nil)
	if err != nil {
		t.Fatalf("OneToMany error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected one flat row per district, got %d", len(rows))
	}
	if rows[0]["name"] != "Kadikoy" || rows[1]["name"] != "Besiktas" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestManyToManyDoubleJoins(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectQuery(`SELECT dealers\.\*, cities\.\* FROM "dealers" INNER JOIN dealer_commissions ON dealer_commissions\.dealer_id = dealers\.id AND dealer_commissions\.deleted_at IS NULL INNER JOIN cities ON dealer_commissions\.city_id = cities\.id AND cities\.deleted_at IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("d-1", "Sunrise Travel"))

	rows, err := repo.ManyToMany("dealer_commissions", "dealer_id", "cities", "city_id")
	if err != nil {
		t.Fatalf("ManyToMany error: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Sunrise Travel" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
