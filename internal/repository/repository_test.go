package repository

import (
	"testing"

	"booking-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func TestFirstReturnsNilWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	dealer, err := repo.First(map[string]interface{}{"id": "missing"})
	if err != nil {
		t.Fatalf("First error: %v", err)
	}
	if dealer != nil {
		t.Fatalf("expected nil for missing row, got %#v", dealer)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestFindIDScansRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow("d-1", "Sunrise Travel", true))

	dealer, err := repo.FindID("d-1")
	if err != nil {
		t.Fatalf("FindID error: %v", err)
	}
	if dealer == nil || dealer.Name != "Sunrise Travel" || !dealer.Status {
		t.Fatalf("unexpected dealer: %#v", dealer)
	}
}

func TestExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.Exists(map[string]interface{}{"name": "Sunrise Travel"})
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !taken {
		t.Fatal("expected Exists to report true")
	}
}

func TestExistsExceptSelf(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := repo.Exists(
		map[string]interface{}{"name": "Sunrise Travel"},
		map[string]interface{}{"id": "d-1"},
	)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if taken {
		t.Fatal("expected no duplicate once self is excluded")
	}
}

func TestUpdateNoOpOnDeletedRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "dealers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, err := repo.Update("gone", map[string]interface{}{"phone": "555"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil result for no-op update, got %#v", updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateReloadsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "dealers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone"}).AddRow("d-1", "555"))

	updated, err := repo.Update("d-1", map[string]interface{}{"phone": "555"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated == nil || updated.Phone != "555" {
		t.Fatalf("unexpected updated row: %#v", updated)
	}
}

func TestUpdateWritesOnlySuppliedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	// The SET clause must carry the supplied column and the updated_at stamp,
	// nothing else. Unsupplied columns stay untouched.
	mock.ExpectBegin()
	mock.ExpectExec(`^UPDATE "dealers" SET "phone"=\$1,"updated_at"=\$2 WHERE id = \$3 AND "dealers"\."deleted_at" IS NULL$`).
		WithArgs("+90 212 000 00 00", sqlmock.AnyArg(), "d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone"}).
			AddRow("d-1", "Sunrise Travel", "+90 212 000 00 00"))

	updated, err := repo.Update("d-1", map[string]interface{}{"phone": "+90 212 000 00 00"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated == nil || updated.Name != "Sunrise Travel" {
		t.Fatalf("unexpected updated row: %#v", updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateHashesPasswordField(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Admin](db, "admins")

	var stored string
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "admins" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	fields := map[string]interface{}{"password": "plaintext-secret"}
	if _, err := repo.Update("a-1", fields); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	stored, _ = fields["password"].(string)
	if stored == "plaintext-secret" || stored == "" {
		t.Fatal("expected password field to be replaced with a digest")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("plaintext-secret")); err != nil {
		t.Fatalf("digest does not verify: %v", err)
	}
}

func TestCreateHashesCredentialedModel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Admin](db, "admins")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "admins"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	admin := model.Admin{
		NameSurname: "Op One",
		Email:       "op@example.com",
		Password:    "plaintext-secret",
		Status:      true,
	}
	if err := repo.Create(&admin); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if admin.ID == "" {
		t.Fatal("expected BeforeCreate to assign an id")
	}
	if admin.Password == "plaintext-secret" {
		t.Fatal("expected password to be hashed before insert")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("plaintext-secret")); err != nil {
		t.Fatalf("digest does not verify: %v", err)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "dealers" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete("d-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Dealer](db, "dealers")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(map[string]interface{}{"status": true})
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7, got %d", count)
	}
}

func TestIncrementUsesExpression(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.TourPackage](db, "tour_packages")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tour_packages" SET "quota"=quota \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Increment("p-1", "quota", 3); err != nil {
		t.Fatalf("Increment error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPluckReturnsSingleColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New[model.Country](db, "countries")

	mock.ExpectQuery(`SELECT "code" FROM "countries"`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).
			AddRow("TR").
			AddRow("DE"))

	codes, err := repo.Pluck("code")
	if err != nil {
		t.Fatalf("Pluck error: %v", err)
	}
	if len(codes) != 2 || codes[0] != "TR" || codes[1] != "DE" {
		t.Fatalf("unexpected codes: %v", codes)
	}
}
