package audit

import (
	"testing"

	"booking-service/pkg/database"
	"booking-service/pkg/jwtutil"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestActorKindFromRole(t *testing.T) {
	cases := []struct {
		role string
		want ActorKind
	}{
		{"admin", ActorAdmin},
		{"dealer", ActorDealer},
		{"dealer_user", ActorDealer},
		{"solution_partner", ActorUser},
		{"sales_partner", ActorUser},
		{"", ActorUser},
	}
	for _, tc := range cases {
		if got := ActorKindFromRole(tc.role); got != tc.want {
			t.Errorf("ActorKindFromRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestActorKindString(t *testing.T) {
	if ActorAdmin.String() != "admin" || ActorDealer.String() != "dealer" || ActorUser.String() != "user" {
		t.Fatal("unexpected actor kind labels")
	}
}

func TestSnapshotID(t *testing.T) {
	if got := snapshotID([]byte(`{"id":"x-1","name":"n"}`)); got != "x-1" {
		t.Errorf("snapshotID = %q, want x-1", got)
	}
	if got := snapshotID([]byte(`{"name":"n"}`)); got != "" {
		t.Errorf("snapshotID without id = %q, want empty", got)
	}
	if got := snapshotID([]byte(`not json`)); got != "" {
		t.Errorf("snapshotID on invalid json = %q, want empty", got)
	}
}

func TestWriteInsertsLogRow(t *testing.T) {
	db, mock := newMockDB(t)
	database.SetDB(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	claims := &jwtutil.UserClaims{UserID: "a-1", Role: "admin"}
	Write(claims, ProcessCreate, "dealers", map[string]interface{}{"id": "d-1", "name": "Sunrise Travel"})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestWriteSwallowsFailures(t *testing.T) {
	db, mock := newMockDB(t)
	database.SetDB(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "logs"`).
		WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectRollback()

	claims := &jwtutil.UserClaims{UserID: "a-1", Role: "admin"}

	// Must not panic or propagate the failure.
	Write(claims, ProcessDelete, "dealers", map[string]interface{}{"id": "d-1"})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
