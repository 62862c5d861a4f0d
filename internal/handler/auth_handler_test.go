package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"booking-service/pkg/config"
	"booking-service/pkg/jwtutil"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
}

func hashFor(t *testing.T, plain string) string {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(digest)
}

func TestLoginAdminSuccess(t *testing.T) {
	initTestJWT(t)
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "status"}).
			AddRow("a-1", "op@example.com", hashFor(t, "correct-horse"), true))

	body := `{"email":"op@example.com","password":"correct-horse"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/admin/login", body, nil)

	if err := LoginAdmin(c); err != nil {
		t.Fatalf("LoginAdmin error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("expected a signed token in the response")
	}

	claims, err := jwtutil.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != "admin" || claims.UserID != "a-1" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestLoginAdminWrongPassword(t *testing.T) {
	initTestJWT(t)
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "status"}).
			AddRow("a-1", "op@example.com", hashFor(t, "correct-horse"), true))

	body := `{"email":"op@example.com","password":"wrong"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/admin/login", body, nil)

	if err := LoginAdmin(c); err != nil {
		t.Fatalf("LoginAdmin error: %v", err)
	}
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestLoginAdminUnknownAccount(t *testing.T) {
	initTestJWT(t)
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"email":"nobody@example.com","password":"whatever"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/admin/login", body, nil)

	if err := LoginAdmin(c); err != nil {
		t.Fatalf("LoginAdmin error: %v", err)
	}
	assertStatus(t, rec, http.StatusUnauthorized)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	// Same message as a bad password so account existence is not leaked.
	if resp["message"] != "Invalid email or password" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestLoginSolutionPartnerRequiresApproval(t *testing.T) {
	initTestJWT(t)
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "solution_partners"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "status", "admin_approval"}).
			AddRow("sp-1", "partner@example.com", hashFor(t, "correct-horse"), true, false))

	body := `{"email":"partner@example.com","password":"correct-horse"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/solution-partner/login", body, nil)

	if err := LoginSolutionPartner(c); err != nil {
		t.Fatalf("LoginSolutionPartner error: %v", err)
	}
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestLoginDealerCarriesDealerScope(t *testing.T) {
	initTestJWT(t)
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "dealer_users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "dealer_id", "email", "password", "status"}).
			AddRow("du-1", "d-1", "staff@example.com", hashFor(t, "correct-horse"), true))
	mock.ExpectQuery(`SELECT \* FROM "dealers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "admin_approval"}).
			AddRow("d-1", true, true))

	body := `{"email":"staff@example.com","password":"correct-horse"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/dealer/login", body, nil)

	if err := LoginDealer(c); err != nil {
		t.Fatalf("LoginDealer error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data := resp["data"].(map[string]interface{})
	claims, err := jwtutil.ValidateToken(data["token"].(string))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.DealerID == nil || *claims.DealerID != "d-1" {
		t.Fatalf("expected dealer scope in claims, got %#v", claims)
	}
}
