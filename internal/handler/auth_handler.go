package handler

import (
	"net/http"

	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/jwtutil"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest is the credential payload shared by every audience
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// credential is the subset of an account row login needs, regardless of
// which account table it came from.
type credential struct {
	ID       string
	Email    string
	Password string
	Status   bool
	Claims   *jwtutil.UserClaims
}

// LoginAdmin authenticates against the admins table
func LoginAdmin(c echo.Context) error {
	return login(c, "admin", func(email string) (*credential, error) {
		admin, err := repository.New[model.Admin](database.GetDB(), "admins").
			First(map[string]interface{}{"email": email})
		if err != nil || admin == nil {
			return nil, err
		}
		return &credential{
			ID:       admin.ID,
			Email:    admin.Email,
			Password: admin.Password,
			Status:   admin.Status,
			Claims:   &jwtutil.UserClaims{Email: admin.Email, UserID: admin.ID, Role: "admin"},
		}, nil
	})
}

// LoginDealer authenticates against the dealer_users table. The dealer
// itself must be approved before its staff can sign in.
func LoginDealer(c echo.Context) error {
	return login(c, "dealer", func(email string) (*credential, error) {
		staff, err := repository.New[model.DealerUser](database.GetDB(), "dealer_users").
			First(map[string]interface{}{"email": email})
		if err != nil || staff == nil {
			return nil, err
		}

		dealer, err := repository.New[model.Dealer](database.GetDB(), "dealers").FindID(staff.DealerID)
		if err != nil {
			return nil, err
		}
		approved := dealer != nil && dealer.Status && dealer.AdminApproval

		dealerID := staff.DealerID
		return &credential{
			ID:       staff.ID,
			Email:    staff.Email,
			Password: staff.Password,
			Status:   staff.Status && approved,
			Claims:   &jwtutil.UserClaims{Email: staff.Email, UserID: staff.ID, Role: "dealer_user", DealerID: &dealerID},
		}, nil
	})
}

// LoginSolutionPartner authenticates against the solution_partners table
func LoginSolutionPartner(c echo.Context) error {
	return login(c, "solution_partner", func(email string) (*credential, error) {
		partner, err := repository.New[model.SolutionPartner](database.GetDB(), "solution_partners").
			First(map[string]interface{}{"email": email})
		if err != nil || partner == nil {
			return nil, err
		}
		partnerID := partner.ID
		return &credential{
			ID:       partner.ID,
			Email:    partner.Email,
			Password: partner.Password,
			Status:   partner.Status && partner.AdminApproval,
			Claims:   &jwtutil.UserClaims{Email: partner.Email, UserID: partner.ID, Role: "solution_partner", SolutionPartnerID: &partnerID},
		}, nil
	})
}

// LoginSalesPartner authenticates against the sales_partners table
func LoginSalesPartner(c echo.Context) error {
	return login(c, "sales_partner", func(email string) (*credential, error) {
		partner, err := repository.New[model.SalesPartner](database.GetDB(), "sales_partners").
			First(map[string]interface{}{"email": email})
		if err != nil || partner == nil {
			return nil, err
		}
		partnerID := partner.ID
		return &credential{
			ID:       partner.ID,
			Email:    partner.Email,
			Password: partner.Password,
			Status:   partner.Status && partner.AdminApproval,
			Claims:   &jwtutil.UserClaims{Email: partner.Email, UserID: partner.ID, Role: "sales_partner", SalesPartnerID: &partnerID},
		}, nil
	})
}

// login is the audience-independent credential check. All failure modes
// produce the same response so the endpoint does not leak which accounts
// exist.
func login(c echo.Context, audience string, lookup func(email string) (*credential, error)) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.WithLabelValues(audience).Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cred, err := lookup(req.Email)
	if err != nil {
		log.Error("Failed credential lookup", zap.String("audience", audience), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Login failed")
	}
	if cred == nil {
		prometheus.RecordAuthError("unknown_account")
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if !cred.Status {
		prometheus.RecordAuthError("inactive_account")
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(req.Password)); err != nil {
		prometheus.RecordAuthError("bad_password")
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := jwtutil.GenerateToken(cred.Claims)
	if err != nil {
		log.Error("Failed to sign token", zap.String("audience", audience), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Login failed")
	}

	log.Info("Login succeeded", zap.String("audience", audience), zap.String("user_id", cred.ID))

	return success(c, http.StatusOK, "Login successful", echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    cred.ID,
			"email": cred.Email,
			"role":  cred.Claims.Role,
		},
	})
}

// Me returns the authenticated caller's claims
func Me(c echo.Context) error {
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	return success(c, http.StatusOK, "Profile retrieved", claims)
}
