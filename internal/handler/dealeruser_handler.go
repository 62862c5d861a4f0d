package handler

import (
	"net/http"

	"booking-service/internal/audit"
	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func dealerUserRepo() *repository.Repository[model.DealerUser] {
	return repository.New[model.DealerUser](database.GetDB(), "dealer_users")
}

// DealerUserCreateRequest defines the staff account creation payload
type DealerUserCreateRequest struct {
	NameSurname string `json:"name_surname" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Password    string `json:"password" validate:"required,min=8"`
}

// DealerUserUpdateRequest carries partial staff account updates
type DealerUserUpdateRequest struct {
	NameSurname *string `json:"name_surname"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	Status      *bool   `json:"status"`
}

// dealerScope resolves which dealer the caller may manage staff for. Dealer
// staff are pinned to their own dealer; admins pass the path parameter through.
func dealerScope(c echo.Context) (string, bool) {
	claims, ok := currentUser(c)
	if !ok {
		return "", false
	}
	if claims.DealerID != nil {
		return *claims.DealerID, true
	}
	return c.Param("id"), true
}

// ListDealerUsers returns the staff accounts of one dealer
func ListDealerUsers(c echo.Context) error {
	log := logger.FromContext(c)
	dealerID, ok := dealerScope(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	users, err := dealerUserRepo().Where("dealer_id", dealerID)
	if err != nil {
		log.Error("Failed to list dealer users", zap.String("dealer_id", dealerID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve dealer users")
	}

	return success(c, http.StatusOK, "Dealer users retrieved", users)
}

// CreateDealerUser adds a staff account under an existing dealer
func CreateDealerUser(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	dealerID, _ := dealerScope(c)

	var req DealerUserCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dealerExists, err := dealerRepo().Exists(map[string]interface{}{"id": dealerID})
	if err != nil {
		log.Error("Failed to check dealer", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer user creation failed")
	}
	if !dealerExists {
		return fail(c, http.StatusBadRequest, "Dealer not found")
	}

	duplicate, err := dealerUserRepo().Exists(map[string]interface{}{"email": req.Email})
	if err != nil {
		log.Error("Failed to check dealer user email", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer user creation failed")
	}
	if duplicate {
		return fail(c, http.StatusBadRequest, "Email already exists")
	}

	user := model.DealerUser{
		DealerID:    dealerID,
		NameSurname: req.NameSurname,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Status:      true,
	}
	if err := dealerUserRepo().Create(&user); err != nil {
		log.Error("Failed to create dealer user", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer user creation failed")
	}

	prometheus.RecordEntityOperation("dealer_users", "create")
	audit.Write(claims, audit.ProcessCreate, "dealer_users", user)

	return success(c, http.StatusCreated, "Dealer user created", user)
}

// UpdateDealerUser merges supplied fields into one staff account. A supplied
// password is re-hashed by the accessor.
func UpdateDealerUser(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	dealerID, _ := dealerScope(c)
	userID := c.Param("user_id")

	var req DealerUserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := dealerUserRepo()

	existing, err := repo.First(map[string]interface{}{"id": userID, "dealer_id": dealerID})
	if err != nil {
		log.Error("Failed to load dealer user", zap.String("user_id", userID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer user update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Dealer user not found")
	}

	if req.Email != nil {
		duplicate, err := repo.Exists(
			map[string]interface{}{"email": *req.Email},
			map[string]interface{}{"id": userID},
		)
		if err != nil {
			log.Error("Failed to check dealer user email", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Dealer user update failed")
		}
		if duplicate {
			return fail(c, http.StatusBadRequest, "Email already exists")
		}
	}

	fields := map[string]interface{}{}
	if req.NameSurname != nil {
		fields["name_surname"] = *req.NameSurname
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Password != nil {
		fields["password"] = *req.Password
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	updated := existing
	if len(fields) > 0 {
		updated, err = repo.Update(userID, fields)
		if err != nil {
			log.Error("Failed to update dealer user", zap.String("user_id", userID), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Dealer user update failed")
		}
	}

	prometheus.RecordEntityOperation("dealer_users", "update")
	audit.Write(claims, audit.ProcessUpdate, "dealer_users", updated)

	return success(c, http.StatusOK, "Dealer user updated", updated)
}

// DeleteDealerUser soft-deletes one staff account
func DeleteDealerUser(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	dealerID, _ := dealerScope(c)
	userID := c.Param("user_id")

	repo := dealerUserRepo()

	existing, err := repo.First(map[string]interface{}{"id": userID, "dealer_id": dealerID})
	if err != nil {
		log.Error("Failed to load dealer user", zap.String("user_id", userID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer user deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Dealer user not found")
	}

	if err := repo.Delete(userID); err != nil {
		log.Error("Failed to delete dealer user", zap.String("user_id", userID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer user deletion failed")
	}

	prometheus.RecordEntityOperation("dealer_users", "delete")
	audit.Write(claims, audit.ProcessDelete, "dealer_users", existing)

	return success(c, http.StatusOK, "Dealer user deleted", nil)
}
