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

func commissionRepo() *repository.Repository[model.DealerCommission] {
	return repository.New[model.DealerCommission](database.GetDB(), "dealer_commissions")
}

// DealerCommissionCreateRequest defines the commission creation payload
type DealerCommissionCreateRequest struct {
	DealerID       string  `json:"dealer_id" validate:"required,uuid"`
	ProductType    string  `json:"product_type" validate:"required,oneof=hotel tour activity car_rental visa"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
}

// DealerCommissionUpdateRequest carries partial commission updates
type DealerCommissionUpdateRequest struct {
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	Status         *bool    `json:"status"`
}

// ListDealerCommissions returns the commission rows of one dealer
func ListDealerCommissions(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	dealerID := c.Param("id")

	if claims.DealerID != nil && *claims.DealerID != dealerID {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	commissions, err := commissionRepo().Where("dealer_id", dealerID)
	if err != nil {
		log.Error("Failed to list dealer commissions", zap.String("dealer_id", dealerID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve commissions")
	}

	return success(c, http.StatusOK, "Commissions retrieved", commissions)
}

// CreateDealerCommission adds a commission rate for one product type. A
// dealer carries at most one active row per product type.
func CreateDealerCommission(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	var req DealerCommissionCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dealerExists, err := dealerRepo().Exists(map[string]interface{}{"id": req.DealerID})
	if err != nil {
		log.Error("Failed to check commission dealer", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Commission creation failed")
	}
	if !dealerExists {
		return fail(c, http.StatusBadRequest, "Dealer not found")
	}

	duplicate, err := commissionRepo().Exists(map[string]interface{}{
		"dealer_id":    req.DealerID,
		"product_type": req.ProductType,
	})
	if err != nil {
		log.Error("Failed to check commission uniqueness", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Commission creation failed")
	}
	if duplicate {
		return fail(c, http.StatusBadRequest, "Commission for this product type already exists")
	}

	commission := model.DealerCommission{
		DealerID:       req.DealerID,
		ProductType:    req.ProductType,
		CommissionRate: req.CommissionRate,
		Status:         true,
	}
	if err := commissionRepo().Create(&commission); err != nil {
		log.Error("Failed to create dealer commission", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Commission creation failed")
	}

	prometheus.RecordEntityOperation("dealer_commissions", "create")
	audit.Write(claims, audit.ProcessCreate, "dealer_commissions", commission)

	return success(c, http.StatusCreated, "Commission created", commission)
}

// UpdateDealerCommission merges supplied fields into one commission row
func UpdateDealerCommission(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	var req DealerCommissionUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := commissionRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load dealer commission", zap.String("commission_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Commission update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Commission not found")
	}

	fields := map[string]interface{}{}
	if req.CommissionRate != nil {
		fields["commission_rate"] = *req.CommissionRate
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	updated := existing
	if len(fields) > 0 {
		updated, err = repo.Update(id, fields)
		if err != nil {
			log.Error("Failed to update dealer commission", zap.String("commission_id", id), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Commission update failed")
		}
	}

	prometheus.RecordEntityOperation("dealer_commissions", "update")
	audit.Write(claims, audit.ProcessUpdate, "dealer_commissions", updated)

	return success(c, http.StatusOK, "Commission updated", updated)
}

// DeleteDealerCommission soft-deletes one commission row
func DeleteDealerCommission(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := commissionRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load dealer commission", zap.String("commission_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Commission deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Commission not found")
	}

	if err := repo.Delete(id); err != nil {
		log.Error("Failed to delete dealer commission", zap.String("commission_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Commission deletion failed")
	}

	prometheus.RecordEntityOperation("dealer_commissions", "delete")
	audit.Write(claims, audit.ProcessDelete, "dealer_commissions", existing)

	return success(c, http.StatusOK, "Commission deleted", nil)
}
