package handler

import (
	"net/http"

	"booking-service/internal/audit"
	"booking-service/internal/middleware"
	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DealerCreateRequest defines the dealer creation payload
type DealerCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone"`
	TaxNumber    string  `json:"tax_number"`
	TaxOffice    string  `json:"tax_office"`
	Address      string  `json:"address"`
	CityID       string  `json:"city_id" validate:"required,uuid"`
	DistrictID   string  `json:"district_id" validate:"required,uuid"`
	BalanceLimit float64 `json:"balance_limit"`
}

// DealerUpdateRequest carries partial dealer updates; nil fields keep their
// prior value.
type DealerUpdateRequest struct {
	Name         *string  `json:"name"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Phone        *string  `json:"phone"`
	TaxNumber    *string  `json:"tax_number"`
	TaxOffice    *string  `json:"tax_office"`
	Address      *string  `json:"address"`
	CityID       *string  `json:"city_id" validate:"omitempty,uuid"`
	DistrictID   *string  `json:"district_id" validate:"omitempty,uuid"`
	BalanceLimit *float64 `json:"balance_limit"`
	Status       *bool    `json:"status"`
}

func dealerRepo() *repository.Repository[model.Dealer] {
	return repository.New[model.Dealer](database.GetDB(), "dealers")
}

// FindAllDealers lists dealers with pagination, search and status filter
func FindAllDealers(c echo.Context) error {
	log := logger.FromContext(c)
	q := parseListQuery(c)

	filter := func(db *gorm.DB) *gorm.DB {
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("status = ?", q.Search == "true")
		} else if q.Search != "" {
			term := "%" + q.Search + "%"
			db = db.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", term, term, term)
		}
		if status := c.QueryParam("status"); status != "" {
			db = db.Where("status = ?", status == "true")
		}
		if approval := c.QueryParam("admin_approval"); approval != "" {
			db = db.Where("admin_approval = ?", approval == "true")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Dealer{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count dealers", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve dealers")
	}

	var dealers []model.Dealer
	err := database.GetDB().Model(&model.Dealer{}).Scopes(filter).
		Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&dealers).Error
	if err != nil {
		log.Error("Failed to list dealers", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve dealers")
	}

	return paginated(c, "Dealers retrieved", dealers, total, q)
}

// FindOneDealer returns a dealer with its resolved city and district names
func FindOneDealer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	language := middleware.Language(c)

	dealer, err := dealerRepo().FindID(id)
	if err != nil {
		log.Error("Failed to load dealer", zap.String("dealer_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve dealer")
	}
	if dealer == nil {
		return fail(c, http.StatusNotFound, "Dealer not found")
	}

	response := echo.Map{"dealer": dealer}

	cityPivot, err := repository.New[model.CityPivot](database.GetDB(), "city_pivots").
		First(map[string]interface{}{"city_id": dealer.CityID, "language_code": language})
	if err != nil {
		log.Error("Failed to resolve dealer city", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve dealer")
	}
	if cityPivot != nil {
		response["city_name"] = cityPivot.Name
	}

	district, err := repository.New[model.District](database.GetDB(), "districts").FindID(dealer.DistrictID)
	if err != nil {
		log.Error("Failed to resolve dealer district", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve dealer")
	}
	if district != nil {
		response["district_name"] = district.Name
	}

	return success(c, http.StatusOK, "Dealer retrieved", response)
}

// CreateDealer creates a dealer after uniqueness and foreign-key checks
func CreateDealer(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	var req DealerCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse dealer creation request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := dealerRepo()

	nameTaken, err := repo.Exists(map[string]interface{}{"name": req.Name})
	if err != nil {
		log.Error("Failed to check dealer name", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer creation failed")
	}
	if nameTaken {
		return fail(c, http.StatusBadRequest, "Dealer name already exists")
	}

	cityExists, err := repository.New[model.City](database.GetDB(), "cities").
		Exists(map[string]interface{}{"id": req.CityID})
	if err != nil {
		log.Error("Failed to check city", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer creation failed")
	}
	if !cityExists {
		return fail(c, http.StatusBadRequest, "City not found")
	}

	districtExists, err := repository.New[model.District](database.GetDB(), "districts").
		Exists(map[string]interface{}{"id": req.DistrictID, "city_id": req.CityID})
	if err != nil {
		log.Error("Failed to check district", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer creation failed")
	}
	if !districtExists {
		return fail(c, http.StatusBadRequest, "District not found")
	}

	dealer := model.Dealer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		TaxNumber:    req.TaxNumber,
		TaxOffice:    req.TaxOffice,
		Address:      req.Address,
		CityID:       req.CityID,
		DistrictID:   req.DistrictID,
		BalanceLimit: req.BalanceLimit,
		Status:       true,
	}

	if err := repo.Create(&dealer); err != nil {
		log.Error("Failed to create dealer", zap.String("name", req.Name), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer creation failed")
	}

	prometheus.RecordEntityOperation("dealers", "create")
	audit.Write(claims, audit.ProcessCreate, "dealers", dealer)

	log.Info("Dealer created", zap.String("dealer_id", dealer.ID), zap.String("name", dealer.Name))
	return success(c, http.StatusCreated, "Dealer created", dealer)
}

// UpdateDealer merges supplied fields over the existing dealer
func UpdateDealer(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	var req DealerUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse dealer update request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := dealerRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load dealer", zap.String("dealer_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Dealer not found")
	}

	if req.Name != nil {
		nameTaken, err := repo.Exists(
			map[string]interface{}{"name": *req.Name},
			map[string]interface{}{"id": id},
		)
		if err != nil {
			log.Error("Failed to check dealer name", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Dealer update failed")
		}
		if nameTaken {
			return fail(c, http.StatusBadRequest, "Dealer name already exists")
		}
	}

	if req.CityID != nil {
		cityExists, err := repository.New[model.City](database.GetDB(), "cities").
			Exists(map[string]interface{}{"id": *req.CityID})
		if err != nil {
			log.Error("Failed to check city", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Dealer update failed")
		}
		if !cityExists {
			return fail(c, http.StatusBadRequest, "City not found")
		}
	}

	if req.DistrictID != nil {
		districtExists, err := repository.New[model.District](database.GetDB(), "districts").
			Exists(map[string]interface{}{"id": *req.DistrictID})
		if err != nil {
			log.Error("Failed to check district", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Dealer update failed")
		}
		if !districtExists {
			return fail(c, http.StatusBadRequest, "District not found")
		}
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.TaxNumber != nil {
		fields["tax_number"] = *req.TaxNumber
	}
	if req.TaxOffice != nil {
		fields["tax_office"] = *req.TaxOffice
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.CityID != nil {
		fields["city_id"] = *req.CityID
	}
	if req.DistrictID != nil {
		fields["district_id"] = *req.DistrictID
	}
	if req.BalanceLimit != nil {
		fields["balance_limit"] = *req.BalanceLimit
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	updated, err := repo.Update(id, fields)
	if err != nil {
		log.Error("Failed to update dealer", zap.String("dealer_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer update failed")
	}

	prometheus.RecordEntityOperation("dealers", "update")
	audit.Write(claims, audit.ProcessUpdate, "dealers", updated)

	return success(c, http.StatusOK, "Dealer updated", updated)
}

// DeleteDealer soft-deletes a dealer and cascades to its staff accounts
func DeleteDealer(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := dealerRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load dealer", zap.String("dealer_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Dealer not found")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return tx.Where("dealer_id = ?", id).Delete(&model.DealerUser{}).Error
	})
	if err != nil {
		log.Error("Failed to delete dealer", zap.String("dealer_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Dealer deletion failed")
	}

	prometheus.RecordEntityOperation("dealers", "delete")
	audit.Write(claims, audit.ProcessDelete, "dealers", existing)

	log.Info("Dealer deleted", zap.String("dealer_id", id))
	return success(c, http.StatusOK, "Dealer deleted", nil)
}
