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

// CarRentalCreateRequest defines the car rental creation payload
type CarRentalCreateRequest struct {
	LocationID   string `json:"location_id" validate:"required,uuid"`
	CarType      string `json:"car_type" validate:"required"`
	GearType     string `json:"gear_type" validate:"omitempty,oneof=manual automatic"`
	SeatCount    int    `json:"seat_count" validate:"omitempty,gte=1"`
	Title        string `json:"title" validate:"required"`
	GeneralInfo  string `json:"general_info"`
	RefundPolicy string `json:"refund_policy"`
}

// CarRentalUpdateRequest carries partial car rental updates
type CarRentalUpdateRequest struct {
	LocationID   *string `json:"location_id" validate:"omitempty,uuid"`
	CarType      *string `json:"car_type"`
	GearType     *string `json:"gear_type" validate:"omitempty,oneof=manual automatic"`
	SeatCount    *int    `json:"seat_count" validate:"omitempty,gte=1"`
	Highlight    *bool   `json:"highlight"`
	Title        *string `json:"title"`
	GeneralInfo  *string `json:"general_info"`
	RefundPolicy *string `json:"refund_policy"`
}

func carRentalRepo() *repository.Repository[model.CarRental] {
	return repository.New[model.CarRental](database.GetDB(), "car_rentals")
}

// FindAllCarRentals lists car rentals with the request language's translation
func FindAllCarRentals(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN car_rental_pivots ON car_rental_pivots.car_rental_id = car_rentals.id AND car_rental_pivots.language_code = ? AND car_rental_pivots.deleted_at IS NULL", language)
		if scope := partnerID(claims); scope != "" {
			db = db.Where("car_rentals.solution_partner_id = ?", scope)
		}
		if locationID := c.QueryParam("location_id"); locationID != "" {
			db = db.Where("car_rentals.location_id = ?", locationID)
		}
		if carType := c.QueryParam("car_type"); carType != "" {
			db = db.Where("car_rentals.car_type = ?", carType)
		}
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("car_rentals.status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("car_rental_pivots.title ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.CarRental{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count car rentals", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve car rentals")
	}

	var rentals []map[string]interface{}
	err := database.GetDB().Model(&model.CarRental{}).Scopes(filter).
		Select("car_rentals.*, car_rental_pivots.title, car_rental_pivots.general_info").
		Order("car_rentals.created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&rentals).Error
	if err != nil {
		log.Error("Failed to list car rentals", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve car rentals")
	}

	return paginated(c, "Car rentals retrieved", rentals, total, q)
}

// FindOneCarRental returns one car rental with its translation
func FindOneCarRental(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	language := middleware.Language(c)

	rental, err := carRentalRepo().FindID(id)
	if err != nil {
		log.Error("Failed to load car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve car rental")
	}
	if rental == nil {
		return fail(c, http.StatusNotFound, "Car rental not found")
	}

	pivot, err := repository.New[model.CarRentalPivot](database.GetDB(), "car_rental_pivots").
		First(map[string]interface{}{"car_rental_id": id, "language_code": language})
	if err != nil {
		log.Error("Failed to load car rental translation", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve car rental")
	}

	return success(c, http.StatusOK, "Car rental retrieved", echo.Map{
		"car_rental":  rental,
		"translation": pivot,
	})
}

// CreateCarRental creates the base row and its pivot in one transaction
func CreateCarRental(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	if claims.SolutionPartnerID == nil {
		return fail(c, http.StatusBadRequest, "Solution partner context required")
	}
	language := middleware.Language(c)

	var req CarRentalCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse car rental creation request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	locationExists, err := repository.New[model.City](database.GetDB(), "cities").
		Exists(map[string]interface{}{"id": req.LocationID})
	if err != nil {
		log.Error("Failed to check car rental location", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental creation failed")
	}
	if !locationExists {
		return fail(c, http.StatusBadRequest, "Location not found")
	}

	rental := model.CarRental{
		SolutionPartnerID: *claims.SolutionPartnerID,
		LocationID:        req.LocationID,
		CarType:           req.CarType,
		GearType:          req.GearType,
		SeatCount:         req.SeatCount,
	}
	if rental.SeatCount == 0 {
		rental.SeatCount = 5
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := carRentalRepo().WithTx(tx).Create(&rental); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "car_rental_pivots",
			TargetKey:    "car_rental_id",
			TargetID:     rental.ID,
			LanguageCode: language,
			Data: map[string]interface{}{
				"title":         req.Title,
				"general_info":  req.GeneralInfo,
				"refund_policy": req.RefundPolicy,
			},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create car rental", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental creation failed")
	}

	prometheus.RecordEntityOperation("car_rentals", "create")
	audit.Write(claims, audit.ProcessCreate, "car_rentals", rental)

	return success(c, http.StatusCreated, "Car rental created", rental)
}

// UpdateCarRental merges supplied fields and resets approval state
func UpdateCarRental(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req CarRentalUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse car rental update request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := carRentalRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Car rental not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	fields := map[string]interface{}{}
	if req.LocationID != nil {
		fields["location_id"] = *req.LocationID
	}
	if req.CarType != nil {
		fields["car_type"] = *req.CarType
	}
	if req.GearType != nil {
		fields["gear_type"] = *req.GearType
	}
	if req.SeatCount != nil {
		fields["seat_count"] = *req.SeatCount
	}
	if req.Highlight != nil {
		fields["highlight"] = *req.Highlight
	}

	translation := map[string]interface{}{}
	if req.Title != nil {
		translation["title"] = *req.Title
	}
	if req.GeneralInfo != nil {
		translation["general_info"] = *req.GeneralInfo
	}
	if req.RefundPolicy != nil {
		translation["refund_policy"] = *req.RefundPolicy
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			fields["status"] = false
			fields["admin_approval"] = false
			if _, err := repo.WithTx(tx).Update(id, fields); err != nil {
				return err
			}
		}
		if len(translation) > 0 {
			return repository.TranslateUpdate(tx, repository.TranslateParams{
				Table:        "car_rental_pivots",
				TargetKey:    "car_rental_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         translation,
			})
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental update failed")
	}

	updated, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to reload car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental update failed")
	}

	prometheus.RecordEntityOperation("car_rentals", "update")
	audit.Write(claims, audit.ProcessUpdate, "car_rentals", updated)

	return success(c, http.StatusOK, "Car rental updated", updated)
}

// DeleteCarRental soft-deletes the base row and its pivots
func DeleteCarRental(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := carRentalRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Car rental not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return repository.TranslateDelete(tx, "car_rental_pivots", "car_rental_id", id)
	})
	if err != nil {
		log.Error("Failed to delete car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Car rental deletion failed")
	}

	prometheus.RecordEntityOperation("car_rentals", "delete")
	audit.Write(claims, audit.ProcessDelete, "car_rentals", existing)

	return success(c, http.StatusOK, "Car rental deleted", nil)
}

// SendCarRentalForApproval submits a car rental for review. Car rentals have
// no child tables, so the only readiness requirement is a translation row.
func SendCarRentalForApproval(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := carRentalRepo()

	rental, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load car rental", zap.String("car_rental_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}
	if rental == nil {
		return fail(c, http.StatusNotFound, "Car rental not found")
	}
	if scope := partnerID(claims); scope != "" && rental.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	translated, err := repository.New[model.CarRentalPivot](database.GetDB(), "car_rental_pivots").
		Exists(map[string]interface{}{"car_rental_id": id})
	if err != nil {
		log.Error("Failed readiness check", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}

	checks := map[string]bool{"translation": translated}
	if translated {
		if _, err := repo.Update(id, map[string]interface{}{"status": true}); err != nil {
			log.Error("Failed to submit car rental for approval", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		rental.Status = true
		prometheus.ApprovalSubmissionCounter.WithLabelValues("car_rental", "accepted").Inc()
		audit.Write(claims, audit.ProcessUpdate, "car_rentals", rental)
	} else {
		prometheus.ApprovalSubmissionCounter.WithLabelValues("car_rental", "incomplete").Inc()
	}

	return success(c, http.StatusOK, "Approval check completed", echo.Map{
		"checks":    checks,
		"completed": translated,
		"status":    rental.Status,
	})
}

// ApproveCarRental is the admin review decision for a car rental
func ApproveCarRental(c echo.Context) error {
	return reviewListing(c, "car_rentals", "Car rental")
}
