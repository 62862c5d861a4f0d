package handler

import (
	"net/http"
	"time"

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

// TourCreateRequest defines the tour creation payload
type TourCreateRequest struct {
	NightCount   int    `json:"night_count" validate:"gte=0"`
	DayCount     int    `json:"day_count" validate:"gte=1"`
	Refundable   bool   `json:"refundable"`
	Title        string `json:"title" validate:"required"`
	GeneralInfo  string `json:"general_info"`
	TourProgram  string `json:"tour_program"`
	RefundPolicy string `json:"refund_policy"`
}

// TourUpdateRequest carries partial tour updates
type TourUpdateRequest struct {
	NightCount   *int    `json:"night_count" validate:"omitempty,gte=0"`
	DayCount     *int    `json:"day_count" validate:"omitempty,gte=1"`
	Refundable   *bool   `json:"refundable"`
	Highlight    *bool   `json:"highlight"`
	Title        *string `json:"title"`
	GeneralInfo  *string `json:"general_info"`
	TourProgram  *string `json:"tour_program"`
	RefundPolicy *string `json:"refund_policy"`
}

func tourRepo() *repository.Repository[model.Tour] {
	return repository.New[model.Tour](database.GetDB(), "tours")
}

func resetTourApproval(tx *gorm.DB, tourID string) error {
	return tx.Model(&model.Tour{}).Where("id = ?", tourID).
		Updates(map[string]interface{}{"status": false, "admin_approval": false}).Error
}

// FindAllTours lists tours joined to the request language's pivot row
func FindAllTours(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN tour_pivots ON tour_pivots.tour_id = tours.id AND tour_pivots.language_code = ? AND tour_pivots.deleted_at IS NULL", language)
		if scope := partnerID(claims); scope != "" {
			db = db.Where("tours.solution_partner_id = ?", scope)
		}
		if status := c.QueryParam("status"); status != "" {
			db = db.Where("tours.status = ?", status == "true")
		}
		if approval := c.QueryParam("admin_approval"); approval != "" {
			db = db.Where("tours.admin_approval = ?", approval == "true")
		}
		if highlight := c.QueryParam("highlight"); highlight != "" {
			db = db.Where("tours.highlight = ?", highlight == "true")
		}
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("tours.status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("tour_pivots.title ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Tour{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count tours", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve tours")
	}

	var tours []map[string]interface{}
	err := database.GetDB().Model(&model.Tour{}).Scopes(filter).
		Select("tours.*, tour_pivots.title, tour_pivots.general_info").
		Order("tours.created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&tours).Error
	if err != nil {
		log.Error("Failed to list tours", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve tours")
	}

	return paginated(c, "Tours retrieved", tours, total, q)
}

// FindOneTour returns a tour with its translation, packages and galleries
func FindOneTour(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	language := middleware.Language(c)

	tour, err := tourRepo().FindID(id)
	if err != nil {
		log.Error("Failed to load tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve tour")
	}
	if tour == nil {
		return fail(c, http.StatusNotFound, "Tour not found")
	}

	pivot, err := repository.New[model.TourPivot](database.GetDB(), "tour_pivots").
		First(map[string]interface{}{"tour_id": id, "language_code": language})
	if err != nil {
		log.Error("Failed to load tour translation", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve tour")
	}

	packages, err := repository.New[model.TourPackage](database.GetDB(), "tour_packages").Where("tour_id", id)
	if err != nil {
		log.Error("Failed to load tour packages", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve tour")
	}
	galleries, err := repository.New[model.TourGallery](database.GetDB(), "tour_galleries").Where("tour_id", id)
	if err != nil {
		log.Error("Failed to load tour galleries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve tour")
	}

	return success(c, http.StatusOK, "Tour retrieved", echo.Map{
		"tour":        tour,
		"translation": pivot,
		"packages":    packages,
		"galleries":   galleries,
	})
}

// CreateTour creates a tour and its pivot row in one transaction
func CreateTour(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	if claims.SolutionPartnerID == nil {
		return fail(c, http.StatusBadRequest, "Solution partner context required")
	}
	language := middleware.Language(c)

	var req TourCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tour creation request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tour := model.Tour{
		SolutionPartnerID: *claims.SolutionPartnerID,
		NightCount:        req.NightCount,
		DayCount:          req.DayCount,
		Refundable:        req.Refundable,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tourRepo().WithTx(tx).Create(&tour); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "tour_pivots",
			TargetKey:    "tour_id",
			TargetID:     tour.ID,
			LanguageCode: language,
			Data: map[string]interface{}{
				"title":         req.Title,
				"general_info":  req.GeneralInfo,
				"tour_program":  req.TourProgram,
				"refund_policy": req.RefundPolicy,
			},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create tour", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Tour creation failed")
	}

	prometheus.RecordEntityOperation("tours", "create")
	audit.Write(claims, audit.ProcessCreate, "tours", tour)

	log.Info("Tour created", zap.String("tour_id", tour.ID))
	return success(c, http.StatusCreated, "Tour created", tour)
}

// UpdateTour merges supplied fields and updates the language pivot
func UpdateTour(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req TourUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tour update request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := tourRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Tour update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Tour not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	fields := map[string]interface{}{}
	if req.NightCount != nil {
		fields["night_count"] = *req.NightCount
	}
	if req.DayCount != nil {
		fields["day_count"] = *req.DayCount
	}
	if req.Refundable != nil {
		fields["refundable"] = *req.Refundable
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
	if req.TourProgram != nil {
		translation["tour_program"] = *req.TourProgram
	}
	if req.RefundPolicy != nil {
		translation["refund_policy"] = *req.RefundPolicy
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if _, err := repo.WithTx(tx).Update(id, fields); err != nil {
				return err
			}
		}
		if len(translation) > 0 {
			return repository.TranslateUpdate(tx, repository.TranslateParams{
				Table:        "tour_pivots",
				TargetKey:    "tour_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         translation,
			})
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Tour update failed")
	}

	updated, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to reload tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Tour update failed")
	}

	prometheus.RecordEntityOperation("tours", "update")
	audit.Write(claims, audit.ProcessUpdate, "tours", updated)

	return success(c, http.StatusOK, "Tour updated", updated)
}

// DeleteTour soft-deletes a tour, cascading to pivots, packages and galleries
func DeleteTour(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := tourRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Tour deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Tour not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		if err := repository.TranslateDelete(tx, "tour_pivots", "tour_id", id); err != nil {
			return err
		}
		if err := tx.Where("tour_id = ?", id).Delete(&model.TourPackage{}).Error; err != nil {
			return err
		}
		return tx.Where("tour_id = ?", id).Delete(&model.TourGallery{}).Error
	})
	if err != nil {
		log.Error("Failed to delete tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Tour deletion failed")
	}

	prometheus.RecordEntityOperation("tours", "delete")
	audit.Write(claims, audit.ProcessDelete, "tours", existing)

	return success(c, http.StatusOK, "Tour deleted", nil)
}

// TourPackageCreateRequest defines the package creation payload
type TourPackageCreateRequest struct {
	Price         float64   `json:"price" validate:"required,gt=0"`
	CurrencyCode  string    `json:"currency_code" validate:"omitempty,len=3"`
	DepartureDate time.Time `json:"departure_date" validate:"required"`
	Quota         int       `json:"quota" validate:"gte=0"`
}

// CreateTourPackage adds a departure and resets the tour's approval state
func CreateTourPackage(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	tourID := c.Param("id")

	var req TourPackageCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tour, err := tourRepo().FindID(tourID)
	if err != nil {
		log.Error("Failed to load tour", zap.String("tour_id", tourID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Package creation failed")
	}
	if tour == nil {
		return fail(c, http.StatusNotFound, "Tour not found")
	}
	if scope := partnerID(claims); scope != "" && tour.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	pkg := model.TourPackage{
		TourID:        tourID,
		Price:         req.Price,
		CurrencyCode:  req.CurrencyCode,
		DepartureDate: req.DepartureDate,
		Quota:         req.Quota,
		Status:        true,
	}
	if pkg.CurrencyCode == "" {
		pkg.CurrencyCode = "USD"
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.TourPackage](tx, "tour_packages").Create(&pkg); err != nil {
			return err
		}
		return resetTourApproval(tx, tourID)
	})
	if err != nil {
		log.Error("Failed to create tour package", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Package creation failed")
	}

	prometheus.RecordEntityOperation("tour_packages", "create")
	audit.Write(claims, audit.ProcessCreate, "tour_packages", pkg)

	return success(c, http.StatusCreated, "Package created", pkg)
}

// AdjustTourPackageQuota atomically adjusts the remaining quota of a package
func AdjustTourPackageQuota(c echo.Context) error {
	log := logger.FromContext(c)
	packageID := c.Param("package_id")

	var req struct {
		Amount int `json:"amount" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := repository.New[model.TourPackage](database.GetDB(), "tour_packages")

	pkg, err := repo.FindID(packageID)
	if err != nil {
		log.Error("Failed to load tour package", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Quota adjustment failed")
	}
	if pkg == nil {
		return fail(c, http.StatusNotFound, "Package not found")
	}

	if req.Amount >= 0 {
		err = repo.Increment(packageID, "quota", req.Amount)
	} else {
		err = repo.Decrement(packageID, "quota", -req.Amount)
	}
	if err != nil {
		log.Error("Failed to adjust package quota", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Quota adjustment failed")
	}

	updated, err := repo.FindID(packageID)
	if err != nil {
		log.Error("Failed to reload tour package", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Quota adjustment failed")
	}
	return success(c, http.StatusOK, "Quota adjusted", updated)
}

// SendTourForApproval verifies completeness and submits the tour for review
func SendTourForApproval(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := tourRepo()

	tour, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load tour", zap.String("tour_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}
	if tour == nil {
		return fail(c, http.StatusNotFound, "Tour not found")
	}
	if scope := partnerID(claims); scope != "" && tour.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	checks := map[string]bool{}
	for name, table := range map[string]string{
		"packages":  "tour_packages",
		"galleries": "tour_galleries",
	} {
		var count int64
		err := database.GetDB().Table(table).
			Where("tour_id = ?", id).Where("deleted_at IS NULL").
			Count(&count).Error
		if err != nil {
			log.Error("Failed readiness check", zap.String("check", name), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		checks[name] = count > 0
	}

	completed := checks["packages"] && checks["galleries"]
	if completed {
		if _, err := repo.Update(id, map[string]interface{}{"status": true}); err != nil {
			log.Error("Failed to submit tour for approval", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		tour.Status = true
		prometheus.ApprovalSubmissionCounter.WithLabelValues("tour", "accepted").Inc()
		audit.Write(claims, audit.ProcessUpdate, "tours", tour)
	} else {
		prometheus.ApprovalSubmissionCounter.WithLabelValues("tour", "incomplete").Inc()
	}

	return success(c, http.StatusOK, "Approval check completed", echo.Map{
		"checks":    checks,
		"completed": completed,
		"status":    tour.Status,
	})
}

// ApproveTour is the admin review decision for a tour
func ApproveTour(c echo.Context) error {
	return reviewListing(c, "tours", "Tour")
}
