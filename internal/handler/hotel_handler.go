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

// HotelCreateRequest defines the hotel creation payload. Text fields go to
// the pivot row for the request language.
type HotelCreateRequest struct {
	LocationID   string `json:"location_id" validate:"required,uuid"`
	StarRating   int    `json:"star_rating" validate:"gte=0,lte=5"`
	Refundable   bool   `json:"refundable"`
	Name         string `json:"name" validate:"required"`
	GeneralInfo  string `json:"general_info"`
	HotelInfo    string `json:"hotel_info"`
	RefundPolicy string `json:"refund_policy"`
}

// HotelUpdateRequest carries partial hotel updates.
type HotelUpdateRequest struct {
	LocationID   *string `json:"location_id" validate:"omitempty,uuid"`
	StarRating   *int    `json:"star_rating" validate:"omitempty,gte=0,lte=5"`
	Refundable   *bool   `json:"refundable"`
	Highlight    *bool   `json:"highlight"`
	Name         *string `json:"name"`
	GeneralInfo  *string `json:"general_info"`
	HotelInfo    *string `json:"hotel_info"`
	RefundPolicy *string `json:"refund_policy"`
}

func hotelRepo() *repository.Repository[model.Hotel] {
	return repository.New[model.Hotel](database.GetDB(), "hotels")
}

// resetHotelApproval flips a hotel back to draft after sub-resource edits,
// forcing re-review.
func resetHotelApproval(tx *gorm.DB, hotelID string) error {
	return tx.Model(&model.Hotel{}).Where("id = ?", hotelID).
		Updates(map[string]interface{}{"status": false, "admin_approval": false}).Error
}

// FindAllHotels lists hotels joined to the request language's pivot row
func FindAllHotels(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN hotel_pivots ON hotel_pivots.hotel_id = hotels.id AND hotel_pivots.language_code = ? AND hotel_pivots.deleted_at IS NULL", language)
		if scope := partnerID(claims); scope != "" {
			db = db.Where("hotels.solution_partner_id = ?", scope)
		}
		if locationID := c.QueryParam("location_id"); locationID != "" {
			db = db.Where("hotels.location_id = ?", locationID)
		}
		if status := c.QueryParam("status"); status != "" {
			db = db.Where("hotels.status = ?", status == "true")
		}
		if approval := c.QueryParam("admin_approval"); approval != "" {
			db = db.Where("hotels.admin_approval = ?", approval == "true")
		}
		if highlight := c.QueryParam("highlight"); highlight != "" {
			db = db.Where("hotels.highlight = ?", highlight == "true")
		}
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("hotels.status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("hotel_pivots.name ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Hotel{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count hotels", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotels")
	}

	var hotels []map[string]interface{}
	err := database.GetDB().Model(&model.Hotel{}).Scopes(filter).
		Select("hotels.*, hotel_pivots.name, hotel_pivots.general_info").
		Order("hotels.created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&hotels).Error
	if err != nil {
		log.Error("Failed to list hotels", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotels")
	}

	return paginated(c, "Hotels retrieved", hotels, total, q)
}

// FindOneHotel returns a hotel with its translation and child collections
func FindOneHotel(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	language := middleware.Language(c)

	hotel, err := hotelRepo().FindID(id)
	if err != nil {
		log.Error("Failed to load hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotel")
	}
	if hotel == nil {
		return fail(c, http.StatusNotFound, "Hotel not found")
	}

	// A missing pivot for the requested language yields a null translation,
	// not an error.
	pivot, err := repository.New[model.HotelPivot](database.GetDB(), "hotel_pivots").
		First(map[string]interface{}{"hotel_id": id, "language_code": language})
	if err != nil {
		log.Error("Failed to load hotel translation", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotel")
	}

	rooms, err := repository.New[model.HotelRoom](database.GetDB(), "hotel_rooms").Where("hotel_id", id)
	if err != nil {
		log.Error("Failed to load hotel rooms", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotel")
	}
	features, err := repository.New[model.HotelFeature](database.GetDB(), "hotel_features").Where("hotel_id", id)
	if err != nil {
		log.Error("Failed to load hotel features", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotel")
	}
	images, err := repository.New[model.HotelImage](database.GetDB(), "hotel_images").Where("hotel_id", id)
	if err != nil {
		log.Error("Failed to load hotel images", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotel")
	}
	galleries, err := repository.New[model.HotelGallery](database.GetDB(), "hotel_galleries").Where("hotel_id", id)
	if err != nil {
		log.Error("Failed to load hotel galleries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve hotel")
	}

	return success(c, http.StatusOK, "Hotel retrieved", echo.Map{
		"hotel":       hotel,
		"translation": pivot,
		"rooms":       rooms,
		"features":    features,
		"images":      images,
		"galleries":   galleries,
	})
}

// CreateHotel creates a hotel and its pivot row in one transaction
func CreateHotel(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	if claims.SolutionPartnerID == nil {
		return fail(c, http.StatusBadRequest, "Solution partner context required")
	}
	language := middleware.Language(c)

	var req HotelCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse hotel creation request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	locationExists, err := repository.New[model.City](database.GetDB(), "cities").
		Exists(map[string]interface{}{"id": req.LocationID})
	if err != nil {
		log.Error("Failed to check hotel location", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel creation failed")
	}
	if !locationExists {
		return fail(c, http.StatusBadRequest, "Location not found")
	}

	hotel := model.Hotel{
		SolutionPartnerID: *claims.SolutionPartnerID,
		LocationID:        req.LocationID,
		StarRating:        req.StarRating,
		Refundable:        req.Refundable,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := hotelRepo().WithTx(tx).Create(&hotel); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "hotel_pivots",
			TargetKey:    "hotel_id",
			TargetID:     hotel.ID,
			LanguageCode: language,
			Data: map[string]interface{}{
				"name":          req.Name,
				"general_info":  req.GeneralInfo,
				"hotel_info":    req.HotelInfo,
				"refund_policy": req.RefundPolicy,
			},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create hotel", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel creation failed")
	}

	prometheus.RecordEntityOperation("hotels", "create")
	audit.Write(claims, audit.ProcessCreate, "hotels", hotel)

	log.Info("Hotel created", zap.String("hotel_id", hotel.ID))
	return success(c, http.StatusCreated, "Hotel created", hotel)
}

// UpdateHotel merges supplied fields and updates the language pivot
func UpdateHotel(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req HotelUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse hotel update request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := hotelRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Hotel not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	if req.LocationID != nil {
		locationExists, err := repository.New[model.City](database.GetDB(), "cities").
			Exists(map[string]interface{}{"id": *req.LocationID})
		if err != nil {
			log.Error("Failed to check hotel location", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Hotel update failed")
		}
		if !locationExists {
			return fail(c, http.StatusBadRequest, "Location not found")
		}
	}

	fields := map[string]interface{}{}
	if req.LocationID != nil {
		fields["location_id"] = *req.LocationID
	}
	if req.StarRating != nil {
		fields["star_rating"] = *req.StarRating
	}
	if req.Refundable != nil {
		fields["refundable"] = *req.Refundable
	}
	if req.Highlight != nil {
		fields["highlight"] = *req.Highlight
	}

	translation := map[string]interface{}{}
	if req.Name != nil {
		translation["name"] = *req.Name
	}
	if req.GeneralInfo != nil {
		translation["general_info"] = *req.GeneralInfo
	}
	if req.HotelInfo != nil {
		translation["hotel_info"] = *req.HotelInfo
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
				Table:        "hotel_pivots",
				TargetKey:    "hotel_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         translation,
			})
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel update failed")
	}

	updated, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to reload hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel update failed")
	}

	prometheus.RecordEntityOperation("hotels", "update")
	audit.Write(claims, audit.ProcessUpdate, "hotels", updated)

	return success(c, http.StatusOK, "Hotel updated", updated)
}

// DeleteHotel soft-deletes a hotel and cascades to pivots and children
func DeleteHotel(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := hotelRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Hotel not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		if err := repository.TranslateDelete(tx, "hotel_pivots", "hotel_id", id); err != nil {
			return err
		}
		for _, child := range []interface{}{
			&model.HotelRoom{}, &model.HotelFeature{}, &model.HotelImage{}, &model.HotelGallery{},
		} {
			if err := tx.Where("hotel_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to delete hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel deletion failed")
	}

	prometheus.RecordEntityOperation("hotels", "delete")
	audit.Write(claims, audit.ProcessDelete, "hotels", existing)

	log.Info("Hotel deleted", zap.String("hotel_id", id))
	return success(c, http.StatusOK, "Hotel deleted", nil)
}

// SendHotelForApproval verifies listing completeness and submits for review.
// Every check result is returned regardless of the aggregate outcome.
func SendHotelForApproval(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := hotelRepo()

	hotel, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}
	if hotel == nil {
		return fail(c, http.StatusNotFound, "Hotel not found")
	}
	if scope := partnerID(claims); scope != "" && hotel.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	checks := map[string]bool{}
	childTables := map[string]string{
		"rooms":     "hotel_rooms",
		"features":  "hotel_features",
		"images":    "hotel_images",
		"galleries": "hotel_galleries",
	}
	for name, table := range childTables {
		var count int64
		err := database.GetDB().Table(table).
			Where("hotel_id = ?", id).Where("deleted_at IS NULL").
			Count(&count).Error
		if err != nil {
			log.Error("Failed readiness check", zap.String("check", name), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		checks[name] = count > 0
	}

	completed := true
	for _, passed := range checks {
		if !passed {
			completed = false
			break
		}
	}

	if completed {
		if _, err := repo.Update(id, map[string]interface{}{"status": true}); err != nil {
			log.Error("Failed to submit hotel for approval", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		hotel.Status = true
		prometheus.ApprovalSubmissionCounter.WithLabelValues("hotel", "accepted").Inc()
		audit.Write(claims, audit.ProcessUpdate, "hotels", hotel)
	} else {
		prometheus.ApprovalSubmissionCounter.WithLabelValues("hotel", "incomplete").Inc()
	}

	return success(c, http.StatusOK, "Approval check completed", echo.Map{
		"checks":    checks,
		"completed": completed,
		"status":    hotel.Status,
	})
}

// ApproveHotel is the admin review decision. approve=true publishes the
// listing; approve=false sends it back to draft.
func ApproveHotel(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	repo := hotelRepo()

	hotel, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel review failed")
	}
	if hotel == nil {
		return fail(c, http.StatusNotFound, "Hotel not found")
	}
	if !hotel.Status {
		return fail(c, http.StatusBadRequest, "Hotel has not been submitted for approval")
	}

	fields := map[string]interface{}{"admin_approval": req.Approve}
	if !req.Approve {
		fields["status"] = false
	}

	updated, err := repo.Update(id, fields)
	if err != nil {
		log.Error("Failed to review hotel", zap.String("hotel_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Hotel review failed")
	}

	audit.Write(claims, audit.ProcessUpdate, "hotels", updated)

	message := "Hotel approved"
	if !req.Approve {
		message = "Hotel rejected"
	}
	return success(c, http.StatusOK, message, updated)
}
