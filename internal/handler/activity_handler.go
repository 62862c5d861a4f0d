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

// ActivityCreateRequest defines the activity creation payload
type ActivityCreateRequest struct {
	LocationID       string `json:"location_id" validate:"required,uuid"`
	DurationMinutes  int    `json:"duration_minutes" validate:"gte=1"`
	FreeCancellation bool   `json:"free_cancellation"`
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	RefundPolicy     string `json:"refund_policy"`
}

// ActivityUpdateRequest carries partial activity updates
type ActivityUpdateRequest struct {
	LocationID       *string `json:"location_id" validate:"omitempty,uuid"`
	DurationMinutes  *int    `json:"duration_minutes" validate:"omitempty,gte=1"`
	FreeCancellation *bool   `json:"free_cancellation"`
	Highlight        *bool   `json:"highlight"`
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	RefundPolicy     *string `json:"refund_policy"`
}

func activityRepo() *repository.Repository[model.Activity] {
	return repository.New[model.Activity](database.GetDB(), "activities")
}

// FindAllActivities lists activities joined to the request language's pivot row
func FindAllActivities(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN activity_pivots ON activity_pivots.activity_id = activities.id AND activity_pivots.language_code = ? AND activity_pivots.deleted_at IS NULL", language)
		if scope := partnerID(claims); scope != "" {
			db = db.Where("activities.solution_partner_id = ?", scope)
		}
		if locationID := c.QueryParam("location_id"); locationID != "" {
			db = db.Where("activities.location_id = ?", locationID)
		}
		if status := c.QueryParam("status"); status != "" {
			db = db.Where("activities.status = ?", status == "true")
		}
		if approval := c.QueryParam("admin_approval"); approval != "" {
			db = db.Where("activities.admin_approval = ?", approval == "true")
		}
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("activities.status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("activity_pivots.title ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Activity{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count activities", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve activities")
	}

	var activities []map[string]interface{}
	err := database.GetDB().Model(&model.Activity{}).Scopes(filter).
		Select("activities.*, activity_pivots.title, activity_pivots.description").
		Order("activities.created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&activities).Error
	if err != nil {
		log.Error("Failed to list activities", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve activities")
	}

	return paginated(c, "Activities retrieved", activities, total, q)
}

// FindOneActivity returns an activity with its translation and children
func FindOneActivity(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	language := middleware.Language(c)

	activity, err := activityRepo().FindID(id)
	if err != nil {
		log.Error("Failed to load activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve activity")
	}
	if activity == nil {
		return fail(c, http.StatusNotFound, "Activity not found")
	}

	pivot, err := repository.New[model.ActivityPivot](database.GetDB(), "activity_pivots").
		First(map[string]interface{}{"activity_id": id, "language_code": language})
	if err != nil {
		log.Error("Failed to load activity translation", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve activity")
	}

	galleries, err := repository.New[model.ActivityGallery](database.GetDB(), "activity_galleries").Where("activity_id", id)
	if err != nil {
		log.Error("Failed to load activity galleries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve activity")
	}
	packages, err := repository.New[model.ActivityPackage](database.GetDB(), "activity_packages").Where("activity_id", id)
	if err != nil {
		log.Error("Failed to load activity packages", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve activity")
	}

	return success(c, http.StatusOK, "Activity retrieved", echo.Map{
		"activity":    activity,
		"translation": pivot,
		"galleries":   galleries,
		"packages":    packages,
	})
}

// CreateActivity creates an activity and its pivot row in one transaction
func CreateActivity(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	if claims.SolutionPartnerID == nil {
		return fail(c, http.StatusBadRequest, "Solution partner context required")
	}
	language := middleware.Language(c)

	var req ActivityCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse activity creation request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	locationExists, err := repository.New[model.City](database.GetDB(), "cities").
		Exists(map[string]interface{}{"id": req.LocationID})
	if err != nil {
		log.Error("Failed to check activity location", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity creation failed")
	}
	if !locationExists {
		return fail(c, http.StatusBadRequest, "Location not found")
	}

	activity := model.Activity{
		SolutionPartnerID: *claims.SolutionPartnerID,
		LocationID:        req.LocationID,
		DurationMinutes:   req.DurationMinutes,
		FreeCancellation:  req.FreeCancellation,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := activityRepo().WithTx(tx).Create(&activity); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "activity_pivots",
			TargetKey:    "activity_id",
			TargetID:     activity.ID,
			LanguageCode: language,
			Data: map[string]interface{}{
				"title":         req.Title,
				"description":   req.Description,
				"refund_policy": req.RefundPolicy,
			},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create activity", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity creation failed")
	}

	prometheus.RecordEntityOperation("activities", "create")
	audit.Write(claims, audit.ProcessCreate, "activities", activity)

	return success(c, http.StatusCreated, "Activity created", activity)
}

// UpdateActivity merges supplied fields and updates the language pivot
func UpdateActivity(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req ActivityUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse activity update request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := activityRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Activity not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	if req.LocationID != nil {
		locationExists, err := repository.New[model.City](database.GetDB(), "cities").
			Exists(map[string]interface{}{"id": *req.LocationID})
		if err != nil {
			log.Error("Failed to check activity location", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Activity update failed")
		}
		if !locationExists {
			return fail(c, http.StatusBadRequest, "Location not found")
		}
	}

	fields := map[string]interface{}{}
	if req.LocationID != nil {
		fields["location_id"] = *req.LocationID
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.FreeCancellation != nil {
		fields["free_cancellation"] = *req.FreeCancellation
	}
	if req.Highlight != nil {
		fields["highlight"] = *req.Highlight
	}

	translation := map[string]interface{}{}
	if req.Title != nil {
		translation["title"] = *req.Title
	}
	if req.Description != nil {
		translation["description"] = *req.Description
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
				Table:        "activity_pivots",
				TargetKey:    "activity_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         translation,
			})
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity update failed")
	}

	updated, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to reload activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity update failed")
	}

	prometheus.RecordEntityOperation("activities", "update")
	audit.Write(claims, audit.ProcessUpdate, "activities", updated)

	return success(c, http.StatusOK, "Activity updated", updated)
}

// DeleteActivity soft-deletes an activity and cascades to pivots and children
func DeleteActivity(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := activityRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Activity not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		if err := repository.TranslateDelete(tx, "activity_pivots", "activity_id", id); err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&model.ActivityGallery{}).Error; err != nil {
			return err
		}
		return tx.Where("activity_id = ?", id).Delete(&model.ActivityPackage{}).Error
	})
	if err != nil {
		log.Error("Failed to delete activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Activity deletion failed")
	}

	prometheus.RecordEntityOperation("activities", "delete")
	audit.Write(claims, audit.ProcessDelete, "activities", existing)

	return success(c, http.StatusOK, "Activity deleted", nil)
}

// SendActivityForApproval verifies completeness and submits for review
func SendActivityForApproval(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := activityRepo()

	activity, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load activity", zap.String("activity_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}
	if activity == nil {
		return fail(c, http.StatusNotFound, "Activity not found")
	}
	if scope := partnerID(claims); scope != "" && activity.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	checks := map[string]bool{}
	for name, table := range map[string]string{
		"galleries": "activity_galleries",
		"packages":  "activity_packages",
	} {
		var count int64
		err := database.GetDB().Table(table).
			Where("activity_id = ?", id).Where("deleted_at IS NULL").
			Count(&count).Error
		if err != nil {
			log.Error("Failed readiness check", zap.String("check", name), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		checks[name] = count > 0
	}

	completed := checks["galleries"] && checks["packages"]
	if completed {
		if _, err := repo.Update(id, map[string]interface{}{"status": true}); err != nil {
			log.Error("Failed to submit activity for approval", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		activity.Status = true
		prometheus.ApprovalSubmissionCounter.WithLabelValues("activity", "accepted").Inc()
		audit.Write(claims, audit.ProcessUpdate, "activities", activity)
	} else {
		prometheus.ApprovalSubmissionCounter.WithLabelValues("activity", "incomplete").Inc()
	}

	return success(c, http.StatusOK, "Approval check completed", echo.Map{
		"checks":    checks,
		"completed": completed,
		"status":    activity.Status,
	})
}

// ApproveActivity is the admin review decision for an activity
func ApproveActivity(c echo.Context) error {
	return reviewListing(c, "activities", "Activity")
}
