package handler

import (
	"net/http"
	"time"

	"booking-service/internal/audit"
	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/jwtutil"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func resetActivityApproval(tx *gorm.DB, activityID string) error {
	return tx.Model(&model.Activity{}).Where("id = ?", activityID).
		Updates(map[string]interface{}{"status": false, "admin_approval": false}).Error
}

// loadOwnedActivity fetches the activity and enforces partner scope.
func loadOwnedActivity(c echo.Context, claims *jwtutil.UserClaims, activityID string) (*model.Activity, error, int) {
	activity, err := activityRepo().FindID(activityID)
	if err != nil {
		return nil, err, http.StatusInternalServerError
	}
	if activity == nil {
		return nil, nil, http.StatusNotFound
	}
	if scope := partnerID(claims); scope != "" && activity.SolutionPartnerID != scope {
		return nil, nil, http.StatusForbidden
	}
	return activity, nil, http.StatusOK
}

func activityScopeMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Activity not found"
	case http.StatusForbidden:
		return "Access denied"
	default:
		return "Operation failed"
	}
}

// CreateActivityGallery accepts a multipart form with an optional file or an
// image_url field, mirroring the hotel gallery flow.
func CreateActivityGallery(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	activityID := c.Param("id")

	if _, err, status := loadOwnedActivity(c, claims, activityID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load activity", zap.Error(err))
			return fail(c, status, "Gallery creation failed")
		}
		return fail(c, status, activityScopeMessage(status))
	}

	imageType, hasType := formString(c, "image_type")
	if !hasType {
		imageType = "image"
	}

	imageURL, hasURL := formString(c, "image_url")
	if file, err := c.FormFile("file"); err == nil && file != nil {
		saved, err := Storage.Save(file)
		if err != nil {
			log.Error("Failed to store gallery file", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Gallery creation failed")
		}
		imageURL = saved
		hasURL = true
	}
	if !hasURL {
		return fail(c, http.StatusBadRequest, "A file or image_url is required")
	}

	gallery := model.ActivityGallery{
		ActivityID: activityID,
		ImageType:  imageType,
		ImageURL:   imageURL,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.ActivityGallery](tx, "activity_galleries").Create(&gallery); err != nil {
			return err
		}
		return resetActivityApproval(tx, activityID)
	})
	if err != nil {
		log.Error("Failed to create activity gallery", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Gallery creation failed")
	}

	prometheus.RecordEntityOperation("activity_galleries", "create")
	audit.Write(claims, audit.ProcessCreate, "activity_galleries", gallery)

	return success(c, http.StatusCreated, "Gallery created", gallery)
}

// DeleteActivityGallery soft-deletes one gallery row and resets approval
func DeleteActivityGallery(c echo.Context) error {
	return deleteActivityChild[model.ActivityGallery](c, "activity_galleries", c.Param("gallery_id"), "Gallery")
}

// ActivityPackageCreateRequest defines the package creation payload
type ActivityPackageCreateRequest struct {
	Price        float64 `json:"price" validate:"gte=0"`
	CurrencyCode string  `json:"currency_code" validate:"omitempty,len=3"`
	Date         string  `json:"date" validate:"required"`
	Quota        int     `json:"quota" validate:"gte=0"`
}

// CreateActivityPackage adds a dated slot and resets approval
func CreateActivityPackage(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	activityID := c.Param("id")

	var req ActivityPackageCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	if _, err, status := loadOwnedActivity(c, claims, activityID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load activity", zap.Error(err))
			return fail(c, status, "Package creation failed")
		}
		return fail(c, status, activityScopeMessage(status))
	}

	pkg := model.ActivityPackage{
		ActivityID:   activityID,
		Price:        req.Price,
		CurrencyCode: req.CurrencyCode,
		Date:         date,
		Quota:        req.Quota,
		Status:       true,
	}
	if pkg.CurrencyCode == "" {
		pkg.CurrencyCode = "USD"
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.ActivityPackage](tx, "activity_packages").Create(&pkg); err != nil {
			return err
		}
		return resetActivityApproval(tx, activityID)
	})
	if err != nil {
		log.Error("Failed to create activity package", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Package creation failed")
	}

	prometheus.RecordEntityOperation("activity_packages", "create")
	audit.Write(claims, audit.ProcessCreate, "activity_packages", pkg)

	return success(c, http.StatusCreated, "Package created", pkg)
}

// DeleteActivityPackage soft-deletes a dated slot and resets approval
func DeleteActivityPackage(c echo.Context) error {
	return deleteActivityChild[model.ActivityPackage](c, "activity_packages", c.Param("package_id"), "Package")
}

// deleteActivityChild removes one child row owned through its activity and
// resets the activity's approval state in the same transaction.
func deleteActivityChild[T any](c echo.Context, table, childID, label string) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	activityID := c.Param("id")

	if _, err, status := loadOwnedActivity(c, claims, activityID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load activity", zap.Error(err))
			return fail(c, status, label+" deletion failed")
		}
		return fail(c, status, activityScopeMessage(status))
	}

	repo := repository.New[T](database.GetDB(), table)

	existing, err := repo.First(map[string]interface{}{"id": childID, "activity_id": activityID})
	if err != nil {
		log.Error("Failed to load activity child row", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, label+" deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, label+" not found")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(childID); err != nil {
			return err
		}
		return resetActivityApproval(tx, activityID)
	})
	if err != nil {
		log.Error("Failed to delete activity child row", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, label+" deletion failed")
	}

	prometheus.RecordEntityOperation(table, "delete")
	audit.Write(claims, audit.ProcessDelete, table, existing)

	return success(c, http.StatusOK, label+" deleted", nil)
}
