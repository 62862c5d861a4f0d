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
	"gorm.io/gorm"
)

// CreateHotelGallery accepts a multipart form: an optional file plus string
// fields decoded through typed coercion. Either an uploaded file or an
// image_url field must be supplied.
func CreateHotelGallery(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	hotelID := c.Param("id")

	if _, err, status := loadOwnedHotel(c, claims, hotelID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load hotel", zap.Error(err))
			return fail(c, status, "Gallery creation failed")
		}
		return fail(c, status, hotelScopeMessage(status))
	}

	imageType, hasType := formString(c, "image_type")
	if !hasType {
		imageType = "image"
	}
	category, _ := formString(c, "category")

	ordering, _, err := formInt(c, "ordering")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
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

	gallery := model.HotelGallery{
		HotelID:   hotelID,
		ImageType: imageType,
		ImageURL:  imageURL,
		Category:  category,
		Ordering:  ordering,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.HotelGallery](tx, "hotel_galleries").Create(&gallery); err != nil {
			return err
		}
		return resetHotelApproval(tx, hotelID)
	})
	if err != nil {
		log.Error("Failed to create hotel gallery", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Gallery creation failed")
	}

	prometheus.RecordEntityOperation("hotel_galleries", "create")
	audit.Write(claims, audit.ProcessCreate, "hotel_galleries", gallery)

	return success(c, http.StatusCreated, "Gallery created", gallery)
}

// DeleteHotelGallery soft-deletes one gallery row and resets approval
func DeleteHotelGallery(c echo.Context) error {
	return deleteHotelChild[model.HotelGallery](c, "hotel_galleries", c.Param("gallery_id"), "Gallery")
}

// BulkDeleteHotelGalleries soft-deletes a set of gallery rows in one
// transaction together with the approval reset.
func BulkDeleteHotelGalleries(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	hotelID := c.Param("id")

	var req struct {
		IDs []string `json:"ids" validate:"required,min=1"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err, status := loadOwnedHotel(c, claims, hotelID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load hotel", zap.Error(err))
			return fail(c, status, "Gallery deletion failed")
		}
		return fail(c, status, hotelScopeMessage(status))
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", hotelID).Where("id IN ?", req.IDs).
			Delete(&model.HotelGallery{}).Error; err != nil {
			return err
		}
		return resetHotelApproval(tx, hotelID)
	})
	if err != nil {
		log.Error("Failed to bulk delete hotel galleries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Gallery deletion failed")
	}

	prometheus.RecordEntityOperation("hotel_galleries", "delete")
	audit.Write(claims, audit.ProcessDelete, "hotel_galleries", echo.Map{"hotel_id": hotelID, "ids": req.IDs})

	return success(c, http.StatusOK, "Galleries deleted", nil)
}
