package handler

import (
	"net/http"

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

// Sub-resource edits flip the parent hotel back to draft, forcing re-review.

// loadOwnedHotel fetches the hotel and enforces partner scope.
func loadOwnedHotel(c echo.Context, claims *jwtutil.UserClaims, hotelID string) (*model.Hotel, error, int) {
	hotel, err := hotelRepo().FindID(hotelID)
	if err != nil {
		return nil, err, http.StatusInternalServerError
	}
	if hotel == nil {
		return nil, nil, http.StatusNotFound
	}
	if scope := partnerID(claims); scope != "" && hotel.SolutionPartnerID != scope {
		return nil, nil, http.StatusForbidden
	}
	return hotel, nil, http.StatusOK
}

// HotelRoomCreateRequest defines the room creation payload
type HotelRoomCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	Capacity     int     `json:"capacity" validate:"gte=1"`
	Price        float64 `json:"price" validate:"gte=0"`
	CurrencyCode string  `json:"currency_code" validate:"omitempty,len=3"`
	Refundable   bool    `json:"refundable"`
}

// ListHotelRooms lists the rooms of a hotel
func ListHotelRooms(c echo.Context) error {
	log := logger.FromContext(c)
	hotelID := c.Param("id")

	rooms, err := repository.New[model.HotelRoom](database.GetDB(), "hotel_rooms").Where("hotel_id", hotelID)
	if err != nil {
		log.Error("Failed to list hotel rooms", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve rooms")
	}
	return success(c, http.StatusOK, "Rooms retrieved", rooms)
}

// CreateHotelRoom adds a room and resets the hotel's approval state
func CreateHotelRoom(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	hotelID := c.Param("id")

	var req HotelRoomCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err, status := loadOwnedHotel(c, claims, hotelID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load hotel", zap.Error(err))
			return fail(c, status, "Room creation failed")
		}
		return fail(c, status, hotelScopeMessage(status))
	}

	room := model.HotelRoom{
		HotelID:      hotelID,
		Name:         req.Name,
		Capacity:     req.Capacity,
		Price:        req.Price,
		CurrencyCode: req.CurrencyCode,
		Refundable:   req.Refundable,
		Status:       true,
	}
	if room.CurrencyCode == "" {
		room.CurrencyCode = "USD"
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.HotelRoom](tx, "hotel_rooms").Create(&room); err != nil {
			return err
		}
		return resetHotelApproval(tx, hotelID)
	})
	if err != nil {
		log.Error("Failed to create hotel room", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Room creation failed")
	}

	prometheus.RecordEntityOperation("hotel_rooms", "create")
	audit.Write(claims, audit.ProcessCreate, "hotel_rooms", room)

	return success(c, http.StatusCreated, "Room created", room)
}

// DeleteHotelRoom soft-deletes a room and resets the hotel's approval state
func DeleteHotelRoom(c echo.Context) error {
	return deleteHotelChild[model.HotelRoom](c, "hotel_rooms", c.Param("room_id"), "Room")
}

// HotelFeatureCreateRequest defines the feature creation payload
type HotelFeatureCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateHotelFeature adds an amenity flag and resets approval
func CreateHotelFeature(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	hotelID := c.Param("id")

	var req HotelFeatureCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err, status := loadOwnedHotel(c, claims, hotelID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load hotel", zap.Error(err))
			return fail(c, status, "Feature creation failed")
		}
		return fail(c, status, hotelScopeMessage(status))
	}

	feature := model.HotelFeature{HotelID: hotelID, Name: req.Name, Status: true}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.HotelFeature](tx, "hotel_features").Create(&feature); err != nil {
			return err
		}
		return resetHotelApproval(tx, hotelID)
	})
	if err != nil {
		log.Error("Failed to create hotel feature", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Feature creation failed")
	}

	prometheus.RecordEntityOperation("hotel_features", "create")
	audit.Write(claims, audit.ProcessCreate, "hotel_features", feature)

	return success(c, http.StatusCreated, "Feature created", feature)
}

// DeleteHotelFeature soft-deletes a feature and resets approval
func DeleteHotelFeature(c echo.Context) error {
	return deleteHotelChild[model.HotelFeature](c, "hotel_features", c.Param("feature_id"), "Feature")
}

// HotelImageCreateRequest defines the image creation payload
type HotelImageCreateRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Ordering int    `json:"ordering"`
}

// CreateHotelImage adds a cover image and resets approval
func CreateHotelImage(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	hotelID := c.Param("id")

	var req HotelImageCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err, status := loadOwnedHotel(c, claims, hotelID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load hotel", zap.Error(err))
			return fail(c, status, "Image creation failed")
		}
		return fail(c, status, hotelScopeMessage(status))
	}

	image := model.HotelImage{HotelID: hotelID, ImageURL: req.ImageURL, Ordering: req.Ordering}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.New[model.HotelImage](tx, "hotel_images").Create(&image); err != nil {
			return err
		}
		return resetHotelApproval(tx, hotelID)
	})
	if err != nil {
		log.Error("Failed to create hotel image", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Image creation failed")
	}

	prometheus.RecordEntityOperation("hotel_images", "create")
	audit.Write(claims, audit.ProcessCreate, "hotel_images", image)

	return success(c, http.StatusCreated, "Image created", image)
}

// DeleteHotelImage soft-deletes an image and resets approval
func DeleteHotelImage(c echo.Context) error {
	return deleteHotelChild[model.HotelImage](c, "hotel_images", c.Param("image_id"), "Image")
}

func hotelScopeMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Hotel not found"
	case http.StatusForbidden:
		return "Access denied"
	default:
		return "Operation failed"
	}
}

// deleteHotelChild removes one child row owned through its hotel and resets
// the hotel's approval state in the same transaction.
func deleteHotelChild[T any](c echo.Context, table, childID, label string) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	hotelID := c.Param("id")

	if _, err, status := loadOwnedHotel(c, claims, hotelID); status != http.StatusOK {
		if err != nil {
			log.Error("Failed to load hotel", zap.Error(err))
			return fail(c, status, label+" deletion failed")
		}
		return fail(c, status, hotelScopeMessage(status))
	}

	repo := repository.New[T](database.GetDB(), table)

	existing, err := repo.First(map[string]interface{}{"id": childID, "hotel_id": hotelID})
	if err != nil {
		log.Error("Failed to load hotel child row", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, label+" deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, label+" not found")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(childID); err != nil {
			return err
		}
		return resetHotelApproval(tx, hotelID)
	})
	if err != nil {
		log.Error("Failed to delete hotel child row", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, label+" deletion failed")
	}

	prometheus.RecordEntityOperation(table, "delete")
	audit.Write(claims, audit.ProcessDelete, table, existing)

	return success(c, http.StatusOK, label+" deleted", nil)
}
