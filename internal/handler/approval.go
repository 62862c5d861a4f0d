package handler

import (
	"errors"
	"net/http"

	"booking-service/internal/audit"
	"booking-service/pkg/database"
	"booking-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reviewListing is the admin decision shared by every supplier entity:
// approve publishes a submitted listing, reject sends it back to draft.
func reviewListing(c echo.Context, table, label string) error {
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

	row := map[string]interface{}{}
	err := database.GetDB().Table(table).
		Where("id = ?", id).Where("deleted_at IS NULL").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, label+" not found")
	}
	if err != nil {
		log.Error("Failed to load listing for review", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, label+" review failed")
	}

	if submitted, ok := row["status"].(bool); ok && !submitted {
		return fail(c, http.StatusBadRequest, label+" has not been submitted for approval")
	}

	fields := map[string]interface{}{"admin_approval": req.Approve}
	if !req.Approve {
		fields["status"] = false
	}

	err = database.GetDB().Table(table).
		Where("id = ?", id).Where("deleted_at IS NULL").
		Updates(fields).Error
	if err != nil {
		log.Error("Failed to review listing", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, label+" review failed")
	}

	for key, value := range fields {
		row[key] = value
	}
	audit.Write(claims, audit.ProcessUpdate, table, row)

	message := label + " approved"
	if !req.Approve {
		message = label + " rejected"
	}
	return success(c, http.StatusOK, message, row)
}
