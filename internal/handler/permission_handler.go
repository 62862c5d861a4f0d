package handler

import (
	"net/http"
	"sort"

	"booking-service/internal/audit"
	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// defaultPermissions is the full permission key set per audience. A stored
// row only overrides one of these defaults; keys absent from the store keep
// their default value.
var defaultPermissions = map[string]map[string]bool{
	"admin": {
		"dealers.manage":    true,
		"partners.manage":   true,
		"listings.review":   true,
		"locations.manage":  true,
		"logs.view":         true,
		"commissions.view":  true,
		"users.manage":      true,
		"permissions.admin": true,
	},
	"dealer": {
		"bookings.create": true,
		"bookings.view":   true,
		"users.manage":    true,
		"balance.view":    true,
	},
	"solution_partner": {
		"hotels.manage":      true,
		"tours.manage":       true,
		"activities.manage":  true,
		"car_rentals.manage": true,
		"visas.manage":       true,
	},
	"sales_partner": {
		"sales.create": true,
		"sales.view":   true,
	},
}

func permissionRepo() *repository.Repository[model.Permission] {
	return repository.New[model.Permission](database.GetDB(), "permissions")
}

// GetPermissions returns the target's effective permission set: the audience
// defaults merged with any stored overrides.
func GetPermissions(c echo.Context) error {
	log := logger.FromContext(c)
	if _, ok := currentUser(c); !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	target := c.Param("target")
	targetID := c.Param("target_id")

	defaults, known := defaultPermissions[target]
	if !known {
		return fail(c, http.StatusBadRequest, "Unknown permission target")
	}

	overrides, err := permissionRepo().GetAll(nil, map[string]interface{}{
		"target":    target,
		"target_id": targetID,
	}, "")
	if err != nil {
		log.Error("Failed to load permission overrides", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve permissions")
	}

	effective := map[string]bool{}
	for name, status := range defaults {
		effective[name] = status
	}
	for _, row := range overrides {
		if _, ok := defaults[row.Name]; ok {
			effective[row.Name] = row.Status
		}
	}

	names := make([]string, 0, len(effective))
	for name := range effective {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]echo.Map, 0, len(names))
	for _, name := range names {
		list = append(list, echo.Map{"name": name, "status": effective[name]})
	}

	return success(c, http.StatusOK, "Permissions retrieved", echo.Map{
		"target":      target,
		"target_id":   targetID,
		"permissions": list,
	})
}

// PermissionUpdateRequest sets one permission key for a target
type PermissionUpdateRequest struct {
	Name   string `json:"name" validate:"required"`
	Status bool   `json:"status"`
}

// UpdatePermission upserts a permission override for (target, target_id, name)
func UpdatePermission(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	target := c.Param("target")
	targetID := c.Param("target_id")

	var req PermissionUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	defaults, known := defaultPermissions[target]
	if !known {
		return fail(c, http.StatusBadRequest, "Unknown permission target")
	}
	if _, ok := defaults[req.Name]; !ok {
		return fail(c, http.StatusBadRequest, "Unknown permission name")
	}

	repo := permissionRepo()

	existing, err := repo.First(map[string]interface{}{
		"target":    target,
		"target_id": targetID,
		"name":      req.Name,
	})
	if err != nil {
		log.Error("Failed to load permission override", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Permission update failed")
	}

	if existing != nil {
		if _, err := repo.Update(existing.ID, map[string]interface{}{"status": req.Status}); err != nil {
			log.Error("Failed to update permission override", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Permission update failed")
		}
		existing.Status = req.Status
		prometheus.RecordEntityOperation("permissions", "update")
		audit.Write(claims, audit.ProcessUpdate, "permissions", existing)
		return success(c, http.StatusOK, "Permission updated", existing)
	}

	permission := model.Permission{
		Name:     req.Name,
		Target:   target,
		TargetID: targetID,
		Status:   req.Status,
	}
	if err := repo.Create(&permission); err != nil {
		log.Error("Failed to create permission override", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Permission update failed")
	}

	prometheus.RecordEntityOperation("permissions", "create")
	audit.Write(claims, audit.ProcessCreate, "permissions", permission)

	return success(c, http.StatusCreated, "Permission created", permission)
}
