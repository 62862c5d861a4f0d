package handler

import (
	"net/http"

	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// targetLabels maps audited table names to their display labels. Tables not
// listed fall back to the raw table name.
var targetLabels = map[string]string{
	"dealers":            "Dealer",
	"dealer_users":       "Dealer user",
	"dealer_commissions": "Dealer commission",
	"dealer_documents":   "Dealer document",
	"hotels":             "Hotel",
	"hotel_rooms":        "Hotel room",
	"hotel_features":     "Hotel feature",
	"hotel_images":       "Hotel image",
	"hotel_galleries":    "Hotel gallery",
	"tours":              "Tour",
	"tour_packages":      "Tour package",
	"tour_galleries":     "Tour gallery",
	"activities":         "Activity",
	"activity_galleries": "Activity gallery",
	"activity_packages":  "Activity package",
	"car_rentals":        "Car rental",
	"visas":              "Visa",
	"countries":          "Country",
	"cities":             "City",
	"districts":          "District",
	"permissions":        "Permission",
	"admins":             "Admin",
	"users":              "User",
	"solution_partners":  "Solution partner",
	"sales_partners":     "Sales partner",
}

// FindAllLogs returns a paginated audit trail. Each row is denormalized with
// a display label for the target table and the acting user's name, resolved
// per actor kind. Actors that no longer exist render as "Unknown"; rows where
// the actor changed their own record render as "Self".
func FindAllLogs(c echo.Context) error {
	log := logger.FromContext(c)
	if _, ok := currentUser(c); !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)

	filter := func(db *gorm.DB) *gorm.DB {
		if target := c.QueryParam("target_name"); target != "" {
			db = db.Where("target_name = ?", target)
		}
		if actorType := c.QueryParam("type"); actorType != "" {
			db = db.Where("type = ?", actorType)
		}
		if userID := c.QueryParam("user_id"); userID != "" {
			db = db.Where("user_id = ?", userID)
		}
		if process := c.QueryParam("process"); process != "" {
			db = db.Where("process = ?", process)
		}
		if q.Search != "" {
			db = db.Where("target_name ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Log{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count logs", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve logs")
	}

	var entries []model.Log
	err := database.GetDB().Model(&model.Log{}).Scopes(filter).
		Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&entries).Error
	if err != nil {
		log.Error("Failed to list logs", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve logs")
	}

	names := resolveActorNames(c, entries)

	rows := make([]echo.Map, 0, len(entries))
	for _, entry := range entries {
		label, ok := targetLabels[entry.TargetName]
		if !ok {
			label = entry.TargetName
		}

		userName := names[entry.Type+":"+entry.UserID]
		if userName == "" {
			userName = "Unknown"
		}
		if entry.TargetID != "" && entry.TargetID == entry.UserID {
			userName = "Self"
		}

		rows = append(rows, echo.Map{
			"id":          entry.ID,
			"type":        entry.Type,
			"process":     entry.Process,
			"target_name": entry.TargetName,
			"label":       label,
			"target_id":   entry.TargetID,
			"user_id":     entry.UserID,
			"user_name":   userName,
			"content":     entry.Content,
			"created_at":  entry.CreatedAt,
		})
	}

	return paginated(c, "Logs retrieved", rows, total, q)
}

// resolveActorNames batch-loads actor display names for one page of log
// entries, one lookup per actor table.
func resolveActorNames(c echo.Context, entries []model.Log) map[string]string {
	log := logger.FromContext(c)

	idsByKind := map[string][]string{}
	seen := map[string]bool{}
	for _, entry := range entries {
		key := entry.Type + ":" + entry.UserID
		if entry.UserID == "" || seen[key] {
			continue
		}
		seen[key] = true
		idsByKind[entry.Type] = append(idsByKind[entry.Type], entry.UserID)
	}

	names := map[string]string{}

	if ids := idsByKind["admin"]; len(ids) > 0 {
		admins, err := repository.New[model.Admin](database.GetDB(), "admins").FindByIDs(ids)
		if err != nil {
			log.Error("Failed to resolve admin names", zap.Error(err))
		}
		for _, a := range admins {
			names["admin:"+a.ID] = a.NameSurname
		}
	}
	if ids := idsByKind["dealer"]; len(ids) > 0 {
		staff, err := repository.New[model.DealerUser](database.GetDB(), "dealer_users").FindByIDs(ids)
		if err != nil {
			log.Error("Failed to resolve dealer user names", zap.Error(err))
		}
		for _, d := range staff {
			names["dealer:"+d.ID] = d.NameSurname
		}
	}
	if ids := idsByKind["user"]; len(ids) > 0 {
		users, err := repository.New[model.User](database.GetDB(), "users").FindByIDs(ids)
		if err != nil {
			log.Error("Failed to resolve user names", zap.Error(err))
		}
		for _, u := range users {
			names["user:"+u.ID] = u.NameSurname
		}
	}

	return names
}

// FindRecentLogsForTarget returns the latest audit entries of one record
func FindRecentLogsForTarget(c echo.Context) error {
	log := logger.FromContext(c)
	if _, ok := currentUser(c); !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	targetID := c.Param("target_id")

	entries, err := repository.New[model.Log](database.GetDB(), "logs").
		Limit(20, map[string]interface{}{"target_id": targetID}, "created_at DESC")
	if err != nil {
		log.Error("Failed to load target logs", zap.String("target_id", targetID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve logs")
	}

	return success(c, http.StatusOK, "Logs retrieved", entries)
}
