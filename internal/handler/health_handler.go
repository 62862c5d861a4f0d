package handler

import (
	"net/http"

	"booking-service/pkg/database"
	"booking-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Health reports service liveness. With ?check=db the underlying database
// connection is pinged as well.
func Health(c echo.Context) error {
	if c.QueryParam("check") != "db" {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}

	log := logger.FromContext(c)

	sqlDB, err := database.GetDB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		log.Error("Database health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": "down"})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "up"})
}
