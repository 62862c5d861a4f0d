package handler

import (
	"net/http"
	"strings"

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

// Reference geography: countries and cities are translated through pivot
// tables, districts carry a plain name.

func countryRepo() *repository.Repository[model.Country] {
	return repository.New[model.Country](database.GetDB(), "countries")
}

func cityRepo() *repository.Repository[model.City] {
	return repository.New[model.City](database.GetDB(), "cities")
}

func districtRepo() *repository.Repository[model.District] {
	return repository.New[model.District](database.GetDB(), "districts")
}

// CountryCreateRequest defines the country creation payload
type CountryCreateRequest struct {
	Code      string `json:"code" validate:"required,len=2"`
	PhoneCode string `json:"phone_code"`
	Name      string `json:"name" validate:"required"`
}

// FindAllCountries lists countries with names in the request language
func FindAllCountries(c echo.Context) error {
	log := logger.FromContext(c)
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN country_pivots ON country_pivots.country_id = countries.id AND country_pivots.language_code = ? AND country_pivots.deleted_at IS NULL", language)
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("countries.status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("country_pivots.name ILIKE ? OR countries.code ILIKE ?", "%"+q.Search+"%", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Country{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count countries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve countries")
	}

	var countries []map[string]interface{}
	err := database.GetDB().Model(&model.Country{}).Scopes(filter).
		Select("countries.*, country_pivots.name").
		Order("country_pivots.name ASC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&countries).Error
	if err != nil {
		log.Error("Failed to list countries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve countries")
	}

	return paginated(c, "Countries retrieved", countries, total, q)
}

// CreateCountry inserts a country and its name pivot
func CreateCountry(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	language := middleware.Language(c)

	var req CountryCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Code = strings.ToUpper(req.Code)

	duplicate, err := countryRepo().Exists(map[string]interface{}{"code": req.Code})
	if err != nil {
		log.Error("Failed to check country code", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country creation failed")
	}
	if duplicate {
		return fail(c, http.StatusBadRequest, "Country code already exists")
	}

	country := model.Country{Code: req.Code, PhoneCode: req.PhoneCode, Status: true}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := countryRepo().WithTx(tx).Create(&country); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "country_pivots",
			TargetKey:    "country_id",
			TargetID:     country.ID,
			LanguageCode: language,
			Data:         map[string]interface{}{"name": req.Name},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create country", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country creation failed")
	}

	prometheus.RecordEntityOperation("countries", "create")
	audit.Write(claims, audit.ProcessCreate, "countries", country)

	return success(c, http.StatusCreated, "Country created", country)
}

// UpdateCountry updates country fields and replaces the language's name pivot
func UpdateCountry(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req struct {
		PhoneCode *string `json:"phone_code"`
		Status    *bool   `json:"status"`
		Name      *string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	repo := countryRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load country", zap.String("country_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	fields := map[string]interface{}{}
	if req.PhoneCode != nil {
		fields["phone_code"] = *req.PhoneCode
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if _, err := repo.WithTx(tx).Update(id, fields); err != nil {
				return err
			}
		}
		if req.Name != nil {
			_, err := repository.TranslateReplace(tx, repository.TranslateParams{
				Table:        "country_pivots",
				TargetKey:    "country_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         map[string]interface{}{"name": *req.Name},
			})
			return err
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update country", zap.String("country_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country update failed")
	}

	snapshot := echo.Map{"id": id}
	for key, value := range fields {
		snapshot[key] = value
	}
	if req.Name != nil {
		snapshot["name"] = *req.Name
	}

	prometheus.RecordEntityOperation("countries", "update")
	audit.Write(claims, audit.ProcessUpdate, "countries", snapshot)

	return success(c, http.StatusOK, "Country updated", nil)
}

// DeleteCountry soft-deletes a country and its name pivots. Countries with
// active cities cannot be deleted.
func DeleteCountry(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := countryRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load country", zap.String("country_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Country not found")
	}

	inUse, err := cityRepo().Exists(map[string]interface{}{"country_id": id})
	if err != nil {
		log.Error("Failed to check country usage", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country deletion failed")
	}
	if inUse {
		return fail(c, http.StatusBadRequest, "Country has cities and cannot be deleted")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return repository.TranslateDelete(tx, "country_pivots", "country_id", id)
	})
	if err != nil {
		log.Error("Failed to delete country", zap.String("country_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Country deletion failed")
	}

	prometheus.RecordEntityOperation("countries", "delete")
	audit.Write(claims, audit.ProcessDelete, "countries", existing)

	return success(c, http.StatusOK, "Country deleted", nil)
}

// CityCreateRequest defines the city creation payload
type CityCreateRequest struct {
	CountryID string `json:"country_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required"`
}

// FindAllCities lists cities with names in the request language
func FindAllCities(c echo.Context) error {
	log := logger.FromContext(c)
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN city_pivots ON city_pivots.city_id = cities.id AND city_pivots.language_code = ? AND city_pivots.deleted_at IS NULL", language)
		if countryID := c.QueryParam("country_id"); countryID != "" {
			db = db.Where("cities.country_id = ?", countryID)
		}
		if q.Search != "" {
			db = db.Where("city_pivots.name ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.City{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count cities", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve cities")
	}

	var cities []map[string]interface{}
	err := database.GetDB().Model(&model.City{}).Scopes(filter).
		Select("cities.*, city_pivots.name").
		Order("city_pivots.name ASC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&cities).Error
	if err != nil {
		log.Error("Failed to list cities", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve cities")
	}

	return paginated(c, "Cities retrieved", cities, total, q)
}

// FindOneCity returns a city joined to its country row
func FindOneCity(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	row, err := cityRepo().OneToOne(id, "countries", "country_id")
	if err != nil {
		log.Error("Failed to load city", zap.String("city_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve city")
	}
	if row == nil {
		return fail(c, http.StatusNotFound, "City not found")
	}

	return success(c, http.StatusOK, "City retrieved", row)
}

// CreateCity inserts a city and its name pivot
func CreateCity(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	language := middleware.Language(c)

	var req CityCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	countryExists, err := countryRepo().Exists(map[string]interface{}{"id": req.CountryID})
	if err != nil {
		log.Error("Failed to check city country", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "City creation failed")
	}
	if !countryExists {
		return fail(c, http.StatusBadRequest, "Country not found")
	}

	city := model.City{CountryID: req.CountryID, Status: true}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := cityRepo().WithTx(tx).Create(&city); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "city_pivots",
			TargetKey:    "city_id",
			TargetID:     city.ID,
			LanguageCode: language,
			Data:         map[string]interface{}{"name": req.Name},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create city", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "City creation failed")
	}

	prometheus.RecordEntityOperation("cities", "create")
	audit.Write(claims, audit.ProcessCreate, "cities", city)

	return success(c, http.StatusCreated, "City created", city)
}

// UpdateCity updates city fields and replaces the language's name pivot
func UpdateCity(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req struct {
		Status *bool   `json:"status"`
		Name   *string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	repo := cityRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load city", zap.String("city_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "City update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "City not found")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if req.Status != nil {
			if _, err := repo.WithTx(tx).Update(id, map[string]interface{}{"status": *req.Status}); err != nil {
				return err
			}
		}
		if req.Name != nil {
			_, err := repository.TranslateReplace(tx, repository.TranslateParams{
				Table:        "city_pivots",
				TargetKey:    "city_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         map[string]interface{}{"name": *req.Name},
			})
			return err
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update city", zap.String("city_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "City update failed")
	}

	snapshot := echo.Map{"id": id}
	if req.Status != nil {
		snapshot["status"] = *req.Status
	}
	if req.Name != nil {
		snapshot["name"] = *req.Name
	}

	prometheus.RecordEntityOperation("cities", "update")
	audit.Write(claims, audit.ProcessUpdate, "cities", snapshot)

	return success(c, http.StatusOK, "City updated", nil)
}

// DeleteCity soft-deletes a city with its pivots and districts
func DeleteCity(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := cityRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load city", zap.String("city_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "City deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "City not found")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		if err := repository.TranslateDelete(tx, "city_pivots", "city_id", id); err != nil {
			return err
		}
		return tx.Where("city_id = ?", id).Delete(&model.District{}).Error
	})
	if err != nil {
		log.Error("Failed to delete city", zap.String("city_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "City deletion failed")
	}

	prometheus.RecordEntityOperation("cities", "delete")
	audit.Write(claims, audit.ProcessDelete, "cities", existing)

	return success(c, http.StatusOK, "City deleted", nil)
}

// ListCityDistricts returns one flat row per district of the city
func ListCityDistricts(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	rows, err := cityRepo().OneToMany(id, "districts", "city_id",
		[]string{"cities.id AS city_id", "districts.id", "districts.name", "districts.status"}, nil)
	if err != nil {
		log.Error("Failed to list city districts", zap.String("city_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve districts")
	}

	return success(c, http.StatusOK, "Districts retrieved", rows)
}

// DistrictCreateRequest defines the district creation payload
type DistrictCreateRequest struct {
	CityID string `json:"city_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required"`
}

// CreateDistrict inserts a district under an existing city
func CreateDistrict(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	var req DistrictCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cityExists, err := cityRepo().Exists(map[string]interface{}{"id": req.CityID})
	if err != nil {
		log.Error("Failed to check district city", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "District creation failed")
	}
	if !cityExists {
		return fail(c, http.StatusBadRequest, "City not found")
	}

	district := model.District{CityID: req.CityID, Name: req.Name, Status: true}
	if err := districtRepo().Create(&district); err != nil {
		log.Error("Failed to create district", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "District creation failed")
	}

	prometheus.RecordEntityOperation("districts", "create")
	audit.Write(claims, audit.ProcessCreate, "districts", district)

	return success(c, http.StatusCreated, "District created", district)
}

// DeleteDistrict soft-deletes a district
func DeleteDistrict(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := districtRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load district", zap.String("district_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "District deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "District not found")
	}

	if err := repo.Delete(id); err != nil {
		log.Error("Failed to delete district", zap.String("district_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "District deletion failed")
	}

	prometheus.RecordEntityOperation("districts", "delete")
	audit.Write(claims, audit.ProcessDelete, "districts", existing)

	return success(c, http.StatusOK, "District deleted", nil)
}
