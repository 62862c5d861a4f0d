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

// VisaCreateRequest defines the visa service creation payload
type VisaCreateRequest struct {
	CountryID          string `json:"country_id" validate:"required,uuid"`
	ApprovalPeriodDays int    `json:"approval_period_days" validate:"gte=0"`
	Refundable         bool   `json:"refundable"`
	Title              string `json:"title" validate:"required"`
	GeneralInfo        string `json:"general_info"`
	RequiredDocuments  string `json:"required_documents"`
	RefundPolicy       string `json:"refund_policy"`
}

// VisaUpdateRequest carries partial visa service updates
type VisaUpdateRequest struct {
	CountryID          *string `json:"country_id" validate:"omitempty,uuid"`
	ApprovalPeriodDays *int    `json:"approval_period_days" validate:"omitempty,gte=0"`
	Refundable         *bool   `json:"refundable"`
	Highlight          *bool   `json:"highlight"`
	Title              *string `json:"title"`
	GeneralInfo        *string `json:"general_info"`
	RequiredDocuments  *string `json:"required_documents"`
	RefundPolicy       *string `json:"refund_policy"`
}

func visaRepo() *repository.Repository[model.Visa] {
	return repository.New[model.Visa](database.GetDB(), "visas")
}

// FindAllVisas lists visa services with the request language's translation
func FindAllVisas(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)
	language := middleware.Language(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN visa_pivots ON visa_pivots.visa_id = visas.id AND visa_pivots.language_code = ? AND visa_pivots.deleted_at IS NULL", language)
		if scope := partnerID(claims); scope != "" {
			db = db.Where("visas.solution_partner_id = ?", scope)
		}
		if countryID := c.QueryParam("country_id"); countryID != "" {
			db = db.Where("visas.country_id = ?", countryID)
		}
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("visas.status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("visa_pivots.title ILIKE ?", "%"+q.Search+"%")
		}
		return db
	}

	var total int64
	if err := database.GetDB().Model(&model.Visa{}).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count visas", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve visas")
	}

	var visas []map[string]interface{}
	err := database.GetDB().Model(&model.Visa{}).Scopes(filter).
		Select("visas.*, visa_pivots.title, visa_pivots.general_info").
		Order("visas.created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&visas).Error
	if err != nil {
		log.Error("Failed to list visas", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve visas")
	}

	return paginated(c, "Visas retrieved", visas, total, q)
}

// FindOneVisa returns one visa service with its translation
func FindOneVisa(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	language := middleware.Language(c)

	visa, err := visaRepo().FindID(id)
	if err != nil {
		log.Error("Failed to load visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve visa")
	}
	if visa == nil {
		return fail(c, http.StatusNotFound, "Visa not found")
	}

	pivot, err := repository.New[model.VisaPivot](database.GetDB(), "visa_pivots").
		First(map[string]interface{}{"visa_id": id, "language_code": language})
	if err != nil {
		log.Error("Failed to load visa translation", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve visa")
	}

	return success(c, http.StatusOK, "Visa retrieved", echo.Map{
		"visa":        visa,
		"translation": pivot,
	})
}

// CreateVisa creates the base row and its pivot in one transaction
func CreateVisa(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	if claims.SolutionPartnerID == nil {
		return fail(c, http.StatusBadRequest, "Solution partner context required")
	}
	language := middleware.Language(c)

	var req VisaCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse visa creation request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	countryExists, err := repository.New[model.Country](database.GetDB(), "countries").
		Exists(map[string]interface{}{"id": req.CountryID})
	if err != nil {
		log.Error("Failed to check visa country", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa creation failed")
	}
	if !countryExists {
		return fail(c, http.StatusBadRequest, "Country not found")
	}

	visa := model.Visa{
		SolutionPartnerID:  *claims.SolutionPartnerID,
		CountryID:          req.CountryID,
		ApprovalPeriodDays: req.ApprovalPeriodDays,
		Refundable:         req.Refundable,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := visaRepo().WithTx(tx).Create(&visa); err != nil {
			return err
		}
		_, err := repository.TranslateCreate(tx, repository.TranslateParams{
			Table:        "visa_pivots",
			TargetKey:    "visa_id",
			TargetID:     visa.ID,
			LanguageCode: language,
			Data: map[string]interface{}{
				"title":              req.Title,
				"general_info":       req.GeneralInfo,
				"required_documents": req.RequiredDocuments,
				"refund_policy":      req.RefundPolicy,
			},
		})
		return err
	})
	if err != nil {
		log.Error("Failed to create visa", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa creation failed")
	}

	prometheus.RecordEntityOperation("visas", "create")
	audit.Write(claims, audit.ProcessCreate, "visas", visa)

	return success(c, http.StatusCreated, "Visa created", visa)
}

// UpdateVisa merges supplied fields and resets approval state
func UpdateVisa(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	language := middleware.Language(c)

	var req VisaUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse visa update request", zap.Error(err))
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := visaRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Visa not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	if req.CountryID != nil {
		countryExists, err := repository.New[model.Country](database.GetDB(), "countries").
			Exists(map[string]interface{}{"id": *req.CountryID})
		if err != nil {
			log.Error("Failed to check visa country", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Visa update failed")
		}
		if !countryExists {
			return fail(c, http.StatusBadRequest, "Country not found")
		}
	}

	fields := map[string]interface{}{}
	if req.CountryID != nil {
		fields["country_id"] = *req.CountryID
	}
	if req.ApprovalPeriodDays != nil {
		fields["approval_period_days"] = *req.ApprovalPeriodDays
	}
	if req.Refundable != nil {
		fields["refundable"] = *req.Refundable
	}
	if req.Highlight != nil {
		fields["highlight"] = *req.Highlight
	}

	translation := map[string]interface{}{}
	if req.Title != nil {
		translation["title"] = *req.Title
	}
	if req.GeneralInfo != nil {
		translation["general_info"] = *req.GeneralInfo
	}
	if req.RequiredDocuments != nil {
		translation["required_documents"] = *req.RequiredDocuments
	}
	if req.RefundPolicy != nil {
		translation["refund_policy"] = *req.RefundPolicy
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			fields["status"] = false
			fields["admin_approval"] = false
			if _, err := repo.WithTx(tx).Update(id, fields); err != nil {
				return err
			}
		}
		if len(translation) > 0 {
			return repository.TranslateUpdate(tx, repository.TranslateParams{
				Table:        "visa_pivots",
				TargetKey:    "visa_id",
				TargetID:     id,
				LanguageCode: language,
				Data:         translation,
			})
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa update failed")
	}

	updated, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to reload visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa update failed")
	}

	prometheus.RecordEntityOperation("visas", "update")
	audit.Write(claims, audit.ProcessUpdate, "visas", updated)

	return success(c, http.StatusOK, "Visa updated", updated)
}

// DeleteVisa soft-deletes the base row and its pivots
func DeleteVisa(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := visaRepo()

	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Visa not found")
	}
	if scope := partnerID(claims); scope != "" && existing.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return repository.TranslateDelete(tx, "visa_pivots", "visa_id", id)
	})
	if err != nil {
		log.Error("Failed to delete visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Visa deletion failed")
	}

	prometheus.RecordEntityOperation("visas", "delete")
	audit.Write(claims, audit.ProcessDelete, "visas", existing)

	return success(c, http.StatusOK, "Visa deleted", nil)
}

// SendVisaForApproval submits a visa service for review. Visas have no child
// tables, so readiness only requires a translation row.
func SendVisaForApproval(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")

	repo := visaRepo()

	visa, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load visa", zap.String("visa_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}
	if visa == nil {
		return fail(c, http.StatusNotFound, "Visa not found")
	}
	if scope := partnerID(claims); scope != "" && visa.SolutionPartnerID != scope {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	translated, err := repository.New[model.VisaPivot](database.GetDB(), "visa_pivots").
		Exists(map[string]interface{}{"visa_id": id})
	if err != nil {
		log.Error("Failed readiness check", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Approval submission failed")
	}

	checks := map[string]bool{"translation": translated}
	if translated {
		if _, err := repo.Update(id, map[string]interface{}{"status": true}); err != nil {
			log.Error("Failed to submit visa for approval", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Approval submission failed")
		}
		visa.Status = true
		prometheus.ApprovalSubmissionCounter.WithLabelValues("visa", "accepted").Inc()
		audit.Write(claims, audit.ProcessUpdate, "visas", visa)
	} else {
		prometheus.ApprovalSubmissionCounter.WithLabelValues("visa", "incomplete").Inc()
	}

	return success(c, http.StatusOK, "Approval check completed", echo.Map{
		"checks":    checks,
		"completed": translated,
		"status":    visa.Status,
	})
}

// ApproveVisa is the admin review decision for a visa service
func ApproveVisa(c echo.Context) error {
	return reviewListing(c, "visas", "Visa")
}
