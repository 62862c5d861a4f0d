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

// Partner tenants register themselves and stay inactive until an admin
// approves the account.

// PartnerRegisterRequest is the self-registration payload shared by both
// partner audiences.
type PartnerRegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Password    string `json:"password" validate:"required,min=8"`
	TaxNumber   string `json:"tax_number"`
	TaxOffice   string `json:"tax_office"`
	Address     string `json:"address"`
	CityID      string `json:"city_id" validate:"omitempty,uuid"`
}

// PartnerUpdateRequest carries partial partner profile updates
type PartnerUpdateRequest struct {
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	TaxNumber   *string `json:"tax_number"`
	TaxOffice   *string `json:"tax_office"`
	Address     *string `json:"address"`
	CityID      *string `json:"city_id" validate:"omitempty,uuid"`
}

func solutionPartnerRepo() *repository.Repository[model.SolutionPartner] {
	return repository.New[model.SolutionPartner](database.GetDB(), "solution_partners")
}

func salesPartnerRepo() *repository.Repository[model.SalesPartner] {
	return repository.New[model.SalesPartner](database.GetDB(), "sales_partners")
}

// RegisterSolutionPartner creates a pending supplier tenant
func RegisterSolutionPartner(c echo.Context) error {
	log := logger.FromContext(c)

	var req PartnerRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	duplicate, err := solutionPartnerRepo().Exists(map[string]interface{}{"email": req.Email})
	if err != nil {
		log.Error("Failed to check partner email", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Registration failed")
	}
	if duplicate {
		return fail(c, http.StatusBadRequest, "Email already exists")
	}

	partner := model.SolutionPartner{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		TaxNumber:   req.TaxNumber,
		TaxOffice:   req.TaxOffice,
		Address:     req.Address,
		CityID:      req.CityID,
	}
	if err := solutionPartnerRepo().Create(&partner); err != nil {
		log.Error("Failed to register solution partner", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Registration failed")
	}

	prometheus.RecordEntityOperation("solution_partners", "create")
	selfClaims := &jwtutil.UserClaims{Email: partner.Email, UserID: partner.ID, Role: "solution_partner"}
	audit.Write(selfClaims, audit.ProcessCreate, "solution_partners", partner)

	return success(c, http.StatusCreated, "Registration received, awaiting approval", partner)
}

// RegisterSalesPartner creates a pending reseller tenant
func RegisterSalesPartner(c echo.Context) error {
	log := logger.FromContext(c)

	var req PartnerRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	duplicate, err := salesPartnerRepo().Exists(map[string]interface{}{"email": req.Email})
	if err != nil {
		log.Error("Failed to check partner email", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Registration failed")
	}
	if duplicate {
		return fail(c, http.StatusBadRequest, "Email already exists")
	}

	partner := model.SalesPartner{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		TaxNumber:   req.TaxNumber,
		TaxOffice:   req.TaxOffice,
		Address:     req.Address,
		CityID:      req.CityID,
	}
	if err := salesPartnerRepo().Create(&partner); err != nil {
		log.Error("Failed to register sales partner", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Registration failed")
	}

	prometheus.RecordEntityOperation("sales_partners", "create")
	selfClaims := &jwtutil.UserClaims{Email: partner.Email, UserID: partner.ID, Role: "sales_partner"}
	audit.Write(selfClaims, audit.ProcessCreate, "sales_partners", partner)

	return success(c, http.StatusCreated, "Registration received, awaiting approval", partner)
}

// listPartners is the shared admin listing over either partner table
func listPartners(c echo.Context, table, message string) error {
	log := logger.FromContext(c)
	if _, ok := currentUser(c); !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	q := parseListQuery(c)

	filter := func(db *gorm.DB) *gorm.DB {
		if approval := c.QueryParam("admin_approval"); approval != "" {
			db = db.Where("admin_approval = ?", approval == "true")
		}
		if q.Search == "true" || q.Search == "false" {
			db = db.Where("status = ?", q.Search == "true")
		} else if q.Search != "" {
			db = db.Where("company_name ILIKE ? OR email ILIKE ?", "%"+q.Search+"%", "%"+q.Search+"%")
		}
		return db.Where("deleted_at IS NULL")
	}

	var total int64
	if err := database.GetDB().Table(table).Scopes(filter).Count(&total).Error; err != nil {
		log.Error("Failed to count partners", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve partners")
	}

	var partners []map[string]interface{}
	err := database.GetDB().Table(table).Scopes(filter).
		Select("id, company_name, email, phone, city_id, status, admin_approval, created_at").
		Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset()).
		Find(&partners).Error
	if err != nil {
		log.Error("Failed to list partners", zap.String("table", table), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve partners")
	}

	return paginated(c, message, partners, total, q)
}

// FindAllSolutionPartners lists supplier tenants for admins
func FindAllSolutionPartners(c echo.Context) error {
	return listPartners(c, "solution_partners", "Solution partners retrieved")
}

// FindAllSalesPartners lists reseller tenants for admins
func FindAllSalesPartners(c echo.Context) error {
	return listPartners(c, "sales_partners", "Sales partners retrieved")
}

// reviewPartner is the admin decision on a pending partner account. Approval
// activates the account; rejection deactivates it.
func reviewPartner(c echo.Context, table, label string) error {
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

	fields := map[string]interface{}{
		"admin_approval": req.Approve,
		"status":         req.Approve,
	}

	result := database.GetDB().Table(table).
		Where("id = ?", id).Where("deleted_at IS NULL").
		Updates(fields)
	if result.Error != nil {
		log.Error("Failed to review partner", zap.String("table", table), zap.Error(result.Error))
		return fail(c, http.StatusInternalServerError, label+" review failed")
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, label+" not found")
	}

	prometheus.RecordEntityOperation(table, "update")
	audit.Write(claims, audit.ProcessUpdate, table, echo.Map{"id": id, "admin_approval": req.Approve})

	message := label + " approved"
	if !req.Approve {
		message = label + " rejected"
	}
	return success(c, http.StatusOK, message, nil)
}

// ApproveSolutionPartner is the admin decision on a supplier tenant
func ApproveSolutionPartner(c echo.Context) error {
	return reviewPartner(c, "solution_partners", "Solution partner")
}

// ApproveSalesPartner is the admin decision on a reseller tenant
func ApproveSalesPartner(c echo.Context) error {
	return reviewPartner(c, "sales_partners", "Sales partner")
}

// UpdateSolutionPartner merges supplied fields into the caller's own profile
// or, for admins, any partner's profile.
func UpdateSolutionPartner(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	if claims.SolutionPartnerID != nil && *claims.SolutionPartnerID != id {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	var req PartnerUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := solutionPartnerRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load solution partner", zap.String("partner_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Partner update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Solution partner not found")
	}

	fields := partnerUpdateFields(&req)
	updated := existing
	if len(fields) > 0 {
		updated, err = repo.Update(id, fields)
		if err != nil {
			log.Error("Failed to update solution partner", zap.String("partner_id", id), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Partner update failed")
		}
	}

	prometheus.RecordEntityOperation("solution_partners", "update")
	audit.Write(claims, audit.ProcessUpdate, "solution_partners", updated)

	return success(c, http.StatusOK, "Solution partner updated", updated)
}

// UpdateSalesPartner merges supplied fields into a reseller tenant's profile
func UpdateSalesPartner(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	id := c.Param("id")
	if claims.SalesPartnerID != nil && *claims.SalesPartnerID != id {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	var req PartnerUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	repo := salesPartnerRepo()
	existing, err := repo.FindID(id)
	if err != nil {
		log.Error("Failed to load sales partner", zap.String("partner_id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Partner update failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Sales partner not found")
	}

	fields := partnerUpdateFields(&req)
	updated := existing
	if len(fields) > 0 {
		updated, err = repo.Update(id, fields)
		if err != nil {
			log.Error("Failed to update sales partner", zap.String("partner_id", id), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Partner update failed")
		}
	}

	prometheus.RecordEntityOperation("sales_partners", "update")
	audit.Write(claims, audit.ProcessUpdate, "sales_partners", updated)

	return success(c, http.StatusOK, "Sales partner updated", updated)
}

func partnerUpdateFields(req *PartnerUpdateRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if req.CompanyName != nil {
		fields["company_name"] = *req.CompanyName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Password != nil {
		fields["password"] = *req.Password
	}
	if req.TaxNumber != nil {
		fields["tax_number"] = *req.TaxNumber
	}
	if req.TaxOffice != nil {
		fields["tax_office"] = *req.TaxOffice
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.CityID != nil {
		fields["city_id"] = *req.CityID
	}
	return fields
}
