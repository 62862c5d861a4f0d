package model

// Visa is a supplier listing for visa application services.
type Visa struct {
	BaseModel
	SolutionPartnerID  string `gorm:"type:uuid;index;not null" json:"solution_partner_id"`
	CountryID          string `gorm:"type:uuid;index;not null" json:"country_id"`
	ApprovalPeriodDays int    `gorm:"default:0" json:"approval_period_days"`
	Refundable         bool   `gorm:"default:false" json:"refundable"`
	Status             bool   `gorm:"default:false" json:"status"`
	AdminApproval      bool   `gorm:"default:false" json:"admin_approval"`
	Highlight          bool   `gorm:"default:false" json:"highlight"`
}

// VisaPivot holds language-specific visa service text.
type VisaPivot struct {
	BaseModel
	VisaID            string `gorm:"type:uuid;index;not null" json:"visa_id"`
	LanguageCode      string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Title             string `gorm:"type:varchar(150);not null" json:"title"`
	GeneralInfo       string `gorm:"type:text" json:"general_info"`
	RequiredDocuments string `gorm:"type:text" json:"required_documents"`
	RefundPolicy      string `gorm:"type:text" json:"refund_policy"`
}
