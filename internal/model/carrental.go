package model

// CarRental is a supplier listing for rental vehicles.
type CarRental struct {
	BaseModel
	SolutionPartnerID string `gorm:"type:uuid;index;not null" json:"solution_partner_id"`
	LocationID        string `gorm:"type:uuid;index;not null" json:"location_id"`
	CarType           string `gorm:"type:varchar(50)" json:"car_type"`
	GearType          string `gorm:"type:varchar(20)" json:"gear_type"`
	SeatCount         int    `gorm:"default:5" json:"seat_count"`
	Status            bool   `gorm:"default:false" json:"status"`
	AdminApproval     bool   `gorm:"default:false" json:"admin_approval"`
	Highlight         bool   `gorm:"default:false" json:"highlight"`
}

// CarRentalPivot holds language-specific car rental text.
type CarRentalPivot struct {
	BaseModel
	CarRentalID  string `gorm:"type:uuid;index;not null" json:"car_rental_id"`
	LanguageCode string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Title        string `gorm:"type:varchar(150);not null" json:"title"`
	GeneralInfo  string `gorm:"type:text" json:"general_info"`
	RefundPolicy string `gorm:"type:text" json:"refund_policy"`
}
