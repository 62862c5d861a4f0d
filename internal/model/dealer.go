package model

import "time"

// Dealer is a reseller agency managed by platform admins.
type Dealer struct {
	BaseModel
	Name          string  `gorm:"type:varchar(150);not null" json:"name"`
	Email         string  `gorm:"type:varchar(100)" json:"email"`
	Phone         string  `gorm:"type:varchar(20)" json:"phone"`
	TaxNumber     string  `gorm:"type:varchar(50)" json:"tax_number"`
	TaxOffice     string  `gorm:"type:varchar(100)" json:"tax_office"`
	Address       string  `gorm:"type:text" json:"address"`
	CityID        string  `gorm:"type:uuid;index" json:"city_id"`
	DistrictID    string  `gorm:"type:uuid;index" json:"district_id"`
	BalanceLimit  float64 `gorm:"default:0" json:"balance_limit"`
	Status        bool    `gorm:"default:true" json:"status"`
	AdminApproval bool    `gorm:"default:false" json:"admin_approval"`
}

// DealerDocument is a file kept on record for a dealer, such as a trade
// license or a signed contract. ExpiresAt is nil for documents that do not
// lapse.
type DealerDocument struct {
	BaseModel
	DealerID  string     `gorm:"type:uuid;index;not null" json:"dealer_id"`
	Title     string     `gorm:"type:varchar(150);not null" json:"title"`
	FileURL   string     `gorm:"type:text;not null" json:"file_url"`
	ExpiresAt *time.Time `json:"expires_at"`
	Status    bool       `json:"status"`
}

// DealerCommission is the commission rate a dealer earns on one product type.
type DealerCommission struct {
	BaseModel
	DealerID       string  `gorm:"type:uuid;index;not null" json:"dealer_id"`
	ProductType    string  `gorm:"type:varchar(50);not null" json:"product_type"` // hotel | tour | activity | car_rental | visa
	CommissionRate float64 `gorm:"not null" json:"commission_rate"`
	Status         bool    `gorm:"default:true" json:"status"`
}
