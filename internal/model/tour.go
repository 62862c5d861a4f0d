package model

import "time"

// Tour is a supplier listing for multi-day tours.
type Tour struct {
	BaseModel
	SolutionPartnerID string `gorm:"type:uuid;index;not null" json:"solution_partner_id"`
	NightCount        int    `gorm:"default:0" json:"night_count"`
	DayCount          int    `gorm:"default:1" json:"day_count"`
	Refundable        bool   `gorm:"default:false" json:"refundable"`
	Status            bool   `gorm:"default:false" json:"status"`
	AdminApproval     bool   `gorm:"default:false" json:"admin_approval"`
	Highlight         bool   `gorm:"default:false" json:"highlight"`
}

// TourPivot holds language-specific tour text.
type TourPivot struct {
	BaseModel
	TourID       string `gorm:"type:uuid;index;not null" json:"tour_id"`
	LanguageCode string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Title        string `gorm:"type:varchar(150);not null" json:"title"`
	GeneralInfo  string `gorm:"type:text" json:"general_info"`
	TourProgram  string `gorm:"type:text" json:"tour_program"`
	RefundPolicy string `gorm:"type:text" json:"refund_policy"`
}

// TourPackage is a dated, priced departure of a tour.
type TourPackage struct {
	BaseModel
	TourID        string    `gorm:"type:uuid;index;not null" json:"tour_id"`
	Price         float64   `gorm:"not null" json:"price"`
	CurrencyCode  string    `gorm:"type:varchar(3);default:'USD'" json:"currency_code"`
	DepartureDate time.Time `json:"departure_date"`
	Quota         int       `gorm:"default:0" json:"quota"`
	Status        bool      `gorm:"default:true" json:"status"`
}

// TourGallery is a gallery asset attached to a tour.
type TourGallery struct {
	BaseModel
	TourID    string `gorm:"type:uuid;index;not null" json:"tour_id"`
	ImageType string `gorm:"type:varchar(20);default:'image'" json:"image_type"`
	ImageURL  string `gorm:"type:text;not null" json:"image_url"`
}
