package model

import "time"

// Activity is a supplier listing for bookable activities.
type Activity struct {
	BaseModel
	SolutionPartnerID string `gorm:"type:uuid;index;not null" json:"solution_partner_id"`
	LocationID        string `gorm:"type:uuid;index;not null" json:"location_id"`
	DurationMinutes   int    `gorm:"default:60" json:"duration_minutes"`
	FreeCancellation  bool   `gorm:"default:false" json:"free_cancellation"`
	Status            bool   `gorm:"default:false" json:"status"`
	AdminApproval     bool   `gorm:"default:false" json:"admin_approval"`
	Highlight         bool   `gorm:"default:false" json:"highlight"`
}

// ActivityPivot holds language-specific activity text.
type ActivityPivot struct {
	BaseModel
	ActivityID   string `gorm:"type:uuid;index;not null" json:"activity_id"`
	LanguageCode string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Title        string `gorm:"type:varchar(150);not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	RefundPolicy string `gorm:"type:text" json:"refund_policy"`
}

// ActivityGallery is a gallery asset attached to an activity.
type ActivityGallery struct {
	BaseModel
	ActivityID string `gorm:"type:uuid;index;not null" json:"activity_id"`
	ImageType  string `gorm:"type:varchar(20);default:'image'" json:"image_type"`
	ImageURL   string `gorm:"type:text;not null" json:"image_url"`
}

// ActivityPackage is a dated, priced slot of an activity.
type ActivityPackage struct {
	BaseModel
	ActivityID   string    `gorm:"type:uuid;index;not null" json:"activity_id"`
	Price        float64   `gorm:"not null" json:"price"`
	CurrencyCode string    `gorm:"type:varchar(3);default:'USD'" json:"currency_code"`
	Date         time.Time `json:"date"`
	Quota        int       `gorm:"default:0" json:"quota"`
	Status       bool      `gorm:"default:true" json:"status"`
}
