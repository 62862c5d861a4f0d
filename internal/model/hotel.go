package model

// Hotel is a supplier listing. Language-variant text lives in hotel_pivots.
// status=false means draft or rejected; admin_approval gates publication.
type Hotel struct {
	BaseModel
	SolutionPartnerID string `gorm:"type:uuid;index;not null" json:"solution_partner_id"`
	LocationID        string `gorm:"type:uuid;index;not null" json:"location_id"`
	StarRating        int    `gorm:"default:0" json:"star_rating"`
	Refundable        bool   `gorm:"default:false" json:"refundable"`
	Status            bool   `gorm:"default:false" json:"status"`
	AdminApproval     bool   `gorm:"default:false" json:"admin_approval"`
	Highlight         bool   `gorm:"default:false" json:"highlight"`
}

// HotelPivot holds language-specific hotel text, one active row per
// (hotel_id, language_code).
type HotelPivot struct {
	BaseModel
	HotelID      string `gorm:"type:uuid;index;not null" json:"hotel_id"`
	LanguageCode string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Name         string `gorm:"type:varchar(150);not null" json:"name"`
	GeneralInfo  string `gorm:"type:text" json:"general_info"`
	HotelInfo    string `gorm:"type:text" json:"hotel_info"`
	RefundPolicy string `gorm:"type:text" json:"refund_policy"`
}

// HotelRoom is a bookable room type under a hotel.
type HotelRoom struct {
	BaseModel
	HotelID      string  `gorm:"type:uuid;index;not null" json:"hotel_id"`
	Name         string  `gorm:"type:varchar(100);not null" json:"name"`
	Capacity     int     `gorm:"default:2" json:"capacity"`
	Price        float64 `gorm:"default:0" json:"price"`
	CurrencyCode string  `gorm:"type:varchar(3);default:'USD'" json:"currency_code"`
	Refundable   bool    `gorm:"default:false" json:"refundable"`
	Status       bool    `gorm:"default:true" json:"status"`
}

// HotelFeature is an amenity flag attached to a hotel.
type HotelFeature struct {
	BaseModel
	HotelID string `gorm:"type:uuid;index;not null" json:"hotel_id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Status  bool   `gorm:"default:true" json:"status"`
}

// HotelImage is a cover/list image for a hotel.
type HotelImage struct {
	BaseModel
	HotelID  string `gorm:"type:uuid;index;not null" json:"hotel_id"`
	ImageURL string `gorm:"type:text;not null" json:"image_url"`
	Ordering int    `gorm:"default:0" json:"ordering"`
}

// HotelGallery is a categorized gallery asset uploaded by the supplier.
type HotelGallery struct {
	BaseModel
	HotelID   string `gorm:"type:uuid;index;not null" json:"hotel_id"`
	ImageType string `gorm:"type:varchar(20);default:'image'" json:"image_type"`
	ImageURL  string `gorm:"type:text;not null" json:"image_url"`
	Category  string `gorm:"type:varchar(100)" json:"category"`
	Ordering  int    `json:"ordering"`
}
