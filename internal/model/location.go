package model

// Country is a language-invariant country row; display names live in country_pivots.
type Country struct {
	BaseModel
	Code      string `gorm:"type:varchar(2);uniqueIndex" json:"code"`
	PhoneCode string `gorm:"type:varchar(8)" json:"phone_code"`
	Status    bool   `gorm:"default:true" json:"status"`
}

// CountryPivot holds the language-specific name of a country.
type CountryPivot struct {
	BaseModel
	CountryID    string `gorm:"type:uuid;index;not null" json:"country_id"`
	LanguageCode string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
}

// City belongs to a country; display names live in city_pivots.
type City struct {
	BaseModel
	CountryID string `gorm:"type:uuid;index;not null" json:"country_id"`
	Status    bool   `gorm:"default:true" json:"status"`
}

// CityPivot holds the language-specific name of a city.
type CityPivot struct {
	BaseModel
	CityID       string `gorm:"type:uuid;index;not null" json:"city_id"`
	LanguageCode string `gorm:"type:varchar(5);index;not null" json:"language_code"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
}

// District belongs to a city. Districts are not translated.
type District struct {
	BaseModel
	CityID string `gorm:"type:uuid;index;not null" json:"city_id"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Status bool   `gorm:"default:true" json:"status"`
}
