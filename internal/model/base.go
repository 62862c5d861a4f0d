package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides shared fields for all persistent models.
// Soft deletion is universal: deleted_at gates every read.
type BaseModel struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate ensures UUID identifiers are generated automatically.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All returns every model registered for migration, leaves first.
func All() []interface{} {
	return []interface{}{
		&Country{}, &CountryPivot{}, &City{}, &CityPivot{}, &District{},
		&Admin{}, &User{},
		&SolutionPartner{}, &SalesPartner{},
		&Dealer{}, &DealerUser{}, &DealerCommission{}, &DealerDocument{},
		&Hotel{}, &HotelPivot{}, &HotelRoom{}, &HotelFeature{}, &HotelImage{}, &HotelGallery{},
		&Tour{}, &TourPivot{}, &TourPackage{}, &TourGallery{},
		&Activity{}, &ActivityPivot{}, &ActivityGallery{}, &ActivityPackage{},
		&CarRental{}, &CarRentalPivot{},
		&Visa{}, &VisaPivot{},
		&Permission{}, &Log{},
	}
}
