package model

// SolutionPartner is a supplier tenant: the owner of hotels, tours,
// activities, car rentals and visa services offered on the platform.
type SolutionPartner struct {
	BaseModel
	CompanyName   string `gorm:"type:varchar(150);not null" json:"company_name"`
	Email         string `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone         string `gorm:"type:varchar(20)" json:"phone"`
	Password      string `gorm:"type:varchar(100)" json:"-"`
	TaxNumber     string `gorm:"type:varchar(50)" json:"tax_number"`
	TaxOffice     string `gorm:"type:varchar(100)" json:"tax_office"`
	Address       string `gorm:"type:text" json:"address"`
	CityID        string `gorm:"type:uuid;index" json:"city_id"`
	Status        bool   `gorm:"default:false" json:"status"`
	AdminApproval bool   `gorm:"default:false" json:"admin_approval"`
}

// SalesPartner is a reseller tenant that books supplier inventory
// on behalf of end customers.
type SalesPartner struct {
	BaseModel
	CompanyName   string `gorm:"type:varchar(150);not null" json:"company_name"`
	Email         string `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone         string `gorm:"type:varchar(20)" json:"phone"`
	Password      string `gorm:"type:varchar(100)" json:"-"`
	TaxNumber     string `gorm:"type:varchar(50)" json:"tax_number"`
	TaxOffice     string `gorm:"type:varchar(100)" json:"tax_office"`
	Address       string `gorm:"type:text" json:"address"`
	CityID        string `gorm:"type:uuid;index" json:"city_id"`
	Status        bool   `gorm:"default:false" json:"status"`
	AdminApproval bool   `gorm:"default:false" json:"admin_approval"`
}

func (p *SolutionPartner) HashPassword() error {
	hashed, err := hashPassword(p.Password)
	if err != nil {
		return err
	}
	p.Password = hashed
	return nil
}

func (p *SalesPartner) HashPassword() error {
	hashed, err := hashPassword(p.Password)
	if err != nil {
		return err
	}
	p.Password = hashed
	return nil
}
