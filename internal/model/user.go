package model

import "golang.org/x/crypto/bcrypt"

// Admin is a platform operator account.
type Admin struct {
	BaseModel
	NameSurname string `gorm:"type:varchar(100);not null" json:"name_surname"`
	Email       string `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone       string `gorm:"type:varchar(20)" json:"phone"`
	Password    string `gorm:"type:varchar(100)" json:"-"`
	Status      bool   `gorm:"default:true" json:"status"`
}

// User is an end customer account.
type User struct {
	BaseModel
	NameSurname string `gorm:"type:varchar(100);not null" json:"name_surname"`
	Email       string `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone       string `gorm:"type:varchar(20)" json:"phone"`
	Password    string `gorm:"type:varchar(100)" json:"-"`
	Status      bool   `gorm:"default:true" json:"status"`
}

// DealerUser is a staff account scoped to a dealer.
type DealerUser struct {
	BaseModel
	DealerID    string `gorm:"type:uuid;index;not null" json:"dealer_id"`
	NameSurname string `gorm:"type:varchar(100);not null" json:"name_surname"`
	Email       string `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone       string `gorm:"type:varchar(20)" json:"phone"`
	Password    string `gorm:"type:varchar(100)" json:"-"`
	Status      bool   `gorm:"default:true" json:"status"`
}

func hashPassword(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// HashPassword replaces the plaintext password with its bcrypt digest.
func (a *Admin) HashPassword() error {
	hashed, err := hashPassword(a.Password)
	if err != nil {
		return err
	}
	a.Password = hashed
	return nil
}

func (u *User) HashPassword() error {
	hashed, err := hashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

func (d *DealerUser) HashPassword() error {
	hashed, err := hashPassword(d.Password)
	if err != nil {
		return err
	}
	d.Password = hashed
	return nil
}
