package child

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Child is the registration record owned by the patient-management subsystem.
// This service only ever reads it: the id and birth date drive eligibility
// display, nothing here mutates the row.
type Child struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Sex         Sex       `gorm:"column:sex;type:varchar(10);not null"`

	MotherName string `gorm:"column:mother_name;type:varchar(200)"`
	Address    string `gorm:"column:address;type:text"`
}

func (Child) TableName() string {
	return "clinical.children"
}

func (c *Child) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// AgeAt renders the child's age at a reference time in the units health
// workers record on immunization cards: days under one month, months under
// two years, years beyond.
func (c *Child) AgeAt(at time.Time) string {
	if at.Before(c.DateOfBirth) {
		return "0 days"
	}

	days := int(at.Sub(c.DateOfBirth).Hours() / 24)
	switch {
	case days < 31:
		return fmt.Sprintf("%d days", days)
	case days < 730:
		return fmt.Sprintf("%d months", days/30)
	default:
		return fmt.Sprintf("%d years", days/365)
	}
}
