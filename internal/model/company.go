package model

import "time"

type OrgType string

const (
	OrgPrivate    OrgType = "Private"
	OrgPublic     OrgType = "Public"
	OrgNonProfit  OrgType = "Non-Profit"
	OrgGovernment OrgType = "Government"
	OrgStartup    OrgType = "Startup"
)

func (t OrgType) IsValid() bool {
	switch t {
	case OrgPrivate, OrgPublic, OrgNonProfit, OrgGovernment, OrgStartup:
		return true
	}
	return false
}

type IndustryType string

const (
	IndustryTechnology    IndustryType = "Technology"
	IndustryFinance       IndustryType = "Finance"
	IndustryHealthcare    IndustryType = "Healthcare"
	IndustryEducation     IndustryType = "Education"
	IndustryRetail        IndustryType = "Retail"
	IndustryManufacturing IndustryType = "Manufacturing"
	IndustryOther         IndustryType = "Other"
)

func (t IndustryType) IsValid() bool {
	switch t {
	case IndustryTechnology, IndustryFinance, IndustryHealthcare, IndustryEducation,
		IndustryRetail, IndustryManufacturing, IndustryOther:
		return true
	}
	return false
}

// TeamSize values use an en dash, matching the client's option labels.
type TeamSize string

const (
	TeamSmall      TeamSize = "1–10"
	TeamMedium     TeamSize = "11–50"
	TeamLarge      TeamSize = "51–200"
	TeamExtraLarge TeamSize = "201–500"
	TeamEnterprise TeamSize = "500+"
)

func (t TeamSize) IsValid() bool {
	switch t {
	case TeamSmall, TeamMedium, TeamLarge, TeamExtraLarge, TeamEnterprise:
		return true
	}
	return false
}

// Company is the employer profile; one per user, enforced by the unique index
// on UserID.
type Company struct {
	ID              uint         `json:"id" gorm:"primaryKey"`
	UserID          uint         `json:"userId" gorm:"uniqueIndex;not null"`
	CompanyName     string       `json:"companyName" gorm:"type:varchar(255);not null"`
	OrgType         OrgType      `json:"orgType" gorm:"type:varchar(50);not null"`
	IndustryType    IndustryType `json:"industryType" gorm:"type:varchar(50);not null"`
	TeamSize        TeamSize     `json:"teamSize" gorm:"type:varchar(20);not null"`
	YearEstablished string       `json:"yearEstablished" gorm:"type:varchar(20);not null"`
	AboutUs         string       `json:"aboutUs" gorm:"type:text;not null"`
	Location        string       `json:"location" gorm:"type:varchar(255);not null"`
	Phone           string       `json:"phone" gorm:"type:varchar(50);not null"`
	Email           string       `json:"email" gorm:"type:varchar(255);not null"`
	LogoURL         string       `json:"logo,omitempty" gorm:"type:text"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}
