package dto

import (
	"io"
	"strings"

	"jobpilot-service/internal/model"
)

// CompanyRequest is bound from either a multipart form or a JSON body
type CompanyRequest struct {
	CompanyName     string             `json:"companyName" form:"companyName" validate:"required"`
	OrgType         model.OrgType      `json:"orgType" form:"orgType" validate:"required,enum"`
	IndustryType    model.IndustryType `json:"industryType" form:"industryType" validate:"required,enum"`
	TeamSize        model.TeamSize     `json:"teamSize" form:"teamSize" validate:"required,enum"`
	YearEstablished string             `json:"yearEstablished" form:"yearEstablished" validate:"required"`
	AboutUs         string             `json:"aboutUs" form:"aboutUs" validate:"required"`
	Location        string             `json:"location" form:"location" validate:"required"`
	Phone           string             `json:"phone" form:"phone" validate:"required"`
	Email           string             `json:"email" form:"email" validate:"required"`
}

// Trim strips surrounding whitespace so blank values count as missing. The
// email is also lower-cased.
func (r *CompanyRequest) Trim() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.OrgType = model.OrgType(strings.TrimSpace(string(r.OrgType)))
	r.IndustryType = model.IndustryType(strings.TrimSpace(string(r.IndustryType)))
	r.TeamSize = model.TeamSize(strings.TrimSpace(string(r.TeamSize)))
	r.YearEstablished = strings.TrimSpace(r.YearEstablished)
	r.AboutUs = strings.TrimSpace(r.AboutUs)
	r.Location = strings.TrimSpace(r.Location)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = model.NormalizeIdentifier(r.Email)
}

func (r *CompanyRequest) Company(userID uint) *model.Company {
	return &model.Company{
		UserID:          userID,
		CompanyName:     r.CompanyName,
		OrgType:         r.OrgType,
		IndustryType:    r.IndustryType,
		TeamSize:        r.TeamSize,
		YearEstablished: r.YearEstablished,
		AboutUs:         r.AboutUs,
		Location:        r.Location,
		Phone:           r.Phone,
		Email:           r.Email,
	}
}

// LogoFile is an uploaded logo as received from the client
type LogoFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CompanyResponse struct {
	Message string         `json:"message"`
	Company *model.Company `json:"company"`
}
