package model

import (
	"time"

	"github.com/lib/pq"
)

type JobRole string

const (
	RoleDesigner  JobRole = "Designer"
	RoleDeveloper JobRole = "Developer"
	RoleManager   JobRole = "Manager"
	RoleAnalyst   JobRole = "Analyst"
)

func (r JobRole) IsValid() bool {
	switch r {
	case RoleDesigner, RoleDeveloper, RoleManager, RoleAnalyst:
		return true
	}
	return false
}

type SalaryType string

const (
	SalaryYearly  SalaryType = "Yearly"
	SalaryMonthly SalaryType = "Monthly"
	SalaryWeekly  SalaryType = "Weekly"
)

func (s SalaryType) IsValid() bool {
	switch s {
	case SalaryYearly, SalaryMonthly, SalaryWeekly:
		return true
	}
	return false
}

type EducationLevel string

const (
	EducationGraduation     EducationLevel = "Graduation"
	EducationPostGraduation EducationLevel = "Post Graduation"
	EducationPhD            EducationLevel = "PhD"
)

func (e EducationLevel) IsValid() bool {
	switch e {
	case EducationGraduation, EducationPostGraduation, EducationPhD:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceOneToTwo  ExperienceLevel = "1-2 years"
	ExperienceTwoToFive ExperienceLevel = "2-5 years"
	ExperienceFivePlus  ExperienceLevel = "5+ years"
)

func (e ExperienceLevel) IsValid() bool {
	switch e {
	case ExperienceOneToTwo, ExperienceTwoToFive, ExperienceFivePlus:
		return true
	}
	return false
}

type JobType string

const (
	JobFullTime JobType = "Full Time"
	JobPartTime JobType = "Part Time"
	JobContract JobType = "Contract"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobFullTime, JobPartTime, JobContract:
		return true
	}
	return false
}

type JobLevel string

const (
	LevelEntry  JobLevel = "Entry Level"
	LevelMid    JobLevel = "Mid Level"
	LevelSenior JobLevel = "Senior Level"
)

func (l JobLevel) IsValid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior:
		return true
	}
	return false
}

// JobStatus is stored as written. Expired is never set by the server; the
// read-time timeStatus label carries expiry instead.
type JobStatus string

const (
	StatusActive  JobStatus = "Active"
	StatusExpired JobStatus = "Expired"
	StatusDraft   JobStatus = "Draft"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusDraft:
		return true
	}
	return false
}

const (
	DefaultCurrency   = "USD"
	DefaultApplicants = 10
)

// Job is a posting owned by an employer and linked to that employer's
// company. The validate tags are the posting schema, checked after request
// coercion on both create and update.
type Job struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	EmployerID      uint            `json:"employerId" gorm:"index;not null"`
	CompanyID       uint            `json:"companyId" gorm:"index;not null"`
	JobTitle        string          `json:"jobTitle" gorm:"type:varchar(255);not null" validate:"required,min=5"`
	Tags            pq.StringArray  `json:"tags" gorm:"type:text[]" validate:"-"`
	JobRole         JobRole         `json:"jobRole" gorm:"type:varchar(50);not null" validate:"required,enum"`
	MinSalary       float64         `json:"minSalary" gorm:"not null"`
	MaxSalary       float64         `json:"maxSalary" gorm:"not null"`
	SalaryType      SalaryType      `json:"salaryType" gorm:"type:varchar(20);not null" validate:"required,enum"`
	Currency        string          `json:"currency" gorm:"type:varchar(10);not null;default:'USD'" validate:"required"`
	EducationLevel  EducationLevel  `json:"educationLevel" gorm:"type:varchar(50);not null" validate:"required,enum"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" gorm:"type:varchar(50);not null" validate:"required,enum"`
	JobType         JobType         `json:"jobType" gorm:"type:varchar(50);not null" validate:"required,enum"`
	JobLevel        JobLevel        `json:"jobLevel" gorm:"type:varchar(50);not null" validate:"required,enum"`
	ExpirationDate  *time.Time      `json:"expirationDate" gorm:"not null" validate:"required"`
	Country         string          `json:"country" gorm:"type:varchar(100);not null" validate:"required"`
	State           string          `json:"state" gorm:"type:varchar(100);not null" validate:"required"`
	IsRemote        bool            `json:"isRemote" gorm:"default:false"`
	Description     string          `json:"description" gorm:"type:text;not null" validate:"required,min=50"`
	Requirements    string          `json:"requirements" gorm:"type:text;default:''"`
	Status          JobStatus       `json:"status" gorm:"type:varchar(20);not null;default:'Active';index" validate:"required,enum"`
	Applicants      int             `json:"applicants" gorm:"default:10"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Employer *User    `json:"-" gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE"`
	Company  *Company `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// NewJob returns a posting for employerID/companyID carrying the defaults a
// fresh posting starts with.
func NewJob(employerID, companyID uint) *Job {
	return &Job{
		EmployerID: employerID,
		CompanyID:  companyID,
		Tags:       pq.StringArray{},
		Currency:   DefaultCurrency,
		Status:     StatusActive,
		Applicants: DefaultApplicants,
	}
}

// Clone returns a copy that shares no slices or pointers with j
func (j *Job) Clone() *Job {
	c := *j
	c.Tags = append(pq.StringArray{}, j.Tags...)
	if j.ExpirationDate != nil {
		d := *j.ExpirationDate
		c.ExpirationDate = &d
	}
	if j.Company != nil {
		co := *j.Company
		c.Company = &co
	}
	c.Employer = nil
	return &c
}
