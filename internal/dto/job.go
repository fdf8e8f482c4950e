package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobpilot-service/internal/jobquery"
	"jobpilot-service/internal/model"

	"github.com/lib/pq"
)

// TagList accepts either a JSON array of strings or a single string whose
// tags are separated by spaces and/or commas.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = SplitTags(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings")
	}
	out := make(TagList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*t = out
	return nil
}

// SplitTags splits s on runs of spaces and commas, dropping empty pieces
func SplitTags(s string) TagList {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	tags := make(TagList, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}

// Salary accepts a JSON number or a formatted string such as "$50,000".
// Strings keep only digits and dots; anything unparseable becomes 0.
type Salary float64

func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = ParseSalary(raw)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*s = Salary(f)
	default:
		*s = 0
	}
	return nil
}

func ParseSalary(raw string) Salary {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return Salary(f)
}

const dateOnly = "2006-01-02"

// ParseExpirationDate accepts RFC 3339 timestamps and plain dates. Plain
// dates are midnight in the server's local time zone.
func ParseExpirationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateOnly, s, time.Local)
}

// JobRequest is the create/update body. Nil fields were absent from the
// request; on update they leave the stored value untouched.
type JobRequest struct {
	JobTitle        *string                `json:"jobTitle"`
	Tags            *TagList               `json:"tags"`
	JobRole         *model.JobRole         `json:"jobRole"`
	MinSalary       *Salary                `json:"minSalary"`
	MaxSalary       *Salary                `json:"maxSalary"`
	SalaryType      *model.SalaryType      `json:"salaryType"`
	Currency        *string                `json:"currency"`
	EducationLevel  *model.EducationLevel  `json:"educationLevel"`
	ExperienceLevel *model.ExperienceLevel `json:"experienceLevel"`
	JobType         *model.JobType         `json:"jobType"`
	JobLevel        *model.JobLevel        `json:"jobLevel"`
	ExpirationDate  *string                `json:"expirationDate"`
	Country         *string                `json:"country"`
	State           *string                `json:"state"`
	IsRemote        *bool                  `json:"isRemote"`
	Description     *string                `json:"description"`
	Requirements    *string                `json:"requirements"`
	Status          *model.JobStatus       `json:"status"`
}

// ApplyTo copies the provided fields onto job. An empty expirationDate keeps
// the current one. The returned map holds fields whose values could not be
// interpreted at all; schema rules are checked afterwards on the job itself.
func (r *JobRequest) ApplyTo(job *model.Job) map[string]string {
	var fields map[string]string

	setString(&job.JobTitle, r.JobTitle)
	if r.Tags != nil {
		job.Tags = pq.StringArray(*r.Tags)
	}
	if r.JobRole != nil {
		job.JobRole = *r.JobRole
	}
	if r.MinSalary != nil {
		job.MinSalary = float64(*r.MinSalary)
	}
	if r.MaxSalary != nil {
		job.MaxSalary = float64(*r.MaxSalary)
	}
	if r.SalaryType != nil {
		job.SalaryType = *r.SalaryType
	}
	setString(&job.Currency, r.Currency)
	if r.EducationLevel != nil {
		job.EducationLevel = *r.EducationLevel
	}
	if r.ExperienceLevel != nil {
		job.ExperienceLevel = *r.ExperienceLevel
	}
	if r.JobType != nil {
		job.JobType = *r.JobType
	}
	if r.JobLevel != nil {
		job.JobLevel = *r.JobLevel
	}
	if r.ExpirationDate != nil && strings.TrimSpace(*r.ExpirationDate) != "" {
		t, err := ParseExpirationDate(*r.ExpirationDate)
		if err != nil {
			fields = map[string]string{
				"expirationDate": fmt.Sprintf("'%s' is not a valid date", *r.ExpirationDate),
			}
		} else {
			job.ExpirationDate = &t
		}
	}
	setString(&job.Country, r.Country)
	setString(&job.State, r.State)
	if r.IsRemote != nil {
		job.IsRemote = *r.IsRemote
	}
	setString(&job.Description, r.Description)
	setString(&job.Requirements, r.Requirements)
	if r.Status != nil {
		job.Status = *r.Status
	}

	return fields
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// CompanyBrief is the company summary embedded in job responses. The detail
// fields are only filled for the public job page.
type CompanyBrief struct {
	ID           uint               `json:"id"`
	CompanyName  string             `json:"companyName"`
	Logo         string             `json:"logo,omitempty"`
	Location     string             `json:"location"`
	AboutUs      string             `json:"aboutUs,omitempty"`
	IndustryType model.IndustryType `json:"industryType,omitempty"`
	TeamSize     model.TeamSize     `json:"teamSize,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Email        string             `json:"email,omitempty"`
}

func NewCompanyBrief(c *model.Company, detail bool) *CompanyBrief {
	if c == nil {
		return nil
	}
	b := &CompanyBrief{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Logo:        c.LogoURL,
		Location:    c.Location,
	}
	if detail {
		b.AboutUs = c.AboutUs
		b.IndustryType = c.IndustryType
		b.TeamSize = c.TeamSize
		b.Phone = c.Phone
		b.Email = c.Email
	}
	return b
}

type JobResponse struct {
	*model.Job
	Company    *CompanyBrief `json:"company,omitempty"`
	TimeStatus string        `json:"timeStatus"`
}

func NewJobResponse(job *model.Job, now time.Time, detail bool) JobResponse {
	return JobResponse{
		Job:        job,
		Company:    NewCompanyBrief(job.Company, detail),
		TimeStatus: jobquery.TimeStatus(job.ExpirationDate, now),
	}
}

type JobListResponse struct {
	Jobs       []JobResponse       `json:"jobs"`
	Pagination jobquery.Pagination `json:"pagination"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
