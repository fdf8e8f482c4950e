package jobquery

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"jobpilot-service/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	// maxParam bounds page and limit so their product stays within int64
	maxParam = math.MaxInt32
)

// ListQuery is the filter set for an employer's own job list
type ListQuery struct {
	EmployerID      uint
	Page            int
	Limit           int
	Search          string
	JobType         model.JobType
	JobLevel        model.JobLevel
	EducationLevel  model.EducationLevel
	ExperienceLevel model.ExperienceLevel
	IsRemote        *bool
	Status          model.JobStatus
}

// Parse reads the list query string. Page and limit fall back to their
// defaults when missing, non-numeric or below 1, and are clamped to maxParam. isRemote is only applied
// when present, and then only the literal "true" means remote.
func Parse(employerID uint, values url.Values) ListQuery {
	q := ListQuery{
		EmployerID:      employerID,
		Page:            positiveInt(values.Get("page"), DefaultPage),
		Limit:           positiveInt(values.Get("limit"), DefaultLimit),
		Search:          strings.TrimSpace(values.Get("search")),
		JobType:         model.JobType(values.Get("jobType")),
		JobLevel:        model.JobLevel(values.Get("jobLevel")),
		EducationLevel:  model.EducationLevel(values.Get("educationLevel")),
		ExperienceLevel: model.ExperienceLevel(values.Get("experienceLevel")),
		Status:          model.JobStatus(values.Get("status")),
	}
	if _, ok := values["isRemote"]; ok {
		remote := values.Get("isRemote") == "true"
		q.IsRemote = &remote
	}
	return q
}

// Offset is the number of rows skipped before the requested page
func (q ListQuery) Offset() int {
	off := int64(q.Page-1) * int64(q.Limit)
	switch {
	case off < 0:
		return 0
	case off > math.MaxInt:
		return math.MaxInt
	}
	return int(off)
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fallback
	}
	if n < 1 {
		return fallback
	}
	if n > maxParam {
		return maxParam
	}
	return int(n)
}

// Matches applies the same filters as Scope to an in-memory job
func (q ListQuery) Matches(j *model.Job) bool {
	if j.EmployerID != q.EmployerID {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		hit := false
		for _, field := range []string{j.JobTitle, string(j.JobRole), string(j.EducationLevel), j.Country} {
			if strings.Contains(strings.ToLower(field), needle) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if q.JobType != "" && j.JobType != q.JobType {
		return false
	}
	if q.JobLevel != "" && j.JobLevel != q.JobLevel {
		return false
	}
	if q.EducationLevel != "" && j.EducationLevel != q.EducationLevel {
		return false
	}
	if q.ExperienceLevel != "" && j.ExperienceLevel != q.ExperienceLevel {
		return false
	}
	if q.Status != "" && j.Status != q.Status {
		return false
	}
	if q.IsRemote != nil && j.IsRemote != *q.IsRemote {
		return false
	}
	return true
}

// Pagination describes one page of a list result
type Pagination struct {
	TotalJobs   int64 `json:"totalJobs"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

func NewPagination(total int64, q ListQuery) Pagination {
	limit := int64(q.Limit)
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Pagination{
		TotalJobs:   total,
		TotalPages:  pages,
		CurrentPage: q.Page,
		Limit:       q.Limit,
	}
}
