package jobquery

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchColumns are matched case-insensitively by the search term. Job has
// no city column, so a city match can never succeed and is left out.
var searchColumns = []string{"job_title", "job_role", "education_level", "country"}

// Filter is a gorm scope restricting jobs to the query's employer and filters
func (q ListQuery) Filter(db *gorm.DB) *gorm.DB {
	db = db.Where("employer_id = ?", q.EmployerID)

	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(q.Search) + "%"
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	if q.JobType != "" {
		db = db.Where("job_type = ?", q.JobType)
	}
	if q.JobLevel != "" {
		db = db.Where("job_level = ?", q.JobLevel)
	}
	if q.EducationLevel != "" {
		db = db.Where("education_level = ?", q.EducationLevel)
	}
	if q.ExperienceLevel != "" {
		db = db.Where("experience_level = ?", q.ExperienceLevel)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.IsRemote != nil {
		db = db.Where("is_remote = ?", *q.IsRemote)
	}

	return db
}

// Paginate orders newest first and selects the query's page
func (q ListQuery) Paginate(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC").Offset(q.Offset()).Limit(q.Limit)
}
