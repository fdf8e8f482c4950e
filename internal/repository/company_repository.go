package repository

import (
	"context"
	"time"

	"jobpilot-service/internal/model"
	"jobpilot-service/prometheus"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts the profile. A second profile for the same user fails with
// ErrDuplicate.
func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

func (r *CompanyRepository) FindByUserID(ctx context.Context, userID uint) (*model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var company model.Company
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}
