package repository

import (
	"context"
	"time"

	"jobpilot-service/internal/jobquery"
	"jobpilot-service/internal/model"
	"jobpilot-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error)
}

// FindByID loads the job with its company
func (r *JobRepository) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var job model.Job
	if err := r.db.WithContext(ctx).Preload("Company").First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

// List returns one page of matching jobs, newest first, with their companies,
// and the total number of matches.
func (r *JobRepository) List(ctx context.Context, q jobquery.ListQuery) ([]*model.Job, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Job{}).Scopes(q.Filter).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var jobs []*model.Job
	err := db.Scopes(q.Filter, q.Paginate).
		Preload("Company").
		Find(&jobs).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return jobs, total, nil
}

// Update writes every column of an existing job except created_at;
// associations are left alone. A row that is gone yields ErrNotFound.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := r.db.WithContext(ctx).
		Model(job).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(job)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := r.db.WithContext(ctx).Delete(&model.Job{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
