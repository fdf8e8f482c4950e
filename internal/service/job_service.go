package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/jobquery"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository"
	"jobpilot-service/internal/validation"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/prometheus"

	"go.uber.org/zap"
)

const (
	msgJobNotFound     = "Job not found."
	msgAccountSetup    = "Please complete your account setup before posting a job."
	msgJobCreateFailed = "Server error while posting job."
	msgJobListFailed   = "Server error while fetching your jobs."
	msgJobGetFailed    = "Server error while fetching job details."
	msgJobUpdateFailed = "Server error while updating job."
	msgJobDeleteFailed = "Server error while deleting job."
)

// JobStore persists job postings. FindByID and List return jobs with their
// company attached.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uint) (*model.Job, error)
	List(ctx context.Context, q jobquery.ListQuery) ([]*model.Job, int64, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id uint) error
}

type JobService struct {
	jobs      JobStore
	companies CompanyStore
	validator *validation.Validator
	now       func() time.Time
}

func NewJobService(jobs JobStore, companies CompanyStore, v *validation.Validator) *JobService {
	return &JobService{
		jobs:      jobs,
		companies: companies,
		validator: v,
		now:       time.Now,
	}
}

// Create posts a job for the caller's company
func (s *JobService) Create(ctx context.Context, userID uint, req *dto.JobRequest) (*dto.JobResponse, error) {
	company, err := s.companies.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation(msgAccountSetup, nil)
		}
		return nil, apperror.Server(msgJobCreateFailed, err)
	}

	job := model.NewJob(userID, company.ID)
	if err := s.apply(req, job, msgJobCreateFailed); err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperror.Server(msgJobCreateFailed, err)
	}
	prometheus.RecordJobOperation("create")

	logger.FromContext(ctx).Info("Job created",
		zap.Uint("job_id", job.ID),
		zap.Uint("company_id", company.ID),
		zap.String("status", string(job.Status)))

	resp := dto.NewJobResponse(job, s.now(), false)
	return &resp, nil
}

// apply copies req onto job and checks the result against the job schema
func (s *JobService) apply(req *dto.JobRequest, job *model.Job, failure string) error {
	fields := req.ApplyTo(job)

	if err := s.validator.Validate(job); err != nil {
		schema := validation.Fields(err)
		if schema == nil {
			return apperror.Server(failure, err)
		}
		if fields == nil {
			fields = schema
		} else {
			for k, v := range schema {
				if _, ok := fields[k]; !ok {
					fields[k] = v
				}
			}
		}
	}

	if len(fields) > 0 {
		return apperror.Validation("Job validation failed: "+strings.Join(validation.Names(fields), ", "), fields)
	}
	return nil
}

// List returns one page of the employer's own jobs
func (s *JobService) List(ctx context.Context, q jobquery.ListQuery) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobs.List(ctx, q)
	if err != nil {
		return nil, apperror.Server(msgJobListFailed, err)
	}
	prometheus.RecordJobOperation("list")

	now := s.now()
	resp := &dto.JobListResponse{
		Jobs:       make([]dto.JobResponse, 0, len(jobs)),
		Pagination: jobquery.NewPagination(total, q),
	}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, dto.NewJobResponse(job, now, false))
	}
	return resp, nil
}

// Get returns a single job with its company details. It needs no caller.
func (s *JobService) Get(ctx context.Context, id uint) (*dto.JobResponse, error) {
	job, err := s.find(ctx, id, msgJobGetFailed)
	if err != nil {
		return nil, err
	}
	prometheus.RecordJobOperation("get")

	resp := dto.NewJobResponse(job, s.now(), true)
	return &resp, nil
}

// Update overwrites the fields present in req on a job the caller owns
func (s *JobService) Update(ctx context.Context, userID, id uint, req *dto.JobRequest) (*dto.JobResponse, error) {
	job, err := s.owned(ctx, userID, id, "update", msgJobUpdateFailed)
	if err != nil {
		return nil, err
	}

	job.Company = nil
	if err := s.apply(req, job, msgJobUpdateFailed); err != nil {
		return nil, err
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgJobNotFound)
		}
		return nil, apperror.Server(msgJobUpdateFailed, err)
	}
	prometheus.RecordJobOperation("update")

	logger.FromContext(ctx).Info("Job updated", zap.Uint("job_id", job.ID))

	resp := dto.NewJobResponse(job, s.now(), false)
	return &resp, nil
}

// Delete removes a job the caller owns
func (s *JobService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id, "delete", msgJobDeleteFailed); err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgJobNotFound)
		}
		return apperror.Server(msgJobDeleteFailed, err)
	}
	prometheus.RecordJobOperation("delete")

	logger.FromContext(ctx).Info("Job deleted", zap.Uint("job_id", id))
	return nil
}

func (s *JobService) find(ctx context.Context, id uint, failure string) (*model.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgJobNotFound)
		}
		return nil, apperror.Server(failure, err)
	}
	return job, nil
}

func (s *JobService) owned(ctx context.Context, userID, id uint, action, failure string) (*model.Job, error) {
	job, err := s.find(ctx, id, failure)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != userID {
		logger.FromContext(ctx).Warn("Job ownership check failed",
			zap.Uint("job_id", id),
			zap.String("action", action))
		return nil, apperror.Unauthorized("User not authorized to " + action + " this job.")
	}
	return job, nil
}
