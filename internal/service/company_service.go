package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository"
	"jobpilot-service/internal/validation"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/pkg/storage"
	"jobpilot-service/prometheus"

	"go.uber.org/zap"
)

const (
	msgCompanyServerError = "Server error. Please try again."
	msgCompanyNotFound    = "Company profile not found."
)

// CompanyStore persists company profiles
type CompanyStore interface {
	Create(ctx context.Context, company *model.Company) error
	FindByUserID(ctx context.Context, userID uint) (*model.Company, error)
}

type CompanyService struct {
	companies    CompanyStore
	uploader     storage.Uploader
	validator    *validation.Validator
	maxLogoBytes int64
	now          func() time.Time
}

func NewCompanyService(companies CompanyStore, uploader storage.Uploader, v *validation.Validator, maxLogoBytes int64) *CompanyService {
	return &CompanyService{
		companies:    companies,
		uploader:     uploader,
		validator:    v,
		maxLogoBytes: maxLogoBytes,
		now:          time.Now,
	}
}

// Setup validates and stores the caller's company profile. The logo, when
// given, is uploaded only after every field has passed validation.
func (s *CompanyService) Setup(ctx context.Context, userID uint, req *dto.CompanyRequest, logo *dto.LogoFile) (*model.Company, error) {
	log := logger.FromContext(ctx)

	req.Trim()
	if err := s.validator.Validate(req); err != nil {
		fields := validation.Fields(err)
		if missing := validation.Missing(err); len(missing) > 0 {
			return nil, apperror.Validation(
				fmt.Sprintf("All required fields must be provided: %s.", strings.Join(missing, ", ")), fields)
		}
		return nil, apperror.Validation(
			fmt.Sprintf("Invalid company details: %s.", strings.Join(validation.Names(fields), ", ")), fields)
	}

	company := req.Company(userID)

	if logo != nil {
		if err := s.checkLogo(logo); err != nil {
			prometheus.RecordLogoUpload("rejected")
			return nil, err
		}
		url, err := s.uploadLogo(ctx, logo)
		if err != nil {
			prometheus.RecordLogoUpload("failed")
			return nil, apperror.Server(msgCompanyServerError, err)
		}
		prometheus.RecordLogoUpload("success")
		company.LogoURL = url
	}

	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Warn("Company profile already exists", zap.Uint("user_id", userID))
		}
		return nil, apperror.Server(msgCompanyServerError, err)
	}

	log.Info("Company profile created",
		zap.Uint("user_id", userID),
		zap.Uint("company_id", company.ID),
		zap.Bool("has_logo", company.LogoURL != ""))
	return company, nil
}

func (s *CompanyService) checkLogo(logo *dto.LogoFile) error {
	if !strings.HasPrefix(logo.ContentType, "image/") {
		return apperror.Validation("Only images are allowed!", map[string]string{
			"logo": fmt.Sprintf("'%s' is not an image", logo.ContentType),
		})
	}
	if s.maxLogoBytes > 0 && logo.Size > s.maxLogoBytes {
		return apperror.Validation("Logo file is too large.", map[string]string{
			"logo": fmt.Sprintf("logo must be at most %d bytes", s.maxLogoBytes),
		})
	}
	return nil
}

func (s *CompanyService) uploadLogo(ctx context.Context, logo *dto.LogoFile) (string, error) {
	if s.uploader == nil {
		return "", storage.ErrNotConfigured
	}
	return s.uploader.Upload(ctx, storage.Object{
		Key:         storage.LogoKey(logo.Filename, s.now()),
		ContentType: logo.ContentType,
		Size:        logo.Size,
		Body:        logo.Body,
	})
}

// Get returns the caller's company profile
func (s *CompanyService) Get(ctx context.Context, userID uint) (*model.Company, error) {
	company, err := s.companies.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgCompanyNotFound)
		}
		return nil, apperror.Server("Server error fetching company profile.", err)
	}
	return company, nil
}
