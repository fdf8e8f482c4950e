package service

import (
	"context"
	"errors"
	"strings"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository"
	"jobpilot-service/internal/validation"
	"jobpilot-service/pkg/jwtutil"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgAuthServerError    = "Server error. Please try again."
	msgJWTSecretMissing   = "JWT_SECRET is not set on server."
	msgInvalidCredentials = "Invalid credentials."
)

// UserStore persists employer accounts
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// TokenIssuer signs session tokens for a user id
type TokenIssuer interface {
	Configured() bool
	GenerateToken(userID uint) (string, error)
}

type AuthService struct {
	users     UserStore
	tokens    TokenIssuer
	validator *validation.Validator
	hashCost  int
}

func NewAuthService(users UserStore, tokens TokenIssuer, v *validation.Validator) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		validator: v,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Register creates an account and returns a session for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	log := logger.FromContext(ctx)
	prometheus.RecordAuthAttempt("register")

	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = model.NormalizeIdentifier(req.Username)
	req.Email = model.NormalizeIdentifier(req.Email)

	if err := s.validator.Validate(req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		if len(validation.Missing(err)) > 0 {
			return nil, apperror.Validation("All fields are required.", validation.Fields(err))
		}
		return nil, apperror.Validation("Password must be at least 5 characters long.", validation.Fields(err))
	}
	if !s.tokens.Configured() {
		return nil, apperror.Server(msgJWTSecretMissing, jwtutil.ErrMissingSigningKey)
	}

	if err := s.ensureAvailable(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		prometheus.RecordAuthError("password_hash_failed")
		return nil, apperror.Server(msgAuthServerError, err)
	}

	user := &model.User{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			prometheus.RecordAuthError("duplicate_account")
			return nil, apperror.Conflict("Email or username is already in use.")
		}
		return nil, apperror.Server(msgAuthServerError, err)
	}

	resp, err := s.session(user)
	if err != nil {
		return nil, err
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return resp, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, email, username string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		prometheus.RecordAuthError("email_already_exists")
		return apperror.Conflict("Email is already in use.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperror.Server(msgAuthServerError, err)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		prometheus.RecordAuthError("username_already_exists")
		return apperror.Conflict("Username is already in use.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperror.Server(msgAuthServerError, err)
	}
	return nil
}

// Login verifies credentials given by email or, when no email is sent, by
// username. Unknown accounts and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	log := logger.FromContext(ctx)
	prometheus.RecordAuthAttempt("login")

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if err := s.validator.Validate(req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return nil, apperror.Validation("Email/Username and password are required.", validation.Fields(err))
	}
	if !s.tokens.Configured() {
		return nil, apperror.Server(msgJWTSecretMissing, jwtutil.ErrMissingSigningKey)
	}

	var (
		user *model.User
		err  error
	)
	if req.Email != "" {
		user, err = s.users.FindByEmail(ctx, req.Email)
	} else {
		user, err = s.users.FindByUsername(ctx, req.Username)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			prometheus.RecordAuthError("user_not_found")
			return nil, apperror.Unauthorized(msgInvalidCredentials)
		}
		return nil, apperror.Server(msgAuthServerError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		log.Info("Invalid password", zap.Uint("user_id", user.ID))
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	resp, err := s.session(user)
	if err != nil {
		return nil, err
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID))
	return resp, nil
}

func (s *AuthService) session(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		if errors.Is(err, jwtutil.ErrMissingSigningKey) {
			return nil, apperror.Server(msgJWTSecretMissing, err)
		}
		return nil, apperror.Server(msgAuthServerError, err)
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}
