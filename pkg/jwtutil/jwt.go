package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"jobpilot-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSigningKey is returned when JWT_SECRET is not configured
var ErrMissingSigningKey = errors.New("JWT signing key is not set")

// UserClaims represents the JWT claims for user authentication. The user id
// travels in the standard subject claim.
type UserClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim
func (c *UserClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
		now:    time.Now,
	}
}

// Configured reports whether a signing key is available
func (j *JWTUtil) Configured() bool {
	return j.config != nil && j.config.SigningKey != ""
}

// GenerateToken creates a signed token whose subject is userID
func (j *JWTUtil) GenerateToken(userID uint) (string, error) {
	if !j.Configured() {
		return "", ErrMissingSigningKey
	}

	now := j.now()
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if !j.Configured() {
		return nil, ErrMissingSigningKey
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
