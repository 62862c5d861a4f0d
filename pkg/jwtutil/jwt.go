package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"booking-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

// UserClaims represents the JWT claims carried by every authenticated request.
// Exactly one of the partner/dealer ids is set depending on the role.
type UserClaims struct {
	Email             string  `json:"email"`
	UserID            string  `json:"user_id"`
	Role              string  `json:"role"`
	SolutionPartnerID *string `json:"solution_partner_id,omitempty"`
	SalesPartnerID    *string `json:"sales_partner_id,omitempty"`
	DealerID          *string `json:"dealer_id,omitempty"`
	jwt.RegisteredClaims
}

var cfg *config.JWTConfig

// Initialize sets the JWT configuration for the package
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a signed token for the given user
func GenerateToken(claims *UserClaims) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
