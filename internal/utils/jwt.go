// Package utils holds small helpers shared by the HTTP layer and commands.
package utils

import (
	"errors"
	"strconv"
	"time"

	"feeengine/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "fee-engine"

// GenerateAdminToken signs an HS256 token carrying claims, valid for ttl.
func GenerateAdminToken(secret string, claims *models.AdminClaims, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}

	now := time.Now()
	tokenClaims := models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		},
		UserID:      claims.UserID,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}
	if len(tokenClaims.Permissions) == 0 {
		tokenClaims.Permissions = models.GetDefaultPermissions(claims.Role)
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims).SignedString([]byte(secret))
}

// ParseAdminToken parses and validates a token string signed with secret.
func ParseAdminToken(secret, tokenStr string) (*models.AdminClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
