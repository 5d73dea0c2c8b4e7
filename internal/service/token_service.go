package service

import (
	"fmt"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTTokenService issues and validates HS256 identity tokens carrying the
// caller's roles and operator domain scopes.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate creates a signed JWT for the given subject.
func (s *JWTTokenService) Generate(subjectID string, roles []domain.Role, operatorDomains []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	roleStrs := make([]string, len(roles))
	for i, r := range roles {
		roleStrs[i] = string(r)
	}

	claims := jwt.MapClaims{
		"sub":   subjectID,
		"roles": roleStrs,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
		"iss":   s.issuer,
	}
	if len(operatorDomains) > 0 {
		claims["operator_domains"] = operatorDomains
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses a JWT and resolves the caller identity.
func (s *JWTTokenService) Validate(tokenString string) (*domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("missing subject claim")
	}

	identity := &domain.Identity{SubjectID: sub}
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				identity.Roles = append(identity.Roles, domain.Role(s))
			}
		}
	}
	if raw, ok := claims["operator_domains"].([]interface{}); ok {
		for _, d := range raw {
			if s, ok := d.(string); ok {
				identity.OperatorDomains = append(identity.OperatorDomains, s)
			}
		}
	}

	return identity, nil
}
