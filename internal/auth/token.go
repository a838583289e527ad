package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// ErrInvalidToken covers every reason a bearer token is refused.
var ErrInvalidToken = errors.New("invalid token")

const defaultIssuer = "threadlog"

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type accessClaims struct {
	jwt.RegisteredClaims
	OrgID      string `json:"org_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("auth secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: defaultIssuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for actor.
func (t *TokenService) Issue(actor domain.Actor) (string, error) {
	if actor.OrganizationID == "" || actor.EmployeeID == "" {
		return "", &domain.ValidationError{Field: "actor", Message: "organization and employee are required"}
	}
	if _, err := domain.ParseRole(string(actor.Role)); err != nil {
		return "", err
	}
	now := t.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   actor.EmployeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		OrgID:      actor.OrganizationID,
		EmployeeID: actor.EmployeeID,
		Role:       string(actor.Role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, issuer and expiry and returns the actor the
// token was issued for.
func (t *TokenService) Validate(tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return domain.Actor{}, ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.OrgID == "" || claims.EmployeeID == "" {
		return domain.Actor{}, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}
	return domain.Actor{
		OrganizationID: claims.OrgID,
		EmployeeID:     claims.EmployeeID,
		Role:           role,
	}, nil
}
