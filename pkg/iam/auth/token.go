package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeMissingToken  = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Missing authorization header")
	CodeInvalidToken  = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeForbidden     = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Token lacks the required scope")
	CodeUnknownScope  = ErrRegistry.Register("UNKNOWN_SCOPE", errx.TypeValidation, http.StatusBadRequest, "Unknown scope")
	CodeSigningFailed = ErrRegistry.Register("SIGNING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to sign token")
)

const DefaultIssuer = "shortlist"

// TokenClaims are the claims carried by an admin access token
type TokenClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 access tokens
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(secret, issuer string) *TokenService {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}
}

// GenerateAccessToken signs a token for subject with the given scopes
func (s *TokenService) GenerateAccessToken(subject string, scopes []string, ttl time.Duration) (string, error) {
	for _, scope := range scopes {
		if !IsKnownScope(scope) {
			return "", ErrRegistry.New(CodeUnknownScope).WithDetail("scope", scope)
		}
	}

	now := time.Now()
	claims := TokenClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeSigningFailed, err)
	}
	return signed, nil
}

// ValidateAccessToken checks signature, algorithm, issuer and expiry
func (s *TokenService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		e := ErrRegistry.NewWithCause(CodeInvalidToken, err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.WithDetail("reason", "expired")
		}
		return nil, e
	}
	return claims, nil
}
