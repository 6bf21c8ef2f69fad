package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext is what a validated token tells a handler
type AuthContext struct {
	Subject string
	Scopes  []string
	TokenID string
}

func (a *AuthContext) HasScope(scope string) bool {
	return ScopeGranted(a.Scopes, scope)
}

// UnifiedAuthMiddleware validates bearer tokens on protected routes
type UnifiedAuthMiddleware struct {
	tokens *TokenService
}

func NewUnifiedAuthMiddleware(tokens *TokenService) *UnifiedAuthMiddleware {
	return &UnifiedAuthMiddleware{tokens: tokens}
}

// Authenticate requires a valid "Bearer <token>" header
func (m *UnifiedAuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return ErrRegistry.New(CodeMissingToken)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return ErrRegistry.New(CodeInvalidToken).WithDetail("reason", "invalid authorization format")
		}

		claims, err := m.tokens.ValidateAccessToken(parts[1])
		if err != nil {
			return err
		}

		c.Locals(authContextKey, &AuthContext{
			Subject: claims.Subject,
			Scopes:  claims.Scopes,
			TokenID: claims.ID,
		})
		return c.Next()
	}
}

// RequireScope must run after Authenticate
func (m *UnifiedAuthMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrRegistry.New(CodeMissingToken)
		}
		if !authCtx.HasScope(scope) {
			return ErrRegistry.New(CodeForbidden).WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}

// GetAuthContext extracts the auth context set by Authenticate
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(*AuthContext)
	return authCtx, ok
}
