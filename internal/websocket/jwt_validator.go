package websocket

import (
	"context"
	"errors"

	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// TokenValidator validates a raw JWT. *validator.Validator implements it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// SubjectValidator checks the token a browser passes in the query string,
// since the WebSocket handshake cannot carry an Authorization header
type SubjectValidator struct {
	validator TokenValidator
}

// NewSubjectValidator creates a new SubjectValidator
func NewSubjectValidator(v TokenValidator) *SubjectValidator {
	return &SubjectValidator{validator: v}
}

// ValidateToken validates a JWT and returns its subject
func (v *SubjectValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return "", ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok || validatedClaims.RegisteredClaims.Subject == "" {
		return "", ErrInvalidToken
	}
	return validatedClaims.RegisteredClaims.Subject, nil
}
