package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/enums"
)

// AppMetadata is the provider-managed metadata block. Only the provider's
// service role can write it, so the role stored here is trusted.
type AppMetadata struct {
	Role     enums.UserRole `json:"role,omitempty"`
	Provider string         `json:"provider,omitempty"`
}

// AccessTokenClaims mirrors the access tokens issued by the hosted auth provider.
type AccessTokenClaims struct {
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// UserID parses the subject as the identity id.
func (c *AccessTokenClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// UserRole returns the console role carried in app metadata.
func (c *AccessTokenClaims) UserRole() enums.UserRole {
	return c.AppMetadata.Role
}

// AccessTokenPayload captures the data needed to mint a provider-shaped token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}
