package auth

import (
	"context"
	"encoding/json"
	"fmt"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AuthContextKey is the key for storing AuthContext in request context
	AuthContextKey ContextKey = "authContext"
)

// OrganizationContext represents an organization's identity record in the
// database. API requests are attributed to an organization by the token
// carried in the Authorization header.
type OrganizationContext struct {
	OrganizationID string          `gorm:"type:varchar(100);column:organization_id;primaryKey;not null" json:"organization_id"`
	Name           string          `gorm:"type:varchar(255);column:name;not null" json:"name"`
	APIToken       string          `gorm:"type:varchar(255);column:api_token;not null;uniqueIndex" json:"-"`
	Metadata       json.RawMessage `gorm:"type:jsonb;column:metadata;serializer:json" json:"metadata,omitempty"`
}

// TableName specifies the database table name for OrganizationContext
func (o *OrganizationContext) TableName() string {
	return "organization_contexts"
}

// AuthContext represents the authentication context available in a request.
// This is a transient context injected into the request by the auth middleware.
type AuthContext struct {
	*OrganizationContext
}

// GetMetadataMap returns the organization metadata as a map for convenient access.
// If no metadata exists, it returns an empty map.
func (ac *AuthContext) GetMetadataMap() (map[string]any, error) {
	metadataMap := make(map[string]any)
	if ac == nil || ac.OrganizationContext == nil || len(ac.OrganizationContext.Metadata) == 0 {
		return metadataMap, nil
	}

	if err := json.Unmarshal(ac.OrganizationContext.Metadata, &metadataMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organization metadata: %w", err)
	}

	return metadataMap, nil
}

// GetAuthContext extracts the AuthContext from a request context.
// Returns nil if no auth context is available (request had no valid token).
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, ok := ctx.Value(AuthContextKey).(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}
