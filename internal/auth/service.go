package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AuthService provides database lookups for organization identity.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService instance
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db: db,
	}
}

// GetOrganizationByToken resolves an API token to its organization context.
// Returns gorm.ErrRecordNotFound when the token is unknown.
func (as *AuthService) GetOrganizationByToken(token string) (*OrganizationContext, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	var orgCtx OrganizationContext
	result := as.db.Where("api_token = ?", token).First(&orgCtx)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("no organization matches token")
			return nil, result.Error
		}
		slog.Error("failed to fetch organization context from database",
			"error", result.Error,
		)
		return nil, fmt.Errorf("failed to fetch organization context: %w", result.Error)
	}

	return &orgCtx, nil
}

// UpsertOrganization creates or updates an organization context record.
// Useful for initialization and provisioning.
func (as *AuthService) UpsertOrganization(orgCtx *OrganizationContext) error {
	if orgCtx == nil {
		return fmt.Errorf("organization context cannot be nil")
	}
	if orgCtx.OrganizationID == "" {
		return fmt.Errorf("organization ID is empty")
	}
	if orgCtx.APIToken == "" {
		return fmt.Errorf("API token is empty")
	}

	result := as.db.Save(orgCtx)
	if result.Error != nil {
		slog.Error("failed to upsert organization context",
			"organization_id", orgCtx.OrganizationID,
			"error", result.Error,
		)
		return fmt.Errorf("failed to upsert organization context: %w", result.Error)
	}

	slog.Debug("organization context upserted successfully",
		"organization_id", orgCtx.OrganizationID,
	)
	return nil
}
