package ports

import (
	"context"

	"github.com/sellerhub/account-api/internal/core/domain"
)

// ProfileUpdate carries optional profile mutations. Nil fields are left
// untouched on the stored record.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile applies the non-nil fields of update and returns the
	// resulting record.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	// UpdateAvatarURL replaces the stored avatar reference; an empty URL
	// clears it.
	UpdateAvatarURL(ctx context.Context, id, avatarURL string) error
	Delete(ctx context.Context, id string) error
}
