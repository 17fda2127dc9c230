package ports

import (
	"context"

	"github.com/sellerhub/account-api/internal/core/domain"
)

// RegisterInput carries all data needed to create a new account. New
// accounts always start with the ordinary user role; privileged roles are
// assigned out of band.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UserService implements registration, lookup, and profile/avatar management.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	// UploadAvatar stores the image remotely, points the account at the new
	// URL, and schedules the previous image for deletion.
	UploadAvatar(ctx context.Context, id string, content []byte) (*domain.User, error)
	RemoveAvatar(ctx context.Context, id string) (*domain.User, error)
	// DeleteAccount removes the user and cascades deletion of the avatar image.
	DeleteAccount(ctx context.Context, id string) error
}
