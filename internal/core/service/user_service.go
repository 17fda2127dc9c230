package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/ports"
	"github.com/sellerhub/account-api/pkg/password"
)

// AvatarCleaner asynchronously deletes replaced or orphaned avatar images
// so request paths never block on the image host.
type AvatarCleaner interface {
	Enqueue(url string)
}

// UserService implements registration, lookup, and profile/avatar management.
type UserService struct {
	repo    ports.UserRepository
	images  ports.ImageStore
	cleaner AvatarCleaner
	logger  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, images ports.ImageStore, cleaner AvatarCleaner, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, images: images, cleaner: cleaner, logger: logger}
}

// Register creates a new active account with the ordinary user role. The
// plaintext password is hashed before anything is persisted.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", created.Email).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	return s.repo.UpdateProfile(ctx, id, update)
}

// UploadAvatar stores the image remotely, points the account at the new
// URL, and schedules the previous image for asynchronous deletion.
func (s *UserService) UploadAvatar(ctx context.Context, id string, content []byte) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, content, id)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.repo.UpdateAvatarURL(ctx, id, url); err != nil {
		// The account still points at the old image; drop the upload instead.
		s.cleaner.Enqueue(url)
		return nil, err
	}

	if old := user.AvatarURL; old != "" && old != url {
		s.cleaner.Enqueue(old)
	}

	s.logger.Info().Str("user_id", id).Msg("avatar updated")

	user.AvatarURL = url
	return user, nil
}

// RemoveAvatar clears the account's avatar reference and schedules the
// stored image for deletion. Removing an absent avatar is a no-op.
func (s *UserService) RemoveAvatar(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.AvatarURL == "" {
		return user, nil
	}

	if err := s.repo.UpdateAvatarURL(ctx, id, ""); err != nil {
		return nil, err
	}

	s.cleaner.Enqueue(user.AvatarURL)
	user.AvatarURL = ""
	return user, nil
}

// DeleteAccount removes the user record and cascades deletion of the
// avatar image.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if user.AvatarURL != "" {
		s.cleaner.Enqueue(user.AvatarURL)
	}

	s.logger.Info().Str("user_id", id).Str("email", user.Email).Msg("account deleted")
	return nil
}
