package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/ports"
	"github.com/sellerhub/account-api/pkg/password"
)

type stubImageStore struct {
	uploads  int
	deleted  []string
	uploadFn func(publicID string) (string, error)
}

func (s *stubImageStore) Upload(_ context.Context, _ []byte, publicID string) (string, error) {
	s.uploads++
	if s.uploadFn != nil {
		return s.uploadFn(publicID)
	}
	return "https://img.example.com/" + publicID, nil
}

func (s *stubImageStore) Delete(_ context.Context, url string) (bool, error) {
	s.deleted = append(s.deleted, url)
	return true, nil
}

type recordingCleaner struct {
	enqueued []string
}

func (c *recordingCleaner) Enqueue(url string) {
	c.enqueued = append(c.enqueued, url)
}

type userFixture struct {
	repo    *stubUserRepo
	images  *stubImageStore
	cleaner *recordingCleaner
	svc     *UserService
}

func newUserFixture() *userFixture {
	repo := newStubUserRepo()
	images := &stubImageStore{}
	cleaner := &recordingCleaner{}
	return &userFixture{
		repo:    repo,
		images:  images,
		cleaner: cleaner,
		svc:     NewUserService(repo, images, cleaner, zerolog.Nop()),
	}
}

func TestUserService_Register(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email:    "new@x.com",
		Username: "newbie",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "secret123" {
		t.Fatalf("password must be hashed before persistence")
	}
	if !password.Verify("secret123", user.PasswordHash) {
		t.Fatalf("stored hash does not match the password")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("new accounts must start with the user role, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("new accounts must start active")
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	f := newUserFixture()

	in := ports.RegisterInput{Email: "dup@x.com", Username: "dup", Password: "secret123"}
	if _, err := f.svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_UploadAvatar_ReplacesAndCleansUp(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@x.com", Username: "a", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first, err := f.svc.UploadAvatar(context.Background(), user.ID, []byte("img-one"))
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if first.AvatarURL == "" {
		t.Fatalf("avatar URL not set after upload")
	}
	if len(f.cleaner.enqueued) != 0 {
		t.Fatalf("first upload must not schedule any cleanup")
	}

	f.images.uploadFn = func(publicID string) (string, error) {
		return "https://img.example.com/v2/" + publicID, nil
	}
	second, err := f.svc.UploadAvatar(context.Background(), user.ID, []byte("img-two"))
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if second.AvatarURL == first.AvatarURL {
		t.Fatalf("avatar URL not replaced")
	}
	if len(f.cleaner.enqueued) != 1 || f.cleaner.enqueued[0] != first.AvatarURL {
		t.Fatalf("old avatar not scheduled for cleanup: %v", f.cleaner.enqueued)
	}
}

func TestUserService_RemoveAvatar(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@x.com", Username: "a", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Removing a non-existent avatar is a no-op.
	if _, err := f.svc.RemoveAvatar(context.Background(), user.ID); err != nil {
		t.Fatalf("RemoveAvatar on bare account failed: %v", err)
	}
	if len(f.cleaner.enqueued) != 0 {
		t.Fatalf("nothing should be scheduled for a bare account")
	}

	uploaded, err := f.svc.UploadAvatar(context.Background(), user.ID, []byte("img"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	removed, err := f.svc.RemoveAvatar(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("RemoveAvatar failed: %v", err)
	}
	if removed.AvatarURL != "" {
		t.Fatalf("avatar URL not cleared")
	}
	if len(f.cleaner.enqueued) != 1 || f.cleaner.enqueued[0] != uploaded.AvatarURL {
		t.Fatalf("stored image not scheduled for cleanup: %v", f.cleaner.enqueued)
	}
}

func TestUserService_DeleteAccount_CascadesAvatar(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@x.com", Username: "a", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	uploaded, err := f.svc.UploadAvatar(context.Background(), user.ID, []byte("img"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := f.svc.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if _, err := f.svc.GetByEmail(context.Background(), "a@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("account still present after deletion: %v", err)
	}
	if len(f.cleaner.enqueued) != 1 || f.cleaner.enqueued[0] != uploaded.AvatarURL {
		t.Fatalf("avatar not scheduled for cleanup on deletion: %v", f.cleaner.enqueued)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newUserFixture()
	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Email: "a@x.com", Username: "a", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first := "Ada"
	phone := "+14155550123"
	updated, err := f.svc.UpdateProfile(context.Background(), user.ID, ports.ProfileUpdate{
		FirstName:   &first,
		PhoneNumber: &phone,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.FirstName != "Ada" || updated.PhoneNumber != "+14155550123" {
		t.Fatalf("profile not applied: %+v", updated)
	}
	if updated.LastName != "" {
		t.Fatalf("untouched fields must stay unchanged")
	}
}
