package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sellerhub/account-api/internal/api/metrics"
	"github.com/sellerhub/account-api/internal/core/domain"
	"github.com/sellerhub/account-api/internal/core/ports"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

// UserHandler handles registration, lookup, and profile/avatar management.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=100"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
}

type profileUpdateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.userService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusCreated, user)
}

// GetByID returns a user by id. Admin only.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	user, err := h.userService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Me returns the authenticated user's own record.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies partial profile changes to the current user.
//
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /users/me/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.userService.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user.ID, ports.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// UploadAvatar replaces the current user's avatar with the uploaded image.
//
// @Summary      Upload an avatar image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxAvatarBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	if len(content) > maxAvatarBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds the size limit")
	}
	if len(content) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty file")
	}

	user, err := h.userService.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}

	updated, err := h.userService.UploadAvatar(c.Request().Context(), user.ID, content)
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.AvatarUploadsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, updated)
}

// RemoveAvatar deletes the current user's avatar image.
//
// @Summary      Remove the avatar image
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me/avatar [delete]
func (h *UserHandler) RemoveAvatar(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	updated, err := h.userService.RemoveAvatar(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAccount removes the current user's account and its avatar.
//
// @Summary      Delete the current account
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /users/me [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteAccount(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func registerResult(err error) string {
	if errors.Is(err, domain.ErrUserExists) {
		return "duplicate"
	}
	return "error"
}
