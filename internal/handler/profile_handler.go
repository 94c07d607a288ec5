package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "authstack/internal/errors"
	"authstack/internal/middleware"
	"authstack/internal/service"
)

// ProfileHandler exposes the authenticated user's profile.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// ProfileRequest represents a profile update submission.
type ProfileRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}

// ProfileUpdateData reports whether the email change is awaiting verification.
type ProfileUpdateData struct {
	NewEmail bool `json:"newEmail"`
}

// Me godoc
// @Summary Return the authenticated user
// @Tags profile
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, apperrors.ErrUnauthorized)
	}

	// The middleware already loaded the user row, but the service owns the
	// cached read path, so the cache stays warm for every profile consumer.
	profile, err := h.profiles.Get(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update email, username or avatar
// @Tags profile
// @Accept json
// @Produce json
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, apperrors.ErrUnauthorized)
	}

	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.profiles.Update(c.Request().Context(), user.ID, service.UpdateProfileParams{
		Email:    req.Email,
		Username: req.Username,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    ProfileUpdateData{NewEmail: result.EmailChangePending},
	})
}
