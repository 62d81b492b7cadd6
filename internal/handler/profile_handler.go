package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile and onboarding HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileResponse represents the profile response
type ProfileResponse struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// UpdateProfileRequest represents the update profile request
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// OnboardingResponse represents the welcome flow state
type OnboardingResponse struct {
	HasSeenWelcome bool `json:"hasSeenWelcome"`
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileService.GetProfile(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "get profile")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.UpdateName(c.Request().Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		return serviceError(c, err, "update profile")
	}

	log.Info().Str("name", profile.Name).Msg("Profile updated")
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UploadAvatar handles PUT /api/v1/profile/avatar
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	profile, err := h.profileService.UploadAvatar(c.Request().Context(), data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG"},
			})
		case errors.Is(err, service.ErrImageTooSmall):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		}
		return serviceError(c, err, "upload avatar")
	}

	log.Info().Str("filename", file.Filename).Msg("Avatar uploaded")
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// DeleteAvatar handles DELETE /api/v1/profile/avatar
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	profile, err := h.profileService.DeleteAvatar(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "delete avatar")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// GetOnboarding handles GET /api/v1/onboarding
func (h *ProfileHandler) GetOnboarding(c echo.Context) error {
	seen, err := h.profileService.HasSeenWelcome(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "get onboarding state")
	}
	return c.JSON(http.StatusOK, OnboardingResponse{HasSeenWelcome: seen})
}

// CompleteOnboarding handles POST /api/v1/onboarding
func (h *ProfileHandler) CompleteOnboarding(c echo.Context) error {
	if err := h.profileService.CompleteWelcome(c.Request().Context()); err != nil {
		return serviceError(c, err, "complete onboarding")
	}
	return c.JSON(http.StatusOK, OnboardingResponse{HasSeenWelcome: true})
}

// ResetOnboarding handles DELETE /api/v1/onboarding
func (h *ProfileHandler) ResetOnboarding(c echo.Context) error {
	if err := h.profileService.ResetWelcome(c.Request().Context()); err != nil {
		return serviceError(c, err, "reset onboarding")
	}
	return c.JSON(http.StatusOK, OnboardingResponse{HasSeenWelcome: false})
}

func toProfileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{Name: p.Name, Avatar: p.Avatar}
}
