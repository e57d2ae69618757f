package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// UserHandler serves profile reads/updates, the sidebar listing and the
// network graph.
type UserHandler struct {
	profiles ports.ProfileService
}

func NewUserHandler(profiles ports.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

type updateProfileRequest struct {
	FullName       *string `json:"full_name"`
	GraduationYear *int    `json:"graduation_year" validate:"omitempty,gte=1900"`
	LinkedIn       *string `json:"linkedin"        validate:"omitempty,url"`
	Course         *string `json:"course"`
	USN            *string `json:"usn"`
	FieldOfStudy   *string `json:"field_of_study"`
	GitHub         *string `json:"github"          validate:"omitempty,url"`
}

// Sidebar handles GET /api/users — every identity except the caller, with
// live presence flags.
func (h *UserHandler) Sidebar(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.profiles.Sidebar(c.Request().Context(), self.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

// CurrentProfile handles GET /api/users/profile.
func (h *UserHandler) CurrentProfile(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, self)
}

// Profile handles GET /api/users/:id. The id may live in either collection.
func (h *UserHandler) Profile(c echo.Context) error {
	profile, err := h.profiles.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/users/:id. Only the owner may update.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if self.ID != c.Param("id") {
		return echo.NewHTTPError(http.StatusForbidden, "cannot update another user's profile")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.profiles.UpdateProfile(c.Request().Context(), self.ID, ports.ProfileUpdate{
		FullName:       req.FullName,
		GraduationYear: req.GraduationYear,
		LinkedIn:       req.LinkedIn,
		Course:         req.Course,
		USN:            req.USN,
		FieldOfStudy:   req.FieldOfStudy,
		GitHub:         req.GitHub,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "profile updated successfully", "user": updated})
}

// Network handles GET /api/network — the full graph grouped by variant.
func (h *UserHandler) Network(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	graph, err := h.profiles.Network(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, graph)
}
