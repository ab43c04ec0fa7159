package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/api/middleware"
	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthorized
	}
	return h.render(c, sess.UserID)
}

// GetByID returns any user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  api.errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	return h.render(c, c.Param("id"))
}

func (h *UserHandler) render(c echo.Context, id string) error {
	user, err := h.userService.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return respond(c, http.StatusOK, "", user)
}

// UpdateMe patches the authenticated user's profile.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      400   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthorized
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(c.Request().Context(), sess.UserID, domain.UserPatch{
		Name:            req.Name,
		Phone:           req.Phone,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Profile updated successfully", user)
}
