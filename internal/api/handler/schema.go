package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// envelope is the body of every successful API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")

// bindAndValidate decodes the request into req, lets it normalise itself and
// runs the registered validator.
func bindAndValidate(c echo.Context, req interface{ normalize() }) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	req.normalize()
	return c.Validate(req)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=8,password"`
	Role     string `json:"role" validate:"required,oneof=client artisan admin"`
}

func (r *signupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
}

type updateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,phone"`
	ExperienceYears *int    `json:"experienceYears" validate:"omitempty,min=0,max=50"`
}

func (r *updateProfileRequest) normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Phone != nil {
		phone := strings.TrimSpace(*r.Phone)
		r.Phone = &phone
	}
}

type updateSkillsRequest struct {
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
}

func (r *updateSkillsRequest) normalize() {
	for i, s := range r.Skills {
		r.Skills[i] = strings.TrimSpace(s)
	}
}

type identityRequest struct {
	IDType string `form:"idType" validate:"required,oneof=national_id passport drivers_license"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
