package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/api/middleware"
	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
)

// SessionTokenHeader carries the session token on login for clients that
// cannot use cookies.
const SessionTokenHeader = "X-Session-Token"

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Signup creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "User registered successfully", user)
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(sess.Token, int(h.cookie.TTL.Seconds())))
	c.Response().Header().Set(SessionTokenHeader, sess.Token)
	return respond(c, http.StatusOK, "Login successful", user)
}

// Logout revokes the current session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  api.errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return domain.ErrUnauthorized
	}

	if err := h.authService.Logout(c.Request().Context(), sess.Handle); err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie("", -1))
	return respond(c, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookie.Secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
