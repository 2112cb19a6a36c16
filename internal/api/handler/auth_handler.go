package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/api/middleware"
	"github.com/shopline/shop-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterInput  true  "User registration details"
// @Success      201   {object}  Envelope{data=domain.UserView}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var in ports.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "User created successfully", user)
}

// Login authenticates a user and returns a session token. The token is also
// echoed in the auth-token response header.
//
// @Summary      Login
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  Envelope{data=loginResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var in ports.LoginInput
	if err := bind(c, &in); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}

	c.Response().Header().Set(middleware.TokenHeader, token)
	return success(c, http.StatusOK, "Logged in successfully", loginResponse{Token: token})
}

// ListUsers returns every user without credentials.
//
// @Summary      List users
// @Tags         user
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  Envelope{data=[]domain.UserView}
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /user [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	users, err := h.authService.ListUsers(c.Request().Context(), claims.Role)
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Users fetched successfully", users)
}

// ForgotPassword emails a one-hour password reset link.
//
// @Summary      Request a password reset
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      ports.ForgotPasswordInput  true  "Account email"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Failure      502   {object}  Envelope
// @Router       /user/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var in ports.ForgotPasswordInput
	if err := bind(c, &in); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), in); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Password reset link sent to your email", nil)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      ports.ResetPasswordInput  true  "Reset token and new password"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /user/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var in ports.ResetPasswordInput
	if err := bind(c, &in); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), in); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Password updated successfully", nil)
}
