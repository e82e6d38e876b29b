package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/api/middleware"
	"github.com/pawcare/auth-service/internal/api/response"
	"github.com/pawcare/auth-service/internal/core/domain"
	"github.com/pawcare/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService   ports.AuthService
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

var errInvalidPayload = domain.Validation("Invalid request body", nil)

// Register creates a new account and opens a session for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  response.Envelope{data=authResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      409   {object}  response.Envelope
// @Failure      429   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), toRegisterInput(req, deviceFrom(c)))
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	return response.OK(c, http.StatusCreated, "Registration successful", toAuthResponse(res))
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response.Envelope{data=authResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      429   {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Device:   deviceFrom(c),
	})
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	return response.OK(c, http.StatusOK, "Login successful", toAuthResponse(res))
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh the access token
// @Description  The refresh token is read from the body, then from the refreshToken cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token"
// @Success      200   {object}  response.Envelope{data=refreshResponse}
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	res, err := h.authService.Refresh(c.Request().Context(), refreshTokenFrom(c, req.RefreshToken))
	if err != nil {
		return err
	}

	return response.OK(c, http.StatusOK, "Token refreshed successfully", refreshResponse{
		AccessToken: res.AccessToken,
		ExpiresIn:   res.ExpiresIn,
	})
}

// Logout ends the session of the presented refresh token. It always succeeds
// and always clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token"
// @Success      200   {object}  response.Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearRefreshCookie(c)

	// An unreadable body still logs out through the cookie or bearer token.
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		req = refreshRequest{}
	}

	access, _ := middleware.BearerToken(c.Request())
	res, err := h.authService.Logout(c.Request().Context(), ports.LogoutInput{
		RefreshToken: refreshTokenFrom(c, req.RefreshToken),
		AccessToken:  access,
		Device:       deviceFrom(c),
	})
	if err != nil {
		return err
	}

	if res.NoActiveSession {
		return response.OK(c, http.StatusOK, "Logout successful (no active session)", nil)
	}
	return response.OK(c, http.StatusOK, "Logout successful", nil)
}

// Me returns the profile of the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=userResponse}
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	token, _ := middleware.BearerToken(c.Request())

	user, err := h.authService.Me(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "User profile retrieved successfully", userResponse{User: *user})
}

// LogoutAll ends every session of the authenticated user.
//
// @Summary      Sign out everywhere
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=logoutAllResponse}
// @Failure      401  {object}  response.Envelope
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	n, err := h.authService.LogoutAll(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.OK(c, http.StatusOK, "Logged out from all sessions", logoutAllResponse{SessionsRevoked: n})
}

// ChangePassword replaces the caller's password and signs them out everywhere.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.authService.ChangePassword(c.Request().Context(), ports.ChangePasswordInput{
		UserID:          claims.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Device:          deviceFrom(c),
	})
	if err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.OK(c, http.StatusOK, "Password changed successfully", nil)
}
