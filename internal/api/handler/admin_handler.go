package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/api/response"
	"github.com/pawcare/auth-service/internal/core/ports"
)

// AdminHandler serves account management for administrators.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// SetStatus activates or deactivates an account. Deactivation signs the user
// out of every device.
//
// @Summary      Set account status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  response.Envelope{data=userResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /admin/users/{id}/status [patch]
func (h *AdminHandler) SetStatus(c echo.Context) error {
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.SetUserActive(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "User status updated", userResponse{User: *user})
}
