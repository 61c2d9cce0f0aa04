package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/avdeev21/accounts/api/http/presenter"
	"github.com/avdeev21/accounts/pkg/auth"
	"github.com/avdeev21/accounts/pkg/passreset"
)

type PasswordHandler struct {
	resets passreset.ResetUseCase
}

func NewPasswordHandler(resets passreset.ResetUseCase) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// ResetPassword issues a reset token and hands it to the notifier. The
// token is delivered out-of-band and never appears in the response.
// @Summary Request password reset
// @Tags    auth
// @Accept  x-www-form-urlencoded
// @Param   user[email] formData string true "account email"
// @Success 200 {string} string ""
// @Failure 400 {object} presenter.FieldErrors
// @Failure 404 {string} string ""
// @Router  /reset_password [post]
func (h *PasswordHandler) ResetPassword(c *fiber.Ctx) error {
	email := c.FormValue("user[email]")
	if email == "" {
		return presenter.Fields(c, http.StatusBadRequest, presenter.FieldErrors{
			"email": {"is required"},
		})
	}

	if err := h.resets.Request(c.Context(), email); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return c.SendStatus(http.StatusNotFound)
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to request password reset")
	}
	return c.SendStatus(http.StatusOK)
}

// UpdatePassword consumes a reset token and replaces the password.
// @Summary Confirm password reset
// @Tags    auth
// @Accept  x-www-form-urlencoded
// @Param   user[email]    formData string true "account email"
// @Param   user[password] formData string true "new password"
// @Param   token          formData string true "reset token"
// @Success 200 {string} string ""
// @Failure 400 {object} presenter.FieldErrors
// @Failure 404 {string} string ""
// @Router  /update_password [put]
func (h *PasswordHandler) UpdatePassword(c *fiber.Ctx) error {
	email := c.FormValue("user[email]")
	password := c.FormValue("user[password]")
	token := c.FormValue("token")

	fields := presenter.FieldErrors{}
	if email == "" {
		fields["email"] = []string{"is required"}
	}
	if password == "" {
		fields["password"] = []string{"is required"}
	}
	if token == "" {
		fields["token"] = []string{"is required"}
	}
	if len(fields) > 0 {
		return presenter.Fields(c, http.StatusBadRequest, fields)
	}

	if err := h.resets.Confirm(c.Context(), email, token, password); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			return c.SendStatus(http.StatusNotFound)
		case errors.Is(err, passreset.ErrNeverRequested):
			return presenter.Fields(c, http.StatusBadRequest, presenter.FieldErrors{
				"token": {"has never been requested"},
			})
		case errors.Is(err, passreset.ErrExpired):
			return presenter.Fields(c, http.StatusBadRequest, presenter.FieldErrors{
				"token": {"is expired"},
			})
		case errors.Is(err, passreset.ErrIncorrect):
			return presenter.Fields(c, http.StatusBadRequest, presenter.FieldErrors{
				"token": {"is incorrect"},
			})
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to update password")
		}
	}
	return c.SendStatus(http.StatusOK)
}
