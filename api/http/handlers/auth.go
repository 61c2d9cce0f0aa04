package handlers

import (
	"errors"
	"net/http"
	"net/netip"

	"github.com/gofiber/fiber/v2"

	"github.com/avdeev21/accounts/api/http/presenter"
	"github.com/avdeev21/accounts/pkg/auth"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

// Auth verifies credentials and returns the account with its bearer token.
// @Summary Authenticate
// @Tags    auth
// @Accept  x-www-form-urlencoded
// @Produce json
// @Param   user[email]    formData string true "account email"
// @Param   user[password] formData string true "account password"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.FieldErrors
// @Failure 401 {object} presenter.FieldErrors
// @Failure 404 {string} string ""
// @Router  /auth [post]
func (h *AuthHandler) Auth(c *fiber.Ctx) error {
	if ct := c.Get(fiber.HeaderContentType); ct != fiber.MIMEApplicationForm {
		errs := []string{"must be " + fiber.MIMEApplicationForm}
		if ct != "" {
			errs = append(errs, "cannot be "+ct)
		} else {
			errs = append(errs, "cannot be nil")
		}
		return presenter.Fields(c, http.StatusBadRequest, presenter.FieldErrors{"content_type": errs})
	}

	email := c.FormValue("user[email]")
	password := c.FormValue("user[password]")
	clientIP, _ := netip.ParseAddr(c.IP())

	result, err := h.useCase.Authenticate(c.Context(), email, password, clientIP)
	if err != nil {
		var ve *auth.ValidationError
		switch {
		case errors.As(err, &ve):
			return presenter.Fields(c, http.StatusBadRequest, ve.Fields)
		case errors.Is(err, auth.ErrNotFound):
			return c.SendStatus(http.StatusNotFound)
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Generic on purpose: once the account is known to exist,
			// the response never narrows down what went wrong.
			return presenter.Fields(c, http.StatusUnauthorized, presenter.FieldErrors{
				"password": {"is incorrect"},
			})
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to authenticate")
		}
	}

	user := result.User
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"id":        user.ID.String(),
		"email":     user.Email,
		"createdAt": user.CreatedAt,
		"token":     user.Token,
	})
}
