package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/avdeev21/accounts/api/http/presenter"
	"github.com/avdeev21/accounts/pkg/auth"
)

// AccountHandler serves the small unauthenticated account/utility endpoints.
type AccountHandler struct {
	users          auth.UserRepository
	versionIOS     string
	versionAndroid string
}

func NewAccountHandler(users auth.UserRepository, versionIOS, versionAndroid string) *AccountHandler {
	return &AccountHandler{users: users, versionIOS: versionIOS, versionAndroid: versionAndroid}
}

// CheckEmail reports whether an account exists for the given email.
// @Summary Check email
// @Tags    account
// @Produce json
// @Param   email query string true "email to look up"
// @Success 200 {object} map[string]string
// @Router  /check_email [get]
func (h *AccountHandler) CheckEmail(c *fiber.Ctx) error {
	_, err := h.users.GetByEmail(c.Context(), c.Query("email"))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return presenter.JSON(c, http.StatusOK, fiber.Map{"email": "does not exist"})
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to check email")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"email": "exists"})
}

// VersionIOS reports the current iOS client version.
// @Summary iOS client version
// @Tags    account
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /version/ios [get]
func (h *AccountHandler) VersionIOS(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"version": h.versionIOS})
}

// VersionAndroid reports the current Android client version.
// @Summary Android client version
// @Tags    account
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /version/android [get]
func (h *AccountHandler) VersionAndroid(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"version": h.versionAndroid})
}

// RequestGet is a connectivity echo endpoint.
func (h *AccountHandler) RequestGet(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"body": "GET Request"})
}

// RequestPost echoes the request body back for connectivity checks.
func (h *AccountHandler) RequestPost(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"body": "POST Request: " + string(c.Body())})
}
