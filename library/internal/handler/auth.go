package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// Register godoc
// @Summary register a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body model.RegisterRequest true "account"
// @Success 201 {object} model.AuthResponse
// @Failure 422 {object} errs.ErrorResponse
// @Router /api/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body model.LoginRequest true "credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} errs.ErrorResponse
// @Router /api/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.svc.Logout(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{Message: "Logged out"})
}

func (h *Handler) CurrentUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.svc.CurrentUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
