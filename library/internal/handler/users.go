package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

type userResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListStudents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]model.UserListItem{"users": users})
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req model.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Message: "User created successfully", User: user})
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User updated successfully", User: user})
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message{Message: "User deleted successfully"})
}
