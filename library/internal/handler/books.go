package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// ListBooks godoc
// @Summary catalog listing
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param search query string false "title or isbn fragment"
// @Param category_id query int false "category filter"
// @Success 200 {array} model.BookView
// @Router /api/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	filter := model.BookFilter{Search: strings.TrimSpace(c.QueryParam("search"))}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return errs.NewValidation("category_id", "The category id must be an integer.")
		}
		filter.CategoryID = id
	}
	books, err := h.svc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary add a title to the catalog
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body model.BookRequest true "book"
// @Success 201 {object} model.BookView
// @Failure 422 {object} errs.ErrorResponse
// @Router /api/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.svc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.BookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.svc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) BookFormData(c echo.Context) error {
	data, err := h.svc.BookFormData(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
