package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// ListAuthors godoc
// @Summary authors with their book counts
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Author
// @Router /api/authors [get]
func (h *Handler) ListAuthors(c echo.Context) error {
	authors, err := h.svc.ListAuthors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	author, err := h.svc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.AuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.svc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.AuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.svc.UpdateAuthor(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAuthor(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPublishers(c echo.Context) error {
	publishers, err := h.svc.ListPublishers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publishers)
}

func (h *Handler) GetPublisher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	publisher, err := h.svc.GetPublisher(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publisher)
}

func (h *Handler) CreatePublisher(c echo.Context) error {
	var req model.PublisherRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	publisher, err := h.svc.CreatePublisher(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, publisher)
}

func (h *Handler) UpdatePublisher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.PublisherRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	publisher, err := h.svc.UpdatePublisher(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publisher)
}

func (h *Handler) DeletePublisher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePublisher(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	category, err := h.svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) CreateCategory(c echo.Context) error {
	var req model.CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.svc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.svc.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
