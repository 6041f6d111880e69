package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// Borrow godoc
// @Summary borrow a copy of a book
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body model.BorrowRequest true "book"
// @Success 201 {object} model.BorrowResponse
// @Failure 400 {object} errs.ErrorResponse
// @Failure 404 {object} errs.ErrorResponse
// @Failure 422 {object} errs.ErrorResponse
// @Router /api/borrow-records [post]
func (h *Handler) Borrow(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req model.BorrowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rec, err := h.svc.Borrow(c.Request().Context(), id, req.BookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model.BorrowResponse{Message: "Book borrowed successfully", Data: rec})
}

// ReturnBook godoc
// @Summary return a borrowed copy
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "borrow record id"
// @Success 200 {object} model.BorrowResponse
// @Failure 404 {object} errs.ErrorResponse
// @Router /api/borrow-records/{id}/return [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	recordID, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Return(c.Request().Context(), id, recordID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.BorrowResponse{Message: "Book returned successfully", Data: rec})
}

func (h *Handler) OpenLoans(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	records, err := h.svc.OpenLoans(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) BorrowHistory(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	records, err := h.svc.BorrowHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) AllBorrowRecords(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	records, err := h.svc.AllBorrowRecords(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) GetBorrowRecord(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	recordID, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.GetBorrowRecord(c.Request().Context(), id, recordID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListFinePayments(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	recordID, err := pathID(c)
	if err != nil {
		return err
	}
	payments, err := h.svc.ListFinePayments(c.Request().Context(), id, recordID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) PayFine(c echo.Context) error {
	recordID, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.FinePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	payment, err := h.svc.PayFine(c.Request().Context(), recordID, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}
