package handler

import (
	"fmt"
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const internalMessage = "Internal Server Error"

// ErrorHandler renders every error as {"message": ..., "errors": ...}.
// Anything it does not recognise is a 500 and gets logged.
func (h *Handler) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, payload := h.errorPayload(err)
	if code == http.StatusInternalServerError {
		h.log.Error("server error",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, payload)
	}
	if err != nil {
		h.log.Error("error handler json error", zap.Error(err))
	}
}

func (h *Handler) errorPayload(err error) (int, errs.ErrorResponse) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFound
		he         *echo.HTTPError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, errs.ErrorResponse{
			Message: validation.Error(),
			Errors:  validation.Fields,
		}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errs.ErrorResponse{Message: notFound.Message}
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, errs.ErrorResponse{Message: "Not found"}
	case errors.Is(err, errs.ErrUnavailable):
		return http.StatusBadRequest, errs.ErrorResponse{Message: errs.ErrUnavailable.Error()}
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, errs.ErrorResponse{Message: errs.ErrUnauthorized.Error()}
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, errs.ErrorResponse{Message: errs.ErrInvalidCredentials.Error()}
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, errs.ErrorResponse{Message: errs.ErrForbidden.Error()}
	case errors.Is(err, errs.ErrEmailTaken):
		msg := errs.ErrEmailTaken.Error()
		return http.StatusUnprocessableEntity, errs.ErrorResponse{
			Message: msg,
			Errors:  map[string][]string{"email": {msg}},
		}
	case errors.Is(err, errs.ErrOverpayment):
		msg := errs.ErrOverpayment.Error()
		return http.StatusUnprocessableEntity, errs.ErrorResponse{
			Message: msg,
			Errors:  map[string][]string{"amount": {msg}},
		}
	case errors.Is(err, errs.ErrNotReturned):
		return http.StatusUnprocessableEntity, errs.ErrorResponse{Message: errs.ErrNotReturned.Error()}
	case errors.Is(err, errs.ErrInUse):
		return http.StatusConflict, errs.ErrorResponse{
			Message: "The resource is still referenced by other records.",
		}
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, errs.ErrorResponse{Message: msg}
	}
	if fields := validate.FieldErrors(err); fields != nil {
		v := &errs.ValidationError{Fields: fields}
		return http.StatusUnprocessableEntity, errs.ErrorResponse{Message: v.Error(), Errors: fields}
	}
	return http.StatusInternalServerError, errs.ErrorResponse{Message: internalMessage}
}
