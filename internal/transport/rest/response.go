package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/trade_journal/internal/service"
	"github.com/KotFed0t/trade_journal/utils"
	"github.com/gin-gonic/gin"
)

type apiResponse struct {
	Code    int                  `json:"code"`
	Message string               `json:"message"`
	Data    any                  `json:"data,omitempty"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

func Ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, apiResponse{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, status int, message string, fieldErrors []service.FieldError) {
	c.AbortWithStatusJSON(status, apiResponse{
		Code:    status,
		Message: message,
		Errors:  fieldErrors,
	})
}

// ServiceError writes err with the status of its kind. Storage details never reach the client.
func ServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		Error(c, http.StatusBadRequest, "validation error", verr.Fields)
	case errors.Is(err, service.ErrValidation):
		Error(c, http.StatusBadRequest, "validation error", nil)
	case errors.Is(err, service.ErrInsufficientHoldings):
		Error(c, http.StatusUnprocessableEntity, "insufficient holdings to sell", nil)
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, service.ErrDerivedRecordInconsistency):
		Error(c, http.StatusConflict, "trade could not be changed together with its profit/loss record", nil)
	default:
		slog.Error(
			"request failed",
			slog.String("rqID", utils.GetRequestIDFromCtx(c.Request.Context())),
			slog.String("path", c.FullPath()),
			slog.String("err", err.Error()),
		)
		Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
