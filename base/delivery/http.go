package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/listing"
	"github.com/minimarket/goapi/domain/payment"
	"github.com/minimarket/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = statusForErr(err, status)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

func statusForErr(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, listing.ErrAlreadySold) || errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, listing.ErrInvalidPrice) ||
		errors.Is(err, listing.ErrInvalidMetadata) ||
		errors.Is(err, listing.ErrAmountMismatch) ||
		errors.Is(err, listing.ErrSelfPurchase) ||
		errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, payment.ErrInsufficientFunds) || errors.Is(err, payment.ErrTransferFailed):
		return http.StatusPaymentRequired
	}
	return fallback
}
