package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/delivery"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/account"
	"github.com/minimarket/goapi/middleware"
)

type handler struct {
	au account.Usecase
}

// New will initialize the account endpoints
func New(e *echo.Echo, au account.Usecase) {
	h := &handler{
		au: au,
	}
	g := e.Group("/account")
	g.GET("/:account", h.getAccount, middleware.IsValidAddress("account"))
	// nonce has to be reachable before login, it feeds the signing message
	g.POST("/:account/nonce", h.generateNonce, middleware.IsValidAddress("account"))
}

// getAccount
//
//	@Summary		Get account
//	@Description	Account profile by address
//	@Tags			account
//	@Produce		json
//	@Param			account	path		string	true	"account address"
//	@Success		200		{object}	account.Account
//	@Failure		404
//	@Failure		500
//	@Router			/account/{account} [get]
func (h *handler) getAccount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	pAccount := domain.Address(c.Param("account"))
	info, err := h.au.Get(ctx, pAccount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, info)
}

// generateNonce
//
//	@Summary		Generate nonce
//	@Description	Issue a one-shot login nonce; feed it into the signing message template
//	@Tags			account
//	@Produce		json
//	@Param			account	path		string	true	"account address"
//	@Success		200		{object}	object{data=int}
//	@Failure		400
//	@Failure		500
//	@Router			/account/{account}/nonce [post]
func (h *handler) generateNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	pAccount := domain.Address(c.Param("account"))
	nonce, err := h.au.GenerateNonce(ctx, pAccount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nonce)
}
