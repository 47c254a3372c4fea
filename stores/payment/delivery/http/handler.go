package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/delivery"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/payment"
	"github.com/minimarket/goapi/middleware"
	authMiddleware "github.com/minimarket/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	payment payment.Usecase
}

// New will initialize the balances endpoints
func New(e *echo.Echo, pu payment.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		payment: pu,
	}

	g := e.Group("/balances")
	g.GET("/token", h.getTokenInfo)
	g.GET("/:address", h.getBalance, middleware.IsValidAddress("address"), authMiddleware.Auth())
	g.POST("/deposit", h.deposit, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

// getTokenInfo
//
//	@Summary		Get settlement token info
//	@Description	Chain id, contract address, symbol and decimals of the settlement token
//	@Tags			payment
//	@Produce		json
//	@Success		200	{object}	payment.TokenInfo
//	@Failure		500
//	@Router			/balances/token [get]
func (h *handler) getTokenInfo(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	info, err := h.payment.TokenInfo(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, info)
}

// getBalance
//
//	@Summary		Get balance
//	@Description	Custodial balance of the authenticated account, owner only
//	@Tags			payment
//	@Produce		json
//	@Param			address	path		string	true	"account address"
//	@Success		200		{object}	payment.Balance
//	@Failure		401
//	@Failure		405
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/balances/{address} [get]
func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	caller := c.Get("address").(domain.Address)
	pAddress := domain.Address(c.Param("address"))

	// balances are only visible to their owner
	if !caller.Equals(pAddress) {
		return delivery.MakeJsonResp(c, http.StatusMethodNotAllowed, "cannot read balance of another account")
	}

	balance, err := h.payment.GetBalance(ctx, pAddress)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance)
}

// deposit
//
//	@Summary		Credit balance
//	@Description	Admin credit of a custodial balance after on-chain deposit reconciliation
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Param			params	body		object{address=string,amount=string}	true	"params"
//	@Success		200		{object}	payment.Balance
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/balances/deposit [post]
func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Address domain.Address `json:"address" validate:"required,address"`
		Amount  string         `json:"amount" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	balance, err := h.payment.Deposit(ctx, p.Address, domain.TokenAmount(p.Amount))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance)
}
