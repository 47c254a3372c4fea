package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/delivery"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/listing"
	authMiddleware "github.com/minimarket/goapi/stores/auth/delivery/http/middleware"
)

// page size used when a request paginates by offset alone
const defaultActivesLimit = 100

type handler struct {
	listing listing.UseCase
}

// New will initialize the listings endpoints
func New(e *echo.Echo, lu listing.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		listing: lu,
	}

	g := e.Group("/listings")
	g.POST("", h.create, authMiddleware.Auth())
	g.GET("", h.getActives)
	g.GET("/:listingId", h.get)
	g.POST("/:listingId/buy", h.buy, authMiddleware.Auth())
}

// create
//
//	@Summary		Create listing
//	@Description	Publish a new active listing owned by the authenticated vendor
//	@Tags			listing
//	@Accept			json
//	@Produce		json
//	@Param			params	body		object{name=string,description=string,imageHash=string,price=string}	true	"params"
//	@Success		201		{object}	listing.Listing
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/listings [post]
func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	vendor := c.Get("address").(domain.Address)

	p := struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description" validate:"required"`
		ImageHash   string `json:"imageHash"`
		Price       string `json:"price" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	l, err := h.listing.Create(ctx, listing.CreateParams{
		Vendor:      vendor,
		Name:        p.Name,
		Description: p.Description,
		ImageHash:   p.ImageHash,
		Price:       domain.TokenAmount(p.Price),
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, l)
}

// getActives
//
//	@Summary		List active listings
//	@Description	Active listings ascending by id, optionally paged
//	@Tags			listing
//	@Produce		json
//	@Param			offset	query		int	false	"offset"
//	@Param			limit	query		int	false	"limit, max 100"
//	@Success		200		{object}	object{data=[]listing.Listing}
//	@Failure		400
//	@Failure		500
//	@Router			/listings [get]
func (h *handler) getActives(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Offset int `query:"offset" validate:"gte=0"`
		Limit  int `query:"limit" validate:"gte=0,lte=100"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	limit := p.Limit
	if limit == 0 && p.Offset > 0 {
		limit = defaultActivesLimit
	}

	opts := []listing.FindActivesOptionsFunc{}
	if limit > 0 {
		opts = append(opts, listing.WithPagination(p.Offset, limit))
	}

	res, err := h.listing.GetActives(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// get
//
//	@Summary		Get listing
//	@Description	Single listing by id, any status
//	@Tags			listing
//	@Produce		json
//	@Param			listingId	path		int	true	"listing id"
//	@Success		200			{object}	listing.Listing
//	@Failure		404
//	@Failure		500
//	@Router			/listings/{listingId} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId int64 `param:"listingId" validate:"gt=0"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	l, err := h.listing.Get(ctx, listing.Id(p.ListingId))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, l)
}

// buy
//
//	@Summary		Buy listing
//	@Description	Pay the exact listing price and retire the listing; funds move to the vendor atomically
//	@Tags			listing
//	@Accept			json
//	@Produce		json
//	@Param			listingId	path		int						true	"listing id"
//	@Param			params		body		object{amount=string}	true	"params"
//	@Success		200			{object}	listing.Confirmation
//	@Failure		400
//	@Failure		402
//	@Failure		404
//	@Failure		409
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/listings/{listingId}/buy [post]
func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	payer := c.Get("address").(domain.Address)

	p := struct {
		ListingId int64  `param:"listingId" validate:"gt=0"`
		Amount    string `json:"amount" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	conf, err := h.listing.Buy(ctx, listing.Id(p.ListingId), payer, domain.TokenAmount(p.Amount))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, conf)
}
