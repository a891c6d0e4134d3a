package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/delivery"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	"github.com/doma-auction/goapi/middleware"
)

type handler struct {
	auction auction.UseCase
}

// New registers auction endpoints
func New(e *echo.Echo, au auction.UseCase, auth echo.MiddlewareFunc) {
	h := &handler{
		auction: au,
	}

	g := e.Group("/auction")
	g.POST("", h.create, auth)
	g.POST("/withdraw", h.withdraw, auth)
	g.GET("/latest/token/:tokenId", h.latestByTokenId)
	g.GET("/latest/domainName/:domainName", h.latestByDomainName)
	g.GET("/pendingWithdrawals/:address", h.pendingWithdrawals, middleware.IsValidAddress("address"))
	g.GET("/:auctionId", h.get)
	g.POST("/:auctionId/bid", h.placeBid, auth)
	g.POST("/:auctionId/settle", h.settle, auth)
	g.GET("/:auctionId/bids", h.getBids)
	g.GET("/:auctionId/bid/:address", h.getUserBidAmount, middleware.IsValidAddress("address"))

	e.GET("/auctions", h.list)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	seller := c.Get("address").(domain.Address)

	p := auction.CreateParams{}
	if err := c.Bind(&p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if len(p.TokenId) == 0 {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	a, err := h.auction.Create(ctx, seller, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, a)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseAuctionId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	a, err := h.auction.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	opts := []auction.FindAllOptionsFunc{}
	if v := c.QueryParam("settled"); len(v) > 0 {
		settled, err := strconv.ParseBool(v)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, auction.WithSettled(settled))
	}
	if v := c.QueryParam("seller"); len(v) > 0 {
		opts = append(opts, auction.WithSeller(domain.Address(v)))
	}
	if v := c.QueryParam("tokenId"); len(v) > 0 {
		opts = append(opts, auction.WithTokenId(domain.TokenId(v)))
	}

	offset := int32(0)
	limit := int32(32)
	if v := c.QueryParam("offset"); len(v) > 0 {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		offset = int32(n)
	}
	if v := c.QueryParam("limit"); len(v) > 0 {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		limit = int32(n)
	}
	opts = append(opts, auction.WithPagination(offset, limit))

	res, err := h.auction.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	bidder := c.Get("address").(domain.Address)

	id, err := parseAuctionId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	type params struct {
		Amount        string `json:"amount"`
		AttachedValue string `json:"attachedValue"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	a, err := h.auction.PlaceBid(ctx, id, bidder, p.Amount, p.AttachedValue)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) settle(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	id, err := parseAuctionId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	a, err := h.auction.Settle(ctx, id, caller)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	amount, err := h.auction.Withdraw(ctx, caller)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Amount string `json:"amount"`
	}{
		Amount: amount,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) latestByTokenId(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, found, err := h.auction.GetLatestAuctionIdByTokenId(ctx, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, latestResp{Found: found, AuctionId: id})
}

func (h *handler) latestByDomainName(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, found, err := h.auction.GetLatestAuctionIdByDomainName(ctx, domain.DomainName(c.Param("domainName")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, latestResp{Found: found, AuctionId: id})
}

func (h *handler) getBids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseAuctionId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	bids, err := h.auction.GetBids(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, bids)
}

func (h *handler) getUserBidAmount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseAuctionId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	amount, err := h.auction.GetUserBidAmount(ctx, id, domain.Address(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Amount string `json:"amount"`
	}{
		Amount: amount,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) pendingWithdrawals(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	amount, err := h.auction.PendingWithdrawals(ctx, domain.Address(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Amount string `json:"amount"`
	}{
		Amount: amount,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type latestResp struct {
	Found     bool             `json:"found"`
	AuctionId domain.AuctionId `json:"auctionId"`
}

func parseAuctionId(c echo.Context) (domain.AuctionId, error) {
	id, err := strconv.ParseUint(c.Param("auctionId"), 10, 64)
	if err != nil {
		return 0, domain.ErrBadParamInput
	}
	return domain.AuctionId(id), nil
}
