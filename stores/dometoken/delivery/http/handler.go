package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/delivery"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/dometoken"
)

type handler struct {
	token dometoken.Usecase
}

// New registers domain token endpoints. Minting is restricted to the
// registry admin, transfers and approvals to authenticated holders.
func New(e *echo.Echo, token dometoken.Usecase, auth, isAdmin echo.MiddlewareFunc) {
	h := &handler{
		token: token,
	}

	g := e.Group("/dometoken")
	g.POST("/mint", h.mint, auth, isAdmin)
	g.GET("/:tokenId", h.get)
	g.GET("/domainName/:domainName", h.getByDomainName)
	g.POST("/:tokenId/approve", h.approve, auth)
	g.POST("/:tokenId/transfer", h.transfer, auth)
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		TokenId    domain.TokenId    `json:"tokenId"`
		DomainName domain.DomainName `json:"domainName"`
		Owner      domain.Address    `json:"owner"`
		ChainId    domain.ChainId    `json:"chainId"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if len(p.TokenId) == 0 || len(p.DomainName) == 0 || p.Owner.IsEmpty() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	t := &dometoken.Token{
		TokenId:    p.TokenId,
		DomainName: p.DomainName,
		Owner:      p.Owner,
		ChainId:    p.ChainId,
	}
	if err := h.token.Mint(ctx, t); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, t)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	t, err := h.token.Get(ctx, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, t)
}

func (h *handler) getByDomainName(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	t, err := h.token.GetByDomainName(ctx, domain.DomainName(c.Param("domainName")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, t)
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Operator domain.Address `json:"operator"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	if err := h.token.Approve(ctx, domain.TokenId(c.Param("tokenId")), caller, p.Operator); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		From domain.Address `json:"from"`
		To   domain.Address `json:"to"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if p.From.IsEmpty() || p.To.IsEmpty() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	if err := h.token.TransferFrom(ctx, domain.TokenId(c.Param("tokenId")), p.From, p.To, caller); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
