package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/delivery"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/fund"
	"github.com/doma-auction/goapi/middleware"
)

type handler struct {
	custody fund.Custody
}

// New registers fund custody endpoints
func New(e *echo.Echo, custody fund.Custody, auth echo.MiddlewareFunc) {
	h := &handler{
		custody: custody,
	}

	g := e.Group("/fund")
	g.POST("/deposit", h.deposit, auth)
	g.POST("/withdraw", h.withdraw, auth)
	g.GET("/:address/balance", h.balance, middleware.IsValidAddress("address"))
	g.GET("/:address/pendingWithdrawals", h.pendingWithdrawals, middleware.IsValidAddress("address"))
}

func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	type params struct {
		Amount string `json:"amount"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	a, err := h.custody.Deposit(ctx, address, p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)

	amount, err := h.custody.Withdraw(ctx, address)
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

func (h *handler) balance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("address"))

	a, err := h.custody.Balance(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) pendingWithdrawals(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("address"))

	amount, err := h.custody.PendingWithdrawals(ctx, address)
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
