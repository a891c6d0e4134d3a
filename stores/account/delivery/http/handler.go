package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/delivery"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/account"
	"github.com/doma-auction/goapi/middleware"
)

type handler struct {
	account account.Usecase
}

// New registers account endpoints
func New(e *echo.Echo, au account.Usecase) {
	h := &handler{
		account: au,
	}

	g := e.Group("/account")
	g.GET("/:address", h.get, middleware.IsValidAddress("address"))
	g.POST("/:address/nonce", h.generateNonce, middleware.IsValidAddress("address"))
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address"))

	a, err := h.account.Get(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) generateNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address"))

	nonce, err := h.account.GenerateNonce(ctx, address)
	if err != nil {
		ctx.WithField("err", err).Error("account.GenerateNonce failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nonce)
}
