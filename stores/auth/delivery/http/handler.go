package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/delivery"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/account"
)

type authHandler struct {
	auth               domain.AuthUsecase
	account            account.Usecase
	signingMsgTemplate string
}

// New registers auth endpoints. Tokens are only issued after the caller
// proves control of the address by signing the nonce message.
func New(e *echo.Echo, auth domain.AuthUsecase, au account.Usecase, template string) {
	handler := &authHandler{
		auth:               auth,
		account:            au,
		signingMsgTemplate: template,
	}
	g := e.Group("/auth")
	g.POST("/sign", handler.sign)
	g.GET("/signingMsgTemplate", handler.getSigningMsgTemplate)
}

func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address"`
		Signature string         `json:"signature"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}

	if err := h.account.ValidateSignature(ctx, p.Address, p.Signature); err != nil {
		if err == account.ErrInvalidNonce || err == account.ErrInvalidSignature {
			return delivery.MakeJsonResp(c, http.StatusUnauthorized, err.Error())
		}
		ctx.WithField("err", err).Error("account.ValidateSignature failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	if tkn, err := h.auth.SignToken(ctx, p.Address); err != nil {
		ctx.WithField("err", err).Error("auth.SignToken failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

func (h *authHandler) getSigningMsgTemplate(c echo.Context) error {
	res := struct {
		Msg string `json:"template"`
	}{
		Msg: h.signingMsgTemplate,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
