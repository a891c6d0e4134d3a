package orderbook

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

// Offer is the orderbook-side mirror of a placed bid. Price is in display
// units of the payment token, Deadline is a unix timestamp after which the
// offer is void.
type Offer struct {
	ClientOrderId string         `json:"clientOrderId"`
	TokenId       domain.TokenId `json:"tokenId"`
	DomainName    string         `json:"domainName"`
	Offeror       domain.Address `json:"offeror"`
	PaymentToken  domain.Address `json:"paymentToken"`
	Price         decimal.Decimal `json:"price"`
	Deadline      int64          `json:"deadline"`
	Signature     string         `json:"signature"`
}

type Client interface {
	CreateOffer(bCtx.Ctx, *Offer) error
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	Apikey     string
	BaseUrl    string
	// SigningKey is the hex-encoded private key used to sign mirrored
	// offers on behalf of the custodian.
	SigningKey string
}
