package orderbook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/ethereum"
	"github.com/doma-auction/goapi/domain"
)

func Test_CreateOffer(t *testing.T) {
	req := require.New(t)

	key, err := crypto.GenerateKey()
	req.NoError(err)
	signer := crypto.PubkeyToAddress(key.PublicKey).Hex()

	var received Offer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("POST", r.Method)
		req.Equal("/offers", r.URL.Path)
		req.Equal("api_key", r.Header.Get(apikeyHeader))
		req.NoError(json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(&ClientCfg{
		HttpClient: http.Client{},
		Timeout:    10 * time.Second,
		Apikey:     "api_key",
		BaseUrl:    srv.URL,
		SigningKey: fmt.Sprintf("%x", crypto.FromECDSA(key)),
	})
	req.NoError(err)

	offer := &Offer{
		TokenId:      "42",
		DomainName:   "example.xyz",
		Offeror:      domain.Address("0x18c7766A10df15Df8c971f6e8c1D2bbA7c7A410b"),
		PaymentToken: domain.Address("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"),
		Price:        decimal.RequireFromString("1.5"),
		Deadline:     1700000000,
	}
	req.NoError(c.CreateOffer(bCtx.Background(), offer))

	req.NotEmpty(received.ClientOrderId)
	req.Equal(offer.TokenId, received.TokenId)
	req.Equal(offer.Offeror.ToLower(), received.Offeror.ToLower())
	req.True(offer.Price.Equal(received.Price))

	msg := fmt.Sprintf(
		"%s:%s:%s:%s:%s:%s:%d",
		received.ClientOrderId,
		received.TokenId,
		received.DomainName,
		received.Offeror.ToLower(),
		received.PaymentToken.ToLower(),
		received.Price.String(),
		received.Deadline,
	)
	valid, err := ethereum.ValidateMsgSignature([]byte(msg), received.Signature, signer)
	req.NoError(err)
	req.True(valid)
}

func Test_CreateOffer_non200(t *testing.T) {
	req := require.New(t)

	key, err := crypto.GenerateKey()
	req.NoError(err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(&ClientCfg{
		HttpClient: http.Client{},
		Timeout:    10 * time.Second,
		Apikey:     "api_key",
		BaseUrl:    srv.URL,
		SigningKey: fmt.Sprintf("%x", crypto.FromECDSA(key)),
	})
	req.NoError(err)

	err = c.CreateOffer(bCtx.Background(), &Offer{
		TokenId: "1",
		Price:   decimal.Zero,
	})
	req.ErrorIs(err, ErrStatusCodeNotOk)
}
