package orderbook

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
)

const (
	apikeyHeader = "X-Api-Key"
)

type client struct {
	client     http.Client
	timeout    time.Duration
	apikey     string
	baseUrl    string
	signingKey *ecdsa.PrivateKey
}

func NewClient(cfg *ClientCfg) (Client, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.SigningKey, "0x"))
	if err != nil {
		return nil, err
	}
	return &client{
		client:     cfg.HttpClient,
		timeout:    cfg.Timeout,
		apikey:     cfg.Apikey,
		baseUrl:    strings.TrimSuffix(cfg.BaseUrl, "/"),
		signingKey: key,
	}, nil
}

func (c *client) CreateOffer(ctx bCtx.Ctx, offer *Offer) error {
	if offer.ClientOrderId == "" {
		offer.ClientOrderId = uuid.NewString()
	}
	sig, err := c.signOffer(offer)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("signOffer failed")
		return err
	}
	offer.Signature = sig

	body, err := json.Marshal(offer)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("json.Marshal failed")
		return err
	}
	return c.post(ctx, c.baseUrl+"/offers", body)
}

// signOffer signs the canonical offer string with eth personal-sign
// semantics, so the orderbook can recover the custodian address.
func (c *client) signOffer(offer *Offer) (string, error) {
	msg := fmt.Sprintf(
		"%s:%s:%s:%s:%s:%s:%d",
		offer.ClientOrderId,
		offer.TokenId,
		offer.DomainName,
		offer.Offeror.ToLower(),
		offer.PaymentToken.ToLower(),
		offer.Price.String(),
		offer.Deadline,
	)
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), c.signingKey)
	if err != nil {
		return "", err
	}
	// yellow paper V
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

func (c *client) post(ctx bCtx.Ctx, url string, body []byte) error {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apikeyHeader, c.apikey)
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return ErrStatusCodeNotOk
	}
	return nil
}
