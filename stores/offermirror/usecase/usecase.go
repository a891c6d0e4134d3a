package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	"github.com/doma-auction/goapi/domain/offermirror"
	"github.com/doma-auction/goapi/service/orderbook"
)

const (
	stateTag = "offermirror"

	batchSize = int32(128)

	// offerValiditySeconds keeps mirrored offers alive for a day past the
	// bid that produced them
	offerValiditySeconds = int64(86400)

	wethDecimals = 18
)

type MirrorUseCaseCfg struct {
	EventRepo auction.EventRepo
	StateRepo offermirror.StateRepo
	Orderbook orderbook.Client

	// PaymentToken is the wrapped native token mirrored offers quote in.
	PaymentToken domain.Address
}

type impl struct {
	eventRepo    auction.EventRepo
	stateRepo    offermirror.StateRepo
	orderbook    orderbook.Client
	paymentToken domain.Address
}

// New creates offer mirror usecase
func New(cfg *MirrorUseCaseCfg) offermirror.UseCase {
	return &impl{
		eventRepo:    cfg.EventRepo,
		stateRepo:    cfg.StateRepo,
		orderbook:    cfg.Orderbook,
		paymentToken: cfg.PaymentToken,
	}
}

func (im *impl) ProcessOnce(c ctx.Ctx) (int, error) {
	cursor := uint64(0)
	state, err := im.stateRepo.Get(c, stateTag)
	if err == nil {
		cursor = state.LastEventId
	} else if err != domain.ErrNotFound {
		return 0, err
	}

	events, err := im.eventRepo.FindAll(c,
		auction.WithEventIdGT(cursor),
		auction.WithEventTypes(auction.EventTypeBidPlaced),
		auction.WithEventLimit(batchSize),
	)
	if err != nil {
		c.WithField("err", err).Error("eventRepo.FindAll failed")
		return 0, err
	}

	processed := 0
	for _, e := range events {
		if err := im.mirror(c, e); err != nil {
			// best effort, a failed mirror is skipped rather than
			// blocking the cursor
			c.WithFields(log.Fields{
				"eventId": e.EventId,
				"err":     err,
			}).Warn("mirror offer failed")
		}
		cursor = e.EventId
		processed++
	}

	if processed > 0 {
		if err := im.stateRepo.Save(c, &offermirror.State{
			Tag:         stateTag,
			LastEventId: cursor,
		}); err != nil {
			return processed, err
		}
	}
	return processed, nil
}

func (im *impl) mirror(c ctx.Ctx, e *auction.Event) error {
	wei, err := decimal.NewFromString(e.Amount)
	if err != nil {
		return err
	}
	price := wei.Shift(-wethDecimals)

	return im.orderbook.CreateOffer(c, &orderbook.Offer{
		TokenId:      e.TokenId,
		DomainName:   e.DomainName.String(),
		Offeror:      e.Bidder,
		PaymentToken: im.paymentToken,
		Price:        price,
		Deadline:     e.CreatedAt.Unix() + offerValiditySeconds,
	})
}
