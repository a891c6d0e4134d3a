package auction

import (
	"time"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
)

type EventType string

const (
	EventTypeAuctionCreated = EventType("AuctionCreated")
	EventTypeBidPlaced      = EventType("BidPlaced")
	EventTypeAuctionSettled = EventType("AuctionSettled")
)

// Event is an append-only ledger entry surfacing a state transition for
// external consumers. EventId is strictly increasing so consumers can keep
// a resumable cursor.
type Event struct {
	EventId    uint64            `json:"eventId" bson:"eventId"`
	Type       EventType         `json:"type" bson:"type"`
	AuctionId  domain.AuctionId  `json:"auctionId" bson:"auctionId"`
	TokenId    domain.TokenId    `json:"tokenId" bson:"tokenId"`
	DomainName domain.DomainName `json:"domainName" bson:"domainName"`

	// AuctionCreated
	Seller       domain.Address `json:"seller,omitempty" bson:"seller,omitempty"`
	StartTime    int64          `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime      int64          `json:"endTime,omitempty" bson:"endTime,omitempty"`
	ReservePrice string         `json:"reservePrice,omitempty" bson:"reservePrice,omitempty"`
	MinIncrement string         `json:"minIncrement,omitempty" bson:"minIncrement,omitempty"`

	// BidPlaced
	Bidder domain.Address `json:"bidder,omitempty" bson:"bidder,omitempty"`

	// AuctionSettled. Winner keeps the zero sentinel when the auction
	// closed without a sale.
	Winner domain.Address `json:"winner,omitempty" bson:"winner,omitempty"`

	// Amount is the bid amount for BidPlaced and the winning bid for
	// AuctionSettled.
	Amount string `json:"amount,omitempty" bson:"amount,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type EventFindAllOptions struct {
	EventIdGT *uint64
	Types     []EventType
	AuctionId *domain.AuctionId
	Limit     *int32
}

type EventFindAllOptionsFunc func(*EventFindAllOptions) error

func GetEventFindAllOptions(opts ...EventFindAllOptionsFunc) (EventFindAllOptions, error) {
	res := EventFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithEventIdGT(id uint64) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.EventIdGT = &id
		return nil
	}
}

func WithEventTypes(types ...EventType) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Types = types
		return nil
	}
}

func WithEventAuctionId(id domain.AuctionId) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.AuctionId = &id
		return nil
	}
}

func WithEventLimit(limit int32) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Limit = &limit
		return nil
	}
}

// EventRepo is the append-only event log.
type EventRepo interface {
	Insert(ctx ctx.Ctx, e *Event) error
	FindAll(ctx ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]*Event, error)
}
