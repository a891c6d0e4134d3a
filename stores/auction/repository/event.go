package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	"github.com/doma-auction/goapi/service/query"
)

const (
	eventIdCounter   = "eventId"
	defaultEventSort = "eventId"
	defaultEventCap  = 256
)

type eventImpl struct {
	query query.Mongo
}

// NewEventRepo creates new auction event repo
func NewEventRepo(query query.Mongo) auction.EventRepo {
	return &eventImpl{
		query: query,
	}
}

// Insert allocates the next event id and appends the event. Ids come from
// a counter document so they are strictly increasing across processes.
func (im *eventImpl) Insert(c ctx.Ctx, e *auction.Event) error {
	res := &counter{}
	if err := im.query.Increment(c, domain.TableCounters, bson.M{"tag": eventIdCounter}, res, "seq", uint64(1)); err != nil {
		c.WithField("err", err).Error("increment event id counter failed")
		return err
	}
	e.EventId = res.Seq
	e.CreatedAt = time.Now()

	if err := im.query.Insert(c, domain.TableAuctionEvents, e); err != nil {
		c.WithFields(log.Fields{
			"eventId": e.EventId,
			"type":    e.Type,
			"err":     err,
		}).Error("insert auction event failed")
		return err
	}
	return nil
}

func (im *eventImpl) FindAll(c ctx.Ctx, opts ...auction.EventFindAllOptionsFunc) ([]*auction.Event, error) {
	options, err := auction.GetEventFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	selector := bson.M{}
	if options.EventIdGT != nil {
		selector["eventId"] = bson.M{"$gt": *options.EventIdGT}
	}
	if len(options.Types) > 0 {
		selector["type"] = bson.M{"$in": options.Types}
	}
	if options.AuctionId != nil {
		selector["auctionId"] = *options.AuctionId
	}

	limit := int32(defaultEventCap)
	if options.Limit != nil {
		limit = *options.Limit
	}

	res := []*auction.Event{}
	if err := im.query.Search(c, domain.TableAuctionEvents, 0, int(limit), defaultEventSort, selector, &res); err != nil {
		c.WithField("err", err).Error("search auction events failed")
		return nil, err
	}
	return res, nil
}
