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

type bidImpl struct {
	query query.Mongo
}

// NewBidRepo creates new auction bid repo
func NewBidRepo(query query.Mongo) auction.BidRepo {
	return &bidImpl{
		query: query,
	}
}

func (im *bidImpl) Increment(c ctx.Ctx, id domain.AuctionId, bidder domain.Address, amount, fee string) (*auction.Bid, error) {
	amt, err := domain.WeiToDecimal128(amount)
	if err != nil {
		return nil, err
	}
	feeAmt, err := domain.WeiToDecimal128(fee)
	if err != nil {
		return nil, err
	}

	res := &auction.Bid{}
	selector := bson.M{
		"auctionId": id,
		"bidder":    bidder.ToLower(),
	}
	fields := bson.M{
		"amount":  amt,
		"feePaid": feeAmt,
	}
	set := bson.M{"updatedAt": time.Now()}
	if err := im.query.IncrementMany(c, domain.TableAuctionBids, selector, fields, set, res); err != nil {
		c.WithFields(log.Fields{
			"auctionId": id,
			"bidder":    bidder,
			"amount":    amount,
			"err":       err,
		}).Error("increment bid failed")
		return nil, err
	}
	return res, nil
}

func (im *bidImpl) FindOne(c ctx.Ctx, id domain.AuctionId, bidder domain.Address) (*auction.Bid, error) {
	b := &auction.Bid{}
	selector := bson.M{
		"auctionId": id,
		"bidder":    bidder.ToLower(),
	}
	err := im.query.FindOne(c, domain.TableAuctionBids, selector, b)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"auctionId": id,
			"bidder":    bidder,
			"err":       err,
		}).Error("find bid failed")
		return nil, err
	}
	return b, nil
}

func (im *bidImpl) FindAll(c ctx.Ctx, id domain.AuctionId) ([]*auction.Bid, error) {
	res := []*auction.Bid{}
	if err := im.query.Search(c, domain.TableAuctionBids, 0, 0, "-amount", bson.M{"auctionId": id}, &res); err != nil {
		c.WithFields(log.Fields{
			"auctionId": id,
			"err":       err,
		}).Error("search bids failed")
		return nil, err
	}
	return res, nil
}
