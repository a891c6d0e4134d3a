package repository

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	"github.com/doma-auction/goapi/domain/keys"
	"github.com/doma-auction/goapi/service/query"
	"github.com/doma-auction/goapi/service/redis"
)

const (
	auctionIdCounter = "auctionId"

	defaultLimit = 32
	defaultSort  = "-auctionId"

	latestCacheTTL = 10 * time.Minute
)

type counter struct {
	Tag string `bson:"tag"`
	Seq uint64 `bson:"seq"`
}

// latestEntry maps a token to its most recent auction. Looked up by token
// id or by domain name.
type latestEntry struct {
	TokenId    domain.TokenId    `bson:"tokenId"`
	DomainName domain.DomainName `bson:"domainName"`
	AuctionId  domain.AuctionId  `bson:"auctionId"`
	UpdatedAt  time.Time         `bson:"updatedAt"`
}

type impl struct {
	query query.Mongo
	redis redis.Service
}

// New creates new auction repo
func New(query query.Mongo, redis redis.Service) auction.Repo {
	return &impl{
		query: query,
		redis: redis,
	}
}

func (im *impl) NextId(c ctx.Ctx) (domain.AuctionId, error) {
	res := &counter{}
	if err := im.query.Increment(c, domain.TableCounters, bson.M{"tag": auctionIdCounter}, res, "seq", uint64(1)); err != nil {
		c.WithField("err", err).Error("increment auction id counter failed")
		return 0, err
	}
	return domain.AuctionId(res.Seq), nil
}

func (im *impl) Insert(c ctx.Ctx, a *auction.Auction) error {
	a.LowerCase()
	if err := im.query.Insert(c, domain.TableAuctions, a); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"auctionId": a.AuctionId,
			"err":       err,
		}).Error("insert auction failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	a := &auction.Auction{}
	err := im.query.FindOne(c, domain.TableAuctions, bson.M{"auctionId": id}, a)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"auctionId": id,
			"err":       err,
		}).Error("find auction failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	offset := int32(0)
	limit := int32(defaultLimit)
	sort := defaultSort
	if options.Offset != nil {
		offset = *options.Offset
	}
	if options.Limit != nil {
		limit = *options.Limit
	}
	if options.Sort != nil {
		sort = *options.Sort
	}

	res := []*auction.Auction{}
	if err := im.query.Search(c, domain.TableAuctions, int(offset), int(limit), sort, makeSelector(options), &res); err != nil {
		c.WithField("err", err).Error("search auctions failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) (int, error) {
	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return 0, err
	}
	return im.query.Count(c, domain.TableAuctions, makeSelector(options))
}

func (im *impl) AdvanceBid(c ctx.Ctx, id domain.AuctionId, prevBid string, prevBidder domain.Address, newBid string, newBidder domain.Address) error {
	selector := bson.M{
		"auctionId":     id,
		"settled":       false,
		"highestBid":    prevBid,
		"highestBidder": prevBidder.ToLower(),
	}
	update := bson.M{
		"$set": bson.M{
			"highestBid":    newBid,
			"highestBidder": newBidder.ToLower(),
			"updatedAt":     time.Now(),
		},
	}
	if err := im.query.CustomPatch(c, domain.TableAuctions, selector, update, false); err == query.ErrNotFound {
		// lost the race against a concurrent bid
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"auctionId": id,
			"newBid":    newBid,
			"err":       err,
		}).Error("advance bid failed")
		return err
	}
	return nil
}

func (im *impl) MarkSettled(c ctx.Ctx, id domain.AuctionId) error {
	selector := bson.M{
		"auctionId": id,
		"settled":   false,
	}
	update := bson.M{
		"$set": bson.M{
			"settled":   true,
			"updatedAt": time.Now(),
		},
	}
	if err := im.query.CustomPatch(c, domain.TableAuctions, selector, update, false); err == query.ErrNotFound {
		return domain.ErrAlreadySettled
	} else if err != nil {
		c.WithFields(log.Fields{
			"auctionId": id,
			"err":       err,
		}).Error("mark settled failed")
		return err
	}
	return nil
}

func (im *impl) SetLatest(c ctx.Ctx, tokenId domain.TokenId, domainName domain.DomainName, id domain.AuctionId) error {
	entry := &latestEntry{
		TokenId:    tokenId,
		DomainName: domainName.ToLower(),
		AuctionId:  id,
		UpdatedAt:  time.Now(),
	}
	if err := im.query.Upsert(c, domain.TableAuctionIndexes, bson.M{"tokenId": tokenId}, entry); err != nil {
		c.WithFields(log.Fields{
			"tokenId":   tokenId,
			"auctionId": id,
			"err":       err,
		}).Error("upsert latest auction index failed")
		return err
	}

	if im.redis == nil {
		return nil
	}

	// write-through, a stale cache entry would point bidders at a closed
	// auction
	val := []byte(strconv.FormatUint(uint64(id), 10))
	for _, key := range []string{
		keys.RedisKey(keys.PfxAuctionLatest, "token", tokenId.String()),
		keys.RedisKey(keys.PfxAuctionLatest, "name", domainName.ToLower().String()),
	} {
		if err := im.redis.Set(c, key, val, latestCacheTTL); err != nil {
			c.WithFields(log.Fields{
				"key": key,
				"err": err,
			}).Warn("cache latest auction id failed")
		}
	}
	return nil
}

func (im *impl) GetLatestByTokenId(c ctx.Ctx, tokenId domain.TokenId) (domain.AuctionId, bool, error) {
	key := keys.RedisKey(keys.PfxAuctionLatest, "token", tokenId.String())
	if id, ok := im.getCachedLatest(c, key); ok {
		return id, true, nil
	}

	entry := &latestEntry{}
	err := im.query.FindOne(c, domain.TableAuctionIndexes, bson.M{"tokenId": tokenId}, entry)
	if err == query.ErrNotFound {
		return 0, false, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("find latest auction index failed")
		return 0, false, err
	}
	return entry.AuctionId, true, nil
}

func (im *impl) GetLatestByDomainName(c ctx.Ctx, domainName domain.DomainName) (domain.AuctionId, bool, error) {
	key := keys.RedisKey(keys.PfxAuctionLatest, "name", domainName.ToLower().String())
	if id, ok := im.getCachedLatest(c, key); ok {
		return id, true, nil
	}

	entry := &latestEntry{}
	err := im.query.FindOne(c, domain.TableAuctionIndexes, bson.M{"domainName": domainName.ToLower()}, entry)
	if err == query.ErrNotFound {
		return 0, false, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"domainName": domainName,
			"err":        err,
		}).Error("find latest auction index failed")
		return 0, false, err
	}
	return entry.AuctionId, true, nil
}

func (im *impl) getCachedLatest(c ctx.Ctx, key string) (domain.AuctionId, bool) {
	if im.redis == nil {
		return 0, false
	}
	val, err := im.redis.Get(c, key)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(string(val), 10, 64)
	if err != nil {
		return 0, false
	}
	return domain.AuctionId(id), true
}

func makeSelector(options auction.FindAllOptions) bson.M {
	selector := bson.M{}
	if options.TokenId != nil {
		selector["tokenId"] = *options.TokenId
	}
	if options.Seller != nil {
		selector["seller"] = options.Seller.ToLower()
	}
	if options.Settled != nil {
		selector["settled"] = *options.Settled
	}
	endTime := bson.M{}
	if options.EndTimeLT != nil {
		endTime["$lt"] = options.EndTimeLT.Unix()
	}
	if options.EndTimeGT != nil {
		endTime["$gt"] = options.EndTimeGT.Unix()
	}
	if len(endTime) > 0 {
		selector["endTime"] = endTime
	}
	return selector
}
