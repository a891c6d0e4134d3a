package auction

import (
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
)

// Auction is a single-item ascending-price english auction over a domain
// ownership token. Records are never deleted; a settled auction is kept as
// an immutable history entry.
type Auction struct {
	AuctionId     domain.AuctionId  `json:"auctionId" bson:"auctionId"`
	TokenId       domain.TokenId    `json:"tokenId" bson:"tokenId"`
	DomainName    domain.DomainName `json:"domainName" bson:"domainName"`
	Seller        domain.Address    `json:"seller" bson:"seller"`
	StartTime     int64             `json:"startTime" bson:"startTime"`
	EndTime       int64             `json:"endTime" bson:"endTime"`
	ReservePrice  string            `json:"reservePrice" bson:"reservePrice"`
	MinIncrement  string            `json:"minIncrement" bson:"minIncrement"`
	Settled       bool              `json:"settled" bson:"settled"`
	HighestBidder domain.Address    `json:"highestBidder" bson:"highestBidder"`
	HighestBid    string            `json:"highestBid" bson:"highestBid"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
}

func (a *Auction) LowerCase() {
	a.Seller = a.Seller.ToLower()
	a.HighestBidder = a.HighestBidder.ToLower()
	a.DomainName = a.DomainName.ToLower()
}

func (a *Auction) HasBids() bool {
	return !a.HighestBidder.IsZero()
}

// IsOpenAt reports whether the auction still accepts bids at t.
func (a *Auction) IsOpenAt(t time.Time) bool {
	return !a.Settled && t.Unix() >= a.StartTime && t.Unix() < a.EndTime
}

// IsActiveAt reports whether the auction blocks creating another auction
// for the same token: not settled and not yet expired.
func (a *Auction) IsActiveAt(t time.Time) bool {
	return !a.Settled && t.Unix() < a.EndTime
}

// ReserveMet reports whether the highest bid meets the reserve price.
// An auction without bids never meets reserve.
func (a *Auction) ReserveMet() bool {
	if !a.HasBids() {
		return false
	}
	bid, err := domain.ParseWei(a.HighestBid)
	if err != nil {
		return false
	}
	reserve, err := domain.ParseWei(a.ReservePrice)
	if err != nil {
		return false
	}
	return bid.Cmp(reserve) >= 0
}

// MinNextBid is the smallest acceptable next bid: reserve for the first
// bid, highest plus increment afterwards.
func (a *Auction) MinNextBid() (*big.Int, error) {
	reserve, err := domain.ParseWei(a.ReservePrice)
	if err != nil {
		return nil, err
	}
	if !a.HasBids() {
		return reserve, nil
	}
	highest, err := domain.ParseWei(a.HighestBid)
	if err != nil {
		return nil, err
	}
	increment, err := domain.ParseWei(a.MinIncrement)
	if err != nil {
		return nil, err
	}
	min := new(big.Int).Add(highest, increment)
	if min.Cmp(reserve) < 0 {
		min = reserve
	}
	return min, nil
}

// CreateParams is the caller-supplied portion of a new auction.
type CreateParams struct {
	TokenId         domain.TokenId    `json:"tokenId"`
	DomainName      domain.DomainName `json:"domainName"`
	DurationSeconds int64             `json:"durationSeconds"`
	ReservePrice    string            `json:"reservePrice"`
	MinIncrement    string            `json:"minIncrement"`
}

// Bid is the cumulative bid record of one bidder in one auction. Amount
// only ever increases; FeePaid accumulates the fixed commitment fee taken
// per placement.
type Bid struct {
	AuctionId domain.AuctionId     `json:"auctionId" bson:"auctionId"`
	Bidder    domain.Address       `json:"bidder" bson:"bidder"`
	Amount    primitive.Decimal128 `json:"amount" bson:"amount"`
	FeePaid   primitive.Decimal128 `json:"feePaid" bson:"feePaid"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type FindAllOptions struct {
	TokenId   *domain.TokenId
	Seller    *domain.Address
	Settled   *bool
	EndTimeLT *time.Time
	EndTimeGT *time.Time
	Offset    *int32
	Limit     *int32
	Sort      *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithTokenId(tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenId = &tokenId
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		seller = seller.ToLower()
		options.Seller = &seller
		return nil
	}
}

func WithSettled(settled bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Settled = &settled
		return nil
	}
}

func WithEndTimeLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLT = &t
		return nil
	}
}

func WithEndTimeGT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeGT = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

// Repo is the auction ledger: auction records plus the latest-auction
// lookup indexes keyed by token id and by domain name.
type Repo interface {
	// NextId allocates the next auction id from a monotonic counter.
	NextId(ctx ctx.Ctx) (domain.AuctionId, error)
	Insert(ctx ctx.Ctx, a *Auction) error
	FindOne(ctx ctx.Ctx, id domain.AuctionId) (*Auction, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)

	// AdvanceBid moves highestBid/highestBidder from the expected previous
	// values to the new ones. It fails with domain.ErrConflict when another
	// bid won the race, leaving the record untouched.
	AdvanceBid(ctx ctx.Ctx, id domain.AuctionId, prevBid string, prevBidder domain.Address, newBid string, newBidder domain.Address) error

	// MarkSettled flips settled false -> true exactly once. A second call
	// fails with domain.ErrAlreadySettled.
	MarkSettled(ctx ctx.Ctx, id domain.AuctionId) error

	SetLatest(ctx ctx.Ctx, tokenId domain.TokenId, domainName domain.DomainName, id domain.AuctionId) error
	GetLatestByTokenId(ctx ctx.Ctx, tokenId domain.TokenId) (domain.AuctionId, bool, error)
	GetLatestByDomainName(ctx ctx.Ctx, domainName domain.DomainName) (domain.AuctionId, bool, error)
}

// BidRepo tracks cumulative per-bidder bid records.
type BidRepo interface {
	Increment(ctx ctx.Ctx, id domain.AuctionId, bidder domain.Address, amount, fee string) (*Bid, error)
	FindOne(ctx ctx.Ctx, id domain.AuctionId, bidder domain.Address) (*Bid, error)
	FindAll(ctx ctx.Ctx, id domain.AuctionId) ([]*Bid, error)
}

type UseCase interface {
	Create(ctx ctx.Ctx, seller domain.Address, params CreateParams) (*Auction, error)
	// PlaceBid admits a bid of amount wei; attachedValue must equal the
	// protocol commitment fee exactly.
	PlaceBid(ctx ctx.Ctx, id domain.AuctionId, bidder domain.Address, amount, attachedValue string) (*Auction, error)
	// Settle finalizes an expired auction. It is permissionless: caller is
	// recorded for logging only.
	Settle(ctx ctx.Ctx, id domain.AuctionId, caller domain.Address) (*Auction, error)
	Withdraw(ctx ctx.Ctx, caller domain.Address) (string, error)

	Get(ctx ctx.Ctx, id domain.AuctionId) (*Auction, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	GetLatestAuctionIdByTokenId(ctx ctx.Ctx, tokenId domain.TokenId) (domain.AuctionId, bool, error)
	GetLatestAuctionIdByDomainName(ctx ctx.Ctx, domainName domain.DomainName) (domain.AuctionId, bool, error)
	GetUserBidAmount(ctx ctx.Ctx, id domain.AuctionId, bidder domain.Address) (string, error)
	GetBids(ctx ctx.Ctx, id domain.AuctionId) ([]*Bid, error)
	PendingWithdrawals(ctx ctx.Ctx, address domain.Address) (string, error)
}
