package usecase

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	"github.com/doma-auction/goapi/domain/dometoken"
	"github.com/doma-auction/goapi/domain/fund"
	"github.com/doma-auction/goapi/service/query"
)

type AuctionUseCaseCfg struct {
	AuctionRepo auction.Repo
	BidRepo     auction.BidRepo
	EventRepo   auction.EventRepo
	Custody     fund.Custody
	TokenUC     dometoken.Usecase
	Query       query.Mongo

	// CommitmentFee is the fixed wei amount escrowed per bid placement.
	CommitmentFee string
	// CustodyAddress holds tokens in escrow between creation and
	// settlement.
	CustodyAddress domain.Address
	// Now is injectable for deterministic tests. Defaults to time.Now.
	Now func() time.Time
}

type impl struct {
	repo           auction.Repo
	bidRepo        auction.BidRepo
	eventRepo      auction.EventRepo
	custody        fund.Custody
	token          dometoken.Usecase
	q              query.Mongo
	commitmentFee  string
	custodyAddress domain.Address
	now            func() time.Time
}

// New creates auction usecase
func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &impl{
		repo:           cfg.AuctionRepo,
		bidRepo:        cfg.BidRepo,
		eventRepo:      cfg.EventRepo,
		custody:        cfg.Custody,
		token:          cfg.TokenUC,
		q:              cfg.Query,
		commitmentFee:  cfg.CommitmentFee,
		custodyAddress: cfg.CustodyAddress,
		now:            now,
	}
}

func (im *impl) Create(c ctx.Ctx, seller domain.Address, params auction.CreateParams) (*auction.Auction, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"seller":  seller,
		"tokenId": params.TokenId,
	})

	if params.DurationSeconds <= 0 {
		return nil, domain.ErrZeroDuration
	}
	if _, err := domain.ParseWei(params.ReservePrice); err != nil {
		return nil, err
	}
	if _, err := domain.ParseWei(params.MinIncrement); err != nil {
		return nil, err
	}

	token, err := im.token.Get(c, params.TokenId)
	if err != nil {
		return nil, err
	}
	if ok, err := im.token.IsApprovedOrOwner(c, params.TokenId, seller); err != nil {
		return nil, err
	} else if !ok {
		return nil, domain.ErrNotTokenOwner
	}

	// one live auction per token
	if latestId, found, err := im.repo.GetLatestByTokenId(c, params.TokenId); err != nil {
		return nil, err
	} else if found {
		latest, err := im.repo.FindOne(c, latestId)
		if err != nil {
			return nil, err
		}
		if latest.IsActiveAt(im.now()) {
			return nil, domain.ErrAuctionActive
		}
	}

	id, err := im.repo.NextId(c)
	if err != nil {
		return nil, err
	}

	now := im.now()
	a := &auction.Auction{
		AuctionId:     id,
		TokenId:       params.TokenId,
		DomainName:    token.DomainName,
		Seller:        seller,
		StartTime:     now.Unix(),
		EndTime:       now.Unix() + params.DurationSeconds,
		ReservePrice:  params.ReservePrice,
		MinIncrement:  params.MinIncrement,
		Settled:       false,
		HighestBidder: domain.EmptyAddress,
		HighestBid:    "0",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	run := func(c ctx.Ctx) error {
		// token sits in custody until settlement
		if err := im.token.TransferFrom(c, params.TokenId, token.Owner, im.custodyAddress, seller); err != nil {
			return xerrors.Errorf("failed to escrow token: %w", err)
		}
		if err := im.repo.Insert(c, a); err != nil {
			return xerrors.Errorf("failed to insert auction: %w", err)
		}
		if err := im.repo.SetLatest(c, a.TokenId, a.DomainName, a.AuctionId); err != nil {
			return xerrors.Errorf("failed to set latest auction: %w", err)
		}
		if err := im.eventRepo.Insert(c, &auction.Event{
			Type:         auction.EventTypeAuctionCreated,
			AuctionId:    a.AuctionId,
			TokenId:      a.TokenId,
			DomainName:   a.DomainName,
			Seller:       a.Seller.ToLower(),
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			ReservePrice: a.ReservePrice,
			MinIncrement: a.MinIncrement,
		}); err != nil {
			return xerrors.Errorf("failed to insert event: %w", err)
		}
		return nil
	}
	if err := im.q.RunWithTransaction(c, run); err != nil {
		c.WithField("err", err).Error("create auction transaction failed")
		return nil, unwrap(err)
	}
	return a, nil
}

func (im *impl) PlaceBid(c ctx.Ctx, id domain.AuctionId, bidder domain.Address, amount, attachedValue string) (*auction.Auction, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"auctionId": id,
		"bidder":    bidder,
		"amount":    amount,
	})

	a, err := im.repo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	now := im.now()
	if a.Settled {
		return nil, domain.ErrAuctionEnded
	}
	if now.Unix() < a.StartTime {
		return nil, domain.ErrAuctionNotStarted
	}
	if now.Unix() >= a.EndTime {
		return nil, domain.ErrAuctionEnded
	}

	// the attached value covers exactly the commitment fee, never the bid
	// amount itself
	attached, err := domain.ParseWei(attachedValue)
	if err != nil {
		return nil, err
	}
	fee, err := domain.ParseWei(im.commitmentFee)
	if err != nil {
		return nil, err
	}
	if attached.Cmp(fee) != 0 {
		return nil, domain.ErrWrongCommitmentFee
	}

	amt, err := domain.ParseWei(amount)
	if err != nil {
		return nil, err
	}
	minNext, err := a.MinNextBid()
	if err != nil {
		return nil, err
	}
	if amt.Cmp(minNext) < 0 {
		if !a.HasBids() {
			return nil, domain.ErrBidBelowReserve
		}
		return nil, domain.ErrBidBelowMinIncrement
	}

	prevAmount := "0"
	if prev, err := im.bidRepo.FindOne(c, id, bidder); err == nil {
		d, err := decimal.NewFromString(prev.Amount.String())
		if err != nil {
			return nil, err
		}
		prevAmount = d.String()
	} else if err != domain.ErrNotFound {
		return nil, err
	}
	prevWei, err := domain.ParseWei(prevAmount)
	if err != nil {
		return nil, err
	}
	delta := decimal.NewFromBigInt(amt, 0).Sub(decimal.NewFromBigInt(prevWei, 0))

	run := func(c ctx.Ctx) error {
		if err := im.custody.EscrowFee(c, bidder, im.commitmentFee, id); err != nil {
			return xerrors.Errorf("failed to escrow fee: %w", err)
		}
		if err := im.repo.AdvanceBid(c, id, a.HighestBid, a.HighestBidder, amount, bidder); err != nil {
			return xerrors.Errorf("failed to advance bid: %w", err)
		}
		if a.HasBids() {
			// previous leader gets their whole bid back as withdrawable
			if err := im.custody.CreditOutbid(c, a.HighestBidder, a.HighestBid, id); err != nil {
				return xerrors.Errorf("failed to credit outbid: %w", err)
			}
		}
		if _, err := im.bidRepo.Increment(c, id, bidder, delta.String(), im.commitmentFee); err != nil {
			return xerrors.Errorf("failed to increment bid: %w", err)
		}
		if err := im.eventRepo.Insert(c, &auction.Event{
			Type:       auction.EventTypeBidPlaced,
			AuctionId:  a.AuctionId,
			TokenId:    a.TokenId,
			DomainName: a.DomainName,
			Bidder:     bidder.ToLower(),
			Amount:     amount,
		}); err != nil {
			return xerrors.Errorf("failed to insert event: %w", err)
		}
		return nil
	}
	if err := im.q.RunWithTransaction(c, run); err != nil {
		if e := unwrap(err); e != domain.ErrConflict && e != domain.ErrInsufficientFunds {
			c.WithField("err", err).Error("place bid transaction failed")
		}
		return nil, unwrap(err)
	}

	a.HighestBid = amount
	a.HighestBidder = bidder.ToLower()
	a.UpdatedAt = now
	return a, nil
}

func (im *impl) Settle(c ctx.Ctx, id domain.AuctionId, caller domain.Address) (*auction.Auction, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"auctionId": id,
		"caller":    caller,
	})

	a, err := im.repo.FindOne(c, id)
	if err != nil {
		return nil, err
	}
	if a.Settled {
		return nil, domain.ErrAlreadySettled
	}
	if im.now().Unix() < a.EndTime {
		return nil, domain.ErrAuctionNotEnded
	}

	winner := domain.EmptyAddress
	amount := "0"
	if a.ReserveMet() {
		winner = a.HighestBidder
		amount = a.HighestBid
	}

	run := func(c ctx.Ctx) error {
		if err := im.repo.MarkSettled(c, id); err != nil {
			return xerrors.Errorf("failed to mark settled: %w", err)
		}
		if !winner.IsZero() {
			if err := im.token.TransferFrom(c, a.TokenId, im.custodyAddress, winner, im.custodyAddress); err != nil {
				return xerrors.Errorf("failed to transfer token to winner: %w", err)
			}
			// seller is paid through the pull-payment ledger
			if err := im.custody.PayProceeds(c, a.Seller, amount, id); err != nil {
				return xerrors.Errorf("failed to pay proceeds: %w", err)
			}
		} else {
			if err := im.token.TransferFrom(c, a.TokenId, im.custodyAddress, a.Seller, im.custodyAddress); err != nil {
				return xerrors.Errorf("failed to return token to seller: %w", err)
			}
		}
		if err := im.eventRepo.Insert(c, &auction.Event{
			Type:       auction.EventTypeAuctionSettled,
			AuctionId:  a.AuctionId,
			TokenId:    a.TokenId,
			DomainName: a.DomainName,
			Winner:     winner,
			Amount:     amount,
		}); err != nil {
			return xerrors.Errorf("failed to insert event: %w", err)
		}
		return nil
	}
	if err := im.q.RunWithTransaction(c, run); err != nil {
		if e := unwrap(err); e != domain.ErrAlreadySettled {
			c.WithField("err", err).Error("settle transaction failed")
		}
		return nil, unwrap(err)
	}

	a.Settled = true
	return a, nil
}

func (im *impl) Withdraw(c ctx.Ctx, caller domain.Address) (string, error) {
	amount, err := im.custody.Withdraw(c, caller)
	if err != nil {
		if err != domain.ErrNothingToWithdraw {
			c.WithFields(log.Fields{
				"caller": caller,
				"err":    err,
			}).Error("custody.Withdraw failed")
		}
		return "", err
	}
	return amount, nil
}

func (im *impl) Get(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	return im.repo.FindOne(c, id)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return im.repo.FindAll(c, opts...)
}

func (im *impl) GetLatestAuctionIdByTokenId(c ctx.Ctx, tokenId domain.TokenId) (domain.AuctionId, bool, error) {
	return im.repo.GetLatestByTokenId(c, tokenId)
}

func (im *impl) GetLatestAuctionIdByDomainName(c ctx.Ctx, domainName domain.DomainName) (domain.AuctionId, bool, error) {
	return im.repo.GetLatestByDomainName(c, domainName)
}

func (im *impl) GetUserBidAmount(c ctx.Ctx, id domain.AuctionId, bidder domain.Address) (string, error) {
	b, err := im.bidRepo.FindOne(c, id, bidder)
	if err == domain.ErrNotFound {
		return "0", nil
	} else if err != nil {
		return "", err
	}
	d, err := decimal.NewFromString(b.Amount.String())
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func (im *impl) GetBids(c ctx.Ctx, id domain.AuctionId) ([]*auction.Bid, error) {
	return im.bidRepo.FindAll(c, id)
}

func (im *impl) PendingWithdrawals(c ctx.Ctx, address domain.Address) (string, error) {
	return im.custody.PendingWithdrawals(c, address)
}

// unwrap digs the domain sentinel out of a wrapped transaction error so
// callers can match on it.
func unwrap(err error) error {
	for _, sentinel := range []error{
		domain.ErrConflict,
		domain.ErrInsufficientFunds,
		domain.ErrAlreadySettled,
		domain.ErrAuctionActive,
		domain.ErrNotTokenOwner,
		domain.ErrNotFound,
	} {
		if xerrors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
