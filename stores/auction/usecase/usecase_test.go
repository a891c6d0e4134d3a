package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	auctionMocks "github.com/doma-auction/goapi/domain/auction/mocks"
	"github.com/doma-auction/goapi/domain/dometoken"
	dometokenMocks "github.com/doma-auction/goapi/domain/dometoken/mocks"
	fundMocks "github.com/doma-auction/goapi/domain/fund/mocks"
	queryMocks "github.com/doma-auction/goapi/service/query/mocks"
)

const (
	commitmentFee = "1000000000000000"

	reserve   = "1000000000000000000"
	increment = "100000000000000000"
)

var (
	custodyAddress = domain.Address("0x000000000000000000000000000000000000c0de")
	seller         = domain.Address("0x18c7766a10df15df8c971f6e8c1d2bba7c7a410b")
	bidderA        = domain.Address("0x00000000000000000000000000000000000000aa")
	bidderB        = domain.Address("0x00000000000000000000000000000000000000bb")
)

type auctionUseCaseSuite struct {
	suite.Suite

	repo    *auctionMocks.Repo
	bidRepo *auctionMocks.BidRepo
	events  *auctionMocks.EventRepo
	custody *fundMocks.Custody
	token   *dometokenMocks.Usecase
	query   *queryMocks.Mongo

	now time.Time
	im  auction.UseCase
}

func TestAuctionUseCaseSuite(t *testing.T) {
	suite.Run(t, new(auctionUseCaseSuite))
}

func (s *auctionUseCaseSuite) SetupTest() {
	s.repo = &auctionMocks.Repo{}
	s.bidRepo = &auctionMocks.BidRepo{}
	s.events = &auctionMocks.EventRepo{}
	s.custody = &fundMocks.Custody{}
	s.token = &dometokenMocks.Usecase{}
	s.query = &queryMocks.Mongo{}
	s.now = time.Unix(1700000000, 0)

	s.query.On("RunWithTransaction", mock.Anything, mock.Anything).Return(
		func(c bCtx.Ctx, run func(bCtx.Ctx) error) error {
			return run(c)
		},
	).Maybe()

	s.im = New(&AuctionUseCaseCfg{
		AuctionRepo:    s.repo,
		BidRepo:        s.bidRepo,
		EventRepo:      s.events,
		Custody:        s.custody,
		TokenUC:        s.token,
		Query:          s.query,
		CommitmentFee:  commitmentFee,
		CustodyAddress: custodyAddress,
		Now:            func() time.Time { return s.now },
	})
}

func (s *auctionUseCaseSuite) openAuction() *auction.Auction {
	return &auction.Auction{
		AuctionId:     1,
		TokenId:       "42",
		DomainName:    "example.xyz",
		Seller:        seller,
		StartTime:     s.now.Unix() - 100,
		EndTime:       s.now.Unix() + 1000,
		ReservePrice:  reserve,
		MinIncrement:  increment,
		Settled:       false,
		HighestBidder: domain.EmptyAddress,
		HighestBid:    "0",
	}
}

func (s *auctionUseCaseSuite) TestCreate() {
	ctx := bCtx.Background()

	s.token.On("Get", mock.Anything, domain.TokenId("42")).Return(&dometoken.Token{
		TokenId:    "42",
		DomainName: "example.xyz",
		Owner:      seller,
	}, nil)
	s.token.On("IsApprovedOrOwner", mock.Anything, domain.TokenId("42"), seller).Return(true, nil)
	s.repo.On("GetLatestByTokenId", mock.Anything, domain.TokenId("42")).Return(domain.AuctionId(0), false, nil)
	s.repo.On("NextId", mock.Anything).Return(domain.AuctionId(7), nil)
	s.token.On("TransferFrom", mock.Anything, domain.TokenId("42"), seller, custodyAddress, seller).Return(nil)
	s.repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	s.repo.On("SetLatest", mock.Anything, domain.TokenId("42"), domain.DomainName("example.xyz"), domain.AuctionId(7)).Return(nil)
	s.events.On("Insert", mock.Anything, mock.MatchedBy(func(e *auction.Event) bool {
		return e.Type == auction.EventTypeAuctionCreated && e.AuctionId == 7
	})).Return(nil)

	a, err := s.im.Create(ctx, seller, auction.CreateParams{
		TokenId:         "42",
		DurationSeconds: 3600,
		ReservePrice:    reserve,
		MinIncrement:    increment,
	})
	s.Require().NoError(err)
	s.Equal(domain.AuctionId(7), a.AuctionId)
	s.Equal(s.now.Unix(), a.StartTime)
	s.Equal(s.now.Unix()+3600, a.EndTime)
	s.Equal("0", a.HighestBid)
	s.True(a.HighestBidder.IsZero())
	s.False(a.Settled)
	s.repo.AssertExpectations(s.T())
	s.token.AssertExpectations(s.T())
	s.events.AssertExpectations(s.T())
}

func (s *auctionUseCaseSuite) TestCreateZeroDuration() {
	_, err := s.im.Create(bCtx.Background(), seller, auction.CreateParams{
		TokenId:         "42",
		DurationSeconds: 0,
		ReservePrice:    reserve,
		MinIncrement:    increment,
	})
	s.Equal(domain.ErrZeroDuration, err)
}

func (s *auctionUseCaseSuite) TestCreateNotOwner() {
	s.token.On("Get", mock.Anything, domain.TokenId("42")).Return(&dometoken.Token{
		TokenId:    "42",
		DomainName: "example.xyz",
		Owner:      seller,
	}, nil)
	s.token.On("IsApprovedOrOwner", mock.Anything, domain.TokenId("42"), bidderA).Return(false, nil)

	_, err := s.im.Create(bCtx.Background(), bidderA, auction.CreateParams{
		TokenId:         "42",
		DurationSeconds: 3600,
		ReservePrice:    reserve,
		MinIncrement:    increment,
	})
	s.Equal(domain.ErrNotTokenOwner, err)
}

func (s *auctionUseCaseSuite) TestCreateWhileActiveAuctionExists() {
	s.token.On("Get", mock.Anything, domain.TokenId("42")).Return(&dometoken.Token{
		TokenId:    "42",
		DomainName: "example.xyz",
		Owner:      seller,
	}, nil)
	s.token.On("IsApprovedOrOwner", mock.Anything, domain.TokenId("42"), seller).Return(true, nil)
	s.repo.On("GetLatestByTokenId", mock.Anything, domain.TokenId("42")).Return(domain.AuctionId(1), true, nil)
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(s.openAuction(), nil)

	_, err := s.im.Create(bCtx.Background(), seller, auction.CreateParams{
		TokenId:         "42",
		DurationSeconds: 3600,
		ReservePrice:    reserve,
		MinIncrement:    increment,
	})
	s.Equal(domain.ErrAuctionActive, err)
}

func (s *auctionUseCaseSuite) TestCreateAfterPreviousAuctionSettled() {
	prev := s.openAuction()
	prev.Settled = true

	s.token.On("Get", mock.Anything, domain.TokenId("42")).Return(&dometoken.Token{
		TokenId:    "42",
		DomainName: "example.xyz",
		Owner:      seller,
	}, nil)
	s.token.On("IsApprovedOrOwner", mock.Anything, domain.TokenId("42"), seller).Return(true, nil)
	s.repo.On("GetLatestByTokenId", mock.Anything, domain.TokenId("42")).Return(domain.AuctionId(1), true, nil)
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(prev, nil)
	s.repo.On("NextId", mock.Anything).Return(domain.AuctionId(2), nil)
	s.token.On("TransferFrom", mock.Anything, domain.TokenId("42"), seller, custodyAddress, seller).Return(nil)
	s.repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	s.repo.On("SetLatest", mock.Anything, domain.TokenId("42"), domain.DomainName("example.xyz"), domain.AuctionId(2)).Return(nil)
	s.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	a, err := s.im.Create(bCtx.Background(), seller, auction.CreateParams{
		TokenId:         "42",
		DurationSeconds: 3600,
		ReservePrice:    reserve,
		MinIncrement:    increment,
	})
	s.Require().NoError(err)
	s.Equal(domain.AuctionId(2), a.AuctionId)
}

func (s *auctionUseCaseSuite) TestPlaceFirstBid() {
	a := s.openAuction()
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderA).Return(nil, domain.ErrNotFound)
	s.custody.On("EscrowFee", mock.Anything, bidderA, commitmentFee, domain.AuctionId(1)).Return(nil)
	s.repo.On("AdvanceBid", mock.Anything, domain.AuctionId(1), "0", domain.EmptyAddress, reserve, bidderA).Return(nil)
	s.bidRepo.On("Increment", mock.Anything, domain.AuctionId(1), bidderA, reserve, commitmentFee).Return(&auction.Bid{}, nil)
	s.events.On("Insert", mock.Anything, mock.MatchedBy(func(e *auction.Event) bool {
		return e.Type == auction.EventTypeBidPlaced && e.Amount == reserve
	})).Return(nil)

	res, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, reserve, commitmentFee)
	s.Require().NoError(err)
	s.Equal(reserve, res.HighestBid)
	s.Equal(bidderA, res.HighestBidder)
	s.custody.AssertNotCalled(s.T(), "CreditOutbid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.repo.AssertExpectations(s.T())
	s.custody.AssertExpectations(s.T())
}

func (s *auctionUseCaseSuite) TestOutbidCreditsPreviousLeader() {
	a := s.openAuction()
	a.HighestBid = reserve
	a.HighestBidder = bidderA
	next := "1200000000000000000"

	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderB).Return(nil, domain.ErrNotFound)
	s.custody.On("EscrowFee", mock.Anything, bidderB, commitmentFee, domain.AuctionId(1)).Return(nil)
	s.repo.On("AdvanceBid", mock.Anything, domain.AuctionId(1), reserve, bidderA, next, bidderB).Return(nil)
	s.custody.On("CreditOutbid", mock.Anything, bidderA, reserve, domain.AuctionId(1)).Return(nil)
	s.bidRepo.On("Increment", mock.Anything, domain.AuctionId(1), bidderB, next, commitmentFee).Return(&auction.Bid{}, nil)
	s.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	res, err := s.im.PlaceBid(bCtx.Background(), 1, bidderB, next, commitmentFee)
	s.Require().NoError(err)
	s.Equal(next, res.HighestBid)
	s.Equal(bidderB, res.HighestBidder)
	s.custody.AssertExpectations(s.T())
}

func (s *auctionUseCaseSuite) TestRaiseOwnBidIncrementsDelta() {
	a := s.openAuction()
	a.HighestBid = reserve
	a.HighestBidder = bidderA
	next := "1200000000000000000"
	prevAmount, err := primitive.ParseDecimal128(reserve)
	s.Require().NoError(err)

	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderA).Return(&auction.Bid{
		AuctionId: 1,
		Bidder:    bidderA,
		Amount:    prevAmount,
	}, nil)
	s.custody.On("EscrowFee", mock.Anything, bidderA, commitmentFee, domain.AuctionId(1)).Return(nil)
	s.repo.On("AdvanceBid", mock.Anything, domain.AuctionId(1), reserve, bidderA, next, bidderA).Return(nil)
	s.custody.On("CreditOutbid", mock.Anything, bidderA, reserve, domain.AuctionId(1)).Return(nil)
	s.bidRepo.On("Increment", mock.Anything, domain.AuctionId(1), bidderA, "200000000000000000", commitmentFee).Return(&auction.Bid{}, nil)
	s.events.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err = s.im.PlaceBid(bCtx.Background(), 1, bidderA, next, commitmentFee)
	s.Require().NoError(err)
	s.bidRepo.AssertExpectations(s.T())
}

func (s *auctionUseCaseSuite) TestPlaceBidWrongFee() {
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(s.openAuction(), nil)

	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, reserve, "1")
	s.Equal(domain.ErrWrongCommitmentFee, err)
}

func (s *auctionUseCaseSuite) TestPlaceBidBelowReserve() {
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(s.openAuction(), nil)

	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, "999999999999999999", commitmentFee)
	s.Equal(domain.ErrBidBelowReserve, err)
}

func (s *auctionUseCaseSuite) TestPlaceBidBelowMinIncrement() {
	a := s.openAuction()
	a.HighestBid = reserve
	a.HighestBidder = bidderA
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)

	// above highest but below highest + increment
	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderB, "1050000000000000000", commitmentFee)
	s.Equal(domain.ErrBidBelowMinIncrement, err)
}

func (s *auctionUseCaseSuite) TestPlaceBidBeforeStart() {
	a := s.openAuction()
	a.StartTime = s.now.Unix() + 10
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)

	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, reserve, commitmentFee)
	s.Equal(domain.ErrAuctionNotStarted, err)
}

func (s *auctionUseCaseSuite) TestPlaceBidAfterEnd() {
	a := s.openAuction()
	a.EndTime = s.now.Unix()
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)

	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, reserve, commitmentFee)
	s.Equal(domain.ErrAuctionEnded, err)
}

func (s *auctionUseCaseSuite) TestPlaceBidInsufficientFunds() {
	a := s.openAuction()
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderA).Return(nil, domain.ErrNotFound)
	s.custody.On("EscrowFee", mock.Anything, bidderA, commitmentFee, domain.AuctionId(1)).Return(domain.ErrInsufficientFunds)

	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, reserve, commitmentFee)
	s.Equal(domain.ErrInsufficientFunds, err)
}

func (s *auctionUseCaseSuite) TestPlaceBidLosesRace() {
	a := s.openAuction()
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderA).Return(nil, domain.ErrNotFound)
	s.custody.On("EscrowFee", mock.Anything, bidderA, commitmentFee, domain.AuctionId(1)).Return(nil)
	s.repo.On("AdvanceBid", mock.Anything, domain.AuctionId(1), "0", domain.EmptyAddress, reserve, bidderA).Return(domain.ErrConflict)

	_, err := s.im.PlaceBid(bCtx.Background(), 1, bidderA, reserve, commitmentFee)
	s.Equal(domain.ErrConflict, err)
}

func (s *auctionUseCaseSuite) TestSettleWithWinner() {
	a := s.openAuction()
	a.EndTime = s.now.Unix() - 1
	a.HighestBid = "1200000000000000000"
	a.HighestBidder = bidderB

	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.repo.On("MarkSettled", mock.Anything, domain.AuctionId(1)).Return(nil)
	s.token.On("TransferFrom", mock.Anything, domain.TokenId("42"), custodyAddress, bidderB, custodyAddress).Return(nil)
	s.custody.On("PayProceeds", mock.Anything, seller, "1200000000000000000", domain.AuctionId(1)).Return(nil)
	s.events.On("Insert", mock.Anything, mock.MatchedBy(func(e *auction.Event) bool {
		return e.Type == auction.EventTypeAuctionSettled && e.Winner == bidderB
	})).Return(nil)

	res, err := s.im.Settle(bCtx.Background(), 1, bidderA)
	s.Require().NoError(err)
	s.True(res.Settled)
	s.token.AssertExpectations(s.T())
	s.custody.AssertExpectations(s.T())
	s.events.AssertExpectations(s.T())
}

func (s *auctionUseCaseSuite) TestSettleWithoutBidsReturnsToken() {
	a := s.openAuction()
	a.EndTime = s.now.Unix() - 1

	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.repo.On("MarkSettled", mock.Anything, domain.AuctionId(1)).Return(nil)
	s.token.On("TransferFrom", mock.Anything, domain.TokenId("42"), custodyAddress, seller, custodyAddress).Return(nil)
	s.events.On("Insert", mock.Anything, mock.MatchedBy(func(e *auction.Event) bool {
		return e.Type == auction.EventTypeAuctionSettled && e.Winner.IsZero() && e.Amount == "0"
	})).Return(nil)

	res, err := s.im.Settle(bCtx.Background(), 1, bidderA)
	s.Require().NoError(err)
	s.True(res.Settled)
	s.custody.AssertNotCalled(s.T(), "PayProceeds", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *auctionUseCaseSuite) TestSettleBeforeEnd() {
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(s.openAuction(), nil)

	_, err := s.im.Settle(bCtx.Background(), 1, bidderA)
	s.Equal(domain.ErrAuctionNotEnded, err)
}

func (s *auctionUseCaseSuite) TestSettleTwice() {
	a := s.openAuction()
	a.EndTime = s.now.Unix() - 1
	a.Settled = true
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)

	_, err := s.im.Settle(bCtx.Background(), 1, bidderA)
	s.Equal(domain.ErrAlreadySettled, err)
}

func (s *auctionUseCaseSuite) TestSettleLosesRace() {
	a := s.openAuction()
	a.EndTime = s.now.Unix() - 1
	s.repo.On("FindOne", mock.Anything, domain.AuctionId(1)).Return(a, nil)
	s.repo.On("MarkSettled", mock.Anything, domain.AuctionId(1)).Return(domain.ErrAlreadySettled)

	_, err := s.im.Settle(bCtx.Background(), 1, bidderA)
	s.Equal(domain.ErrAlreadySettled, err)
}

func (s *auctionUseCaseSuite) TestWithdraw() {
	s.custody.On("Withdraw", mock.Anything, bidderA).Return("1000000000000000000", nil)

	amount, err := s.im.Withdraw(bCtx.Background(), bidderA)
	s.Require().NoError(err)
	s.Equal("1000000000000000000", amount)
}

func (s *auctionUseCaseSuite) TestWithdrawNothing() {
	s.custody.On("Withdraw", mock.Anything, bidderA).Return("", domain.ErrNothingToWithdraw)

	_, err := s.im.Withdraw(bCtx.Background(), bidderA)
	s.Equal(domain.ErrNothingToWithdraw, err)
}

func (s *auctionUseCaseSuite) TestGetUserBidAmount() {
	amount, err := primitive.ParseDecimal128("1200000000000000000")
	s.Require().NoError(err)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderA).Return(&auction.Bid{
		AuctionId: 1,
		Bidder:    bidderA,
		Amount:    amount,
	}, nil)
	s.bidRepo.On("FindOne", mock.Anything, domain.AuctionId(1), bidderB).Return(nil, domain.ErrNotFound)

	got, err := s.im.GetUserBidAmount(bCtx.Background(), 1, bidderA)
	s.Require().NoError(err)
	s.Equal("1200000000000000000", got)

	got, err = s.im.GetUserBidAmount(bCtx.Background(), 1, bidderB)
	s.Require().NoError(err)
	s.Equal("0", got)
}
