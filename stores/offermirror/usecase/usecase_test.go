package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	auctionMocks "github.com/doma-auction/goapi/domain/auction/mocks"
	"github.com/doma-auction/goapi/domain/offermirror"
	mirrorMocks "github.com/doma-auction/goapi/domain/offermirror/mocks"
	"github.com/doma-auction/goapi/service/orderbook"
	orderbookMocks "github.com/doma-auction/goapi/service/orderbook/mocks"
)

var weth = domain.Address("0x82af49447d8a07e3bd95bd0d56f35241523fbab1")

type mirrorSuite struct {
	suite.Suite

	events *auctionMocks.EventRepo
	states *mirrorMocks.StateRepo
	book   *orderbookMocks.Client

	im offermirror.UseCase
}

func TestMirrorSuite(t *testing.T) {
	suite.Run(t, new(mirrorSuite))
}

func (s *mirrorSuite) SetupTest() {
	s.events = &auctionMocks.EventRepo{}
	s.states = &mirrorMocks.StateRepo{}
	s.book = &orderbookMocks.Client{}
	s.im = New(&MirrorUseCaseCfg{
		EventRepo:    s.events,
		StateRepo:    s.states,
		Orderbook:    s.book,
		PaymentToken: weth,
	})
}

func (s *mirrorSuite) bidEvent(id uint64, amount string) *auction.Event {
	return &auction.Event{
		EventId:    id,
		Type:       auction.EventTypeBidPlaced,
		AuctionId:  1,
		TokenId:    "42",
		DomainName: "example.xyz",
		Bidder:     "0x00000000000000000000000000000000000000aa",
		Amount:     amount,
		CreatedAt:  time.Unix(1700000000, 0),
	}
}

func (s *mirrorSuite) TestProcessOnce() {
	s.states.On("Get", mock.Anything, "offermirror").Return(&offermirror.State{
		Tag:         "offermirror",
		LastEventId: 10,
	}, nil)
	s.events.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Event{
		s.bidEvent(11, "1000000000000000000"),
		s.bidEvent(12, "1200000000000000000"),
	}, nil)
	s.book.On("CreateOffer", mock.Anything, mock.MatchedBy(func(o *orderbook.Offer) bool {
		return o.PaymentToken == weth &&
			o.Deadline == int64(1700000000+86400) &&
			(o.Price.Equal(decimal.RequireFromString("1")) ||
				o.Price.Equal(decimal.RequireFromString("1.2")))
	})).Return(nil).Twice()
	s.states.On("Save", mock.Anything, mock.MatchedBy(func(st *offermirror.State) bool {
		return st.Tag == "offermirror" && st.LastEventId == 12
	})).Return(nil)

	processed, err := s.im.ProcessOnce(bCtx.Background())
	s.Require().NoError(err)
	s.Equal(2, processed)
	s.book.AssertExpectations(s.T())
	s.states.AssertExpectations(s.T())
}

func (s *mirrorSuite) TestProcessOnceFirstRun() {
	s.states.On("Get", mock.Anything, "offermirror").Return(nil, domain.ErrNotFound)
	s.events.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Event{}, nil)

	processed, err := s.im.ProcessOnce(bCtx.Background())
	s.Require().NoError(err)
	s.Equal(0, processed)
	s.states.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
}

func (s *mirrorSuite) TestFailedMirrorStillAdvancesCursor() {
	s.states.On("Get", mock.Anything, "offermirror").Return(nil, domain.ErrNotFound)
	s.events.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Event{
		s.bidEvent(1, "1000000000000000000"),
		s.bidEvent(2, "1200000000000000000"),
	}, nil)
	s.book.On("CreateOffer", mock.Anything, mock.Anything).Return(errors.New("orderbook down"))
	s.states.On("Save", mock.Anything, mock.MatchedBy(func(st *offermirror.State) bool {
		return st.LastEventId == 2
	})).Return(nil)

	processed, err := s.im.ProcessOnce(bCtx.Background())
	s.Require().NoError(err)
	s.Equal(2, processed)
	s.states.AssertExpectations(s.T())
}
