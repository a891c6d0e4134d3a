package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/fund"
	"github.com/doma-auction/goapi/domain/fund/mocks"
)

var holder = domain.Address("0x00000000000000000000000000000000000000aa")

type custodySuite struct {
	suite.Suite

	repo *mocks.Repo
	im   fund.Custody
}

func TestCustodySuite(t *testing.T) {
	suite.Run(t, new(custodySuite))
}

func (s *custodySuite) SetupTest() {
	s.repo = &mocks.Repo{}
	s.im = New(&CustodyCfg{Repo: s.repo})
}

func (s *custodySuite) account(deposited, withdrawable string) *fund.Account {
	d, err := primitive.ParseDecimal128(deposited)
	s.Require().NoError(err)
	w, err := primitive.ParseDecimal128(withdrawable)
	s.Require().NoError(err)
	return &fund.Account{
		Address:      holder,
		Deposited:    d,
		Withdrawable: w,
	}
}

func (s *custodySuite) TestDeposit() {
	s.repo.On("CreditDeposited", mock.Anything, holder, "1000000000000000000").Return(nil)
	s.repo.On("Get", mock.Anything, holder).Return(s.account("1000000000000000000", "0"), nil)

	a, err := s.im.Deposit(bCtx.Background(), holder, "1000000000000000000")
	s.Require().NoError(err)
	s.Equal("1000000000000000000", a.Deposited.String())
	s.repo.AssertExpectations(s.T())
}

func (s *custodySuite) TestDepositRejectsMalformedAmount() {
	for _, amount := range []string{"", "-1", "1.5", "0x10", "abc"} {
		_, err := s.im.Deposit(bCtx.Background(), holder, amount)
		s.Error(err, amount)
	}
	s.repo.AssertNotCalled(s.T(), "CreditDeposited", mock.Anything, mock.Anything, mock.Anything)
}

func (s *custodySuite) TestEscrowFee() {
	s.repo.On("DebitDeposited", mock.Anything, holder, "1000000000000000").Return(nil)

	s.NoError(s.im.EscrowFee(bCtx.Background(), holder, "1000000000000000", 1))
}

func (s *custodySuite) TestEscrowFeeInsufficient() {
	s.repo.On("DebitDeposited", mock.Anything, holder, "1000000000000000").Return(domain.ErrInsufficientFunds)

	err := s.im.EscrowFee(bCtx.Background(), holder, "1000000000000000", 1)
	s.Equal(domain.ErrInsufficientFunds, err)
}

func (s *custodySuite) TestWithdraw() {
	s.repo.On("Get", mock.Anything, holder).Return(s.account("0", "1000000000000000000"), nil)
	s.repo.On("ZeroWithdrawable", mock.Anything, holder, "1000000000000000000").Return(nil)
	s.repo.On("CreditDeposited", mock.Anything, holder, "1000000000000000000").Return(nil)

	amount, err := s.im.Withdraw(bCtx.Background(), holder)
	s.Require().NoError(err)
	s.Equal("1000000000000000000", amount)
	s.repo.AssertExpectations(s.T())
}

func (s *custodySuite) TestWithdrawNothing() {
	s.repo.On("Get", mock.Anything, holder).Return(s.account("500", "0"), nil)

	_, err := s.im.Withdraw(bCtx.Background(), holder)
	s.Equal(domain.ErrNothingToWithdraw, err)
	s.repo.AssertNotCalled(s.T(), "ZeroWithdrawable", mock.Anything, mock.Anything, mock.Anything)
}

func (s *custodySuite) TestWithdrawLosesRace() {
	s.repo.On("Get", mock.Anything, holder).Return(s.account("0", "1000000000000000000"), nil)
	s.repo.On("ZeroWithdrawable", mock.Anything, holder, "1000000000000000000").Return(domain.ErrConflict)

	_, err := s.im.Withdraw(bCtx.Background(), holder)
	s.Equal(domain.ErrConflict, err)
	s.repo.AssertNotCalled(s.T(), "CreditDeposited", mock.Anything, mock.Anything, mock.Anything)
}

func (s *custodySuite) TestPendingWithdrawals() {
	s.repo.On("Get", mock.Anything, holder).Return(s.account("0", "1200000000000000000"), nil)

	amount, err := s.im.PendingWithdrawals(bCtx.Background(), holder)
	s.Require().NoError(err)
	s.Equal("1200000000000000000", amount)
}
