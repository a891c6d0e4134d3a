package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/dometoken"
	"github.com/doma-auction/goapi/domain/dometoken/mocks"
)

var (
	owner    = domain.Address("0x18c7766a10df15df8c971f6e8c1d2bba7c7a410b")
	operator = domain.Address("0x00000000000000000000000000000000000000aa")
	receiver = domain.Address("0x00000000000000000000000000000000000000bb")
)

type tokenUseCaseSuite struct {
	suite.Suite

	repo *mocks.Repo
	im   dometoken.Usecase
}

func TestTokenUseCaseSuite(t *testing.T) {
	suite.Run(t, new(tokenUseCaseSuite))
}

func (s *tokenUseCaseSuite) SetupTest() {
	s.repo = &mocks.Repo{}
	s.im = New(&TokenUseCaseCfg{Repo: s.repo})
}

func (s *tokenUseCaseSuite) token() *dometoken.Token {
	return &dometoken.Token{
		TokenId:    "42",
		DomainName: "example.xyz",
		Owner:      owner,
		Approved:   domain.EmptyAddress,
	}
}

func (s *tokenUseCaseSuite) TestMintClearsApproval() {
	s.repo.On("Insert", mock.Anything, mock.MatchedBy(func(t *dometoken.Token) bool {
		return t.Approved.IsZero() && !t.CreatedAt.IsZero()
	})).Return(nil)

	s.NoError(s.im.Mint(bCtx.Background(), &dometoken.Token{
		TokenId:    "42",
		DomainName: "example.xyz",
		Owner:      owner,
		Approved:   operator,
	}))
	s.repo.AssertExpectations(s.T())
}

func (s *tokenUseCaseSuite) TestIsApprovedOrOwner() {
	t := s.token()
	t.Approved = operator
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(t, nil)

	ok, err := s.im.IsApprovedOrOwner(bCtx.Background(), "42", owner)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.im.IsApprovedOrOwner(bCtx.Background(), "42", operator)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.im.IsApprovedOrOwner(bCtx.Background(), "42", receiver)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *tokenUseCaseSuite) TestZeroApprovalNeverMatches() {
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(s.token(), nil)

	ok, err := s.im.IsApprovedOrOwner(bCtx.Background(), "42", domain.EmptyAddress)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *tokenUseCaseSuite) TestApprove() {
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(s.token(), nil)
	s.repo.On("Patch", mock.Anything, domain.TokenId("42"), mock.MatchedBy(func(p dometoken.Patchable) bool {
		return p.Approved != nil && *p.Approved == operator && p.Owner == nil
	})).Return(nil)

	s.NoError(s.im.Approve(bCtx.Background(), "42", owner, operator))
	s.repo.AssertExpectations(s.T())
}

func (s *tokenUseCaseSuite) TestApproveByNonOwner() {
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(s.token(), nil)

	err := s.im.Approve(bCtx.Background(), "42", operator, receiver)
	s.Equal(domain.ErrNotTokenOwner, err)
	s.repo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *tokenUseCaseSuite) TestTransferFromByOwner() {
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(s.token(), nil)
	s.repo.On("Patch", mock.Anything, domain.TokenId("42"), mock.MatchedBy(func(p dometoken.Patchable) bool {
		return p.Owner != nil && *p.Owner == receiver &&
			p.Approved != nil && (*p.Approved).IsZero()
	})).Return(nil)

	s.NoError(s.im.TransferFrom(bCtx.Background(), "42", owner, receiver, owner))
	s.repo.AssertExpectations(s.T())
}

func (s *tokenUseCaseSuite) TestTransferFromByOperator() {
	t := s.token()
	t.Approved = operator
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(t, nil)
	s.repo.On("Patch", mock.Anything, domain.TokenId("42"), mock.Anything).Return(nil)

	s.NoError(s.im.TransferFrom(bCtx.Background(), "42", owner, receiver, operator))
}

func (s *tokenUseCaseSuite) TestTransferFromWrongFrom() {
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(s.token(), nil)

	err := s.im.TransferFrom(bCtx.Background(), "42", receiver, operator, owner)
	s.Equal(domain.ErrNotTokenOwner, err)
}

func (s *tokenUseCaseSuite) TestTransferFromUnauthorizedCaller() {
	s.repo.On("FindOne", mock.Anything, domain.TokenId("42")).Return(s.token(), nil)

	err := s.im.TransferFrom(bCtx.Background(), "42", owner, receiver, receiver)
	s.Equal(domain.ErrNotTokenOwner, err)
	s.repo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}
