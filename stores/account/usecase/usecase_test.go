package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/account"
	"github.com/doma-auction/goapi/domain/account/mocks"
)

const signatureMsg = "Welcome to Doma!\n\nNonce: %s"

type accountUseCaseSuite struct {
	suite.Suite

	repo *mocks.Repo
	im   account.Usecase
}

func TestAccountUseCaseSuite(t *testing.T) {
	suite.Run(t, new(accountUseCaseSuite))
}

func (s *accountUseCaseSuite) SetupTest() {
	s.repo = &mocks.Repo{}
	s.im = New(&AccountUseCaseCfg{
		Repo:         s.repo,
		SignatureMsg: signatureMsg,
	})
}

func (s *accountUseCaseSuite) TestGenerateNonceCreatesMissingAccount() {
	addr := domain.Address("0x00000000000000000000000000000000000000aa")
	s.repo.On("Get", mock.Anything, addr).Return(nil, domain.ErrNotFound)
	s.repo.On("Insert", mock.Anything, mock.MatchedBy(func(a *account.Account) bool {
		return a.Address == addr
	})).Return(nil)
	s.repo.On("SetLoginNonce", mock.Anything, addr, mock.AnythingOfType("int32")).Return(nil)

	nonce, err := s.im.GenerateNonce(bCtx.Background(), addr)
	s.Require().NoError(err)
	s.GreaterOrEqual(nonce, int32(0))
	s.repo.AssertExpectations(s.T())
}

func (s *accountUseCaseSuite) TestGenerateNonceExistingAccount() {
	addr := domain.Address("0x00000000000000000000000000000000000000aa")
	s.repo.On("Get", mock.Anything, addr).Return(&account.Account{Address: addr}, nil)
	s.repo.On("SetLoginNonce", mock.Anything, addr, mock.AnythingOfType("int32")).Return(nil)

	_, err := s.im.GenerateNonce(bCtx.Background(), addr)
	s.Require().NoError(err)
	s.repo.AssertNotCalled(s.T(), "Insert", mock.Anything, mock.Anything)
}

func (s *accountUseCaseSuite) TestValidateSignature() {
	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	addr := domain.Address(strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex()))

	nonce := int32(1234567)
	msg := []byte(fmt.Sprintf(signatureMsg, "1234567"))
	sig, err := crypto.Sign(accounts.TextHash(msg), key)
	s.Require().NoError(err)
	sig[crypto.RecoveryIDOffset] += 27

	s.repo.On("ConsumeLoginNonce", mock.Anything, addr).Return(nonce, nil)

	s.NoError(s.im.ValidateSignature(bCtx.Background(), addr, hexutil.Encode(sig)))
}

func (s *accountUseCaseSuite) TestValidateSignatureWrongSigner() {
	key, err := crypto.GenerateKey()
	s.Require().NoError(err)

	addr := domain.Address("0x00000000000000000000000000000000000000aa")
	nonce := int32(1234567)
	msg := []byte(fmt.Sprintf(signatureMsg, "1234567"))
	sig, err := crypto.Sign(accounts.TextHash(msg), key)
	s.Require().NoError(err)
	sig[crypto.RecoveryIDOffset] += 27

	s.repo.On("ConsumeLoginNonce", mock.Anything, addr).Return(nonce, nil)

	err = s.im.ValidateSignature(bCtx.Background(), addr, hexutil.Encode(sig))
	s.Equal(account.ErrInvalidSignature, err)
}

func (s *accountUseCaseSuite) TestValidateSignatureNoNonce() {
	addr := domain.Address("0x00000000000000000000000000000000000000aa")
	s.repo.On("ConsumeLoginNonce", mock.Anything, addr).Return(int32(0), account.ErrInvalidNonce)

	err := s.im.ValidateSignature(bCtx.Background(), addr, "0xdead")
	s.Equal(account.ErrInvalidNonce, err)
}
