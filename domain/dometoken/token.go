package dometoken

import (
	"time"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
)

// Token is a transferable domain ownership token. Approved holds a single
// operator allowed to transfer on the owner's behalf, the zero sentinel
// when none.
type Token struct {
	TokenId    domain.TokenId    `json:"tokenId" bson:"tokenId"`
	DomainName domain.DomainName `json:"domainName" bson:"domainName"`
	Owner      domain.Address    `json:"owner" bson:"owner"`
	Approved   domain.Address    `json:"approved" bson:"approved"`
	ChainId    domain.ChainId    `json:"chainId" bson:"chainId"`
	CreatedAt  time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt" bson:"updatedAt"`
}

func (t *Token) LowerCase() {
	t.Owner = t.Owner.ToLower()
	t.Approved = t.Approved.ToLower()
	t.DomainName = t.DomainName.ToLower()
}

type Patchable struct {
	Owner     *domain.Address `bson:"owner,omitempty"`
	Approved  *domain.Address `bson:"approved,omitempty"`
	UpdatedAt time.Time       `bson:"updatedAt,omitempty"`
}

type Repo interface {
	Insert(ctx ctx.Ctx, t *Token) error
	FindOne(ctx ctx.Ctx, tokenId domain.TokenId) (*Token, error)
	FindOneByDomainName(ctx ctx.Ctx, domainName domain.DomainName) (*Token, error)
	Patch(ctx ctx.Ctx, tokenId domain.TokenId, p Patchable) error
}

type Usecase interface {
	Mint(ctx ctx.Ctx, t *Token) error
	Get(ctx ctx.Ctx, tokenId domain.TokenId) (*Token, error)
	GetByDomainName(ctx ctx.Ctx, domainName domain.DomainName) (*Token, error)
	OwnerOf(ctx ctx.Ctx, tokenId domain.TokenId) (domain.Address, error)
	IsApprovedOrOwner(ctx ctx.Ctx, tokenId domain.TokenId, address domain.Address) (bool, error)
	Approve(ctx ctx.Ctx, tokenId domain.TokenId, caller, operator domain.Address) error
	// TransferFrom moves ownership. Caller must be the current owner or
	// the approved operator. Approval is cleared on transfer.
	TransferFrom(ctx ctx.Ctx, tokenId domain.TokenId, from, to, caller domain.Address) error
}
