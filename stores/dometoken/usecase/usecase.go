package usecase

import (
	"time"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/dometoken"
)

type TokenUseCaseCfg struct {
	Repo dometoken.Repo
}

type impl struct {
	repo dometoken.Repo
}

// New creates domain token usecase
func New(cfg *TokenUseCaseCfg) dometoken.Usecase {
	return &impl{
		repo: cfg.Repo,
	}
}

func (im *impl) Mint(c ctx.Ctx, t *dometoken.Token) error {
	now := time.Now()
	t.Approved = domain.EmptyAddress
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := im.repo.Insert(c, t); err != nil {
		c.WithFields(log.Fields{
			"tokenId": t.TokenId,
			"err":     err,
		}).Error("repo.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Get(c ctx.Ctx, tokenId domain.TokenId) (*dometoken.Token, error) {
	return im.repo.FindOne(c, tokenId)
}

func (im *impl) GetByDomainName(c ctx.Ctx, domainName domain.DomainName) (*dometoken.Token, error) {
	return im.repo.FindOneByDomainName(c, domainName)
}

func (im *impl) OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	t, err := im.repo.FindOne(c, tokenId)
	if err != nil {
		return "", err
	}
	return t.Owner, nil
}

func (im *impl) IsApprovedOrOwner(c ctx.Ctx, tokenId domain.TokenId, address domain.Address) (bool, error) {
	t, err := im.repo.FindOne(c, tokenId)
	if err != nil {
		return false, err
	}
	return t.Owner.Equals(address) || (!t.Approved.IsZero() && t.Approved.Equals(address)), nil
}

func (im *impl) Approve(c ctx.Ctx, tokenId domain.TokenId, caller, operator domain.Address) error {
	t, err := im.repo.FindOne(c, tokenId)
	if err != nil {
		return err
	}
	if !t.Owner.Equals(caller) {
		return domain.ErrNotTokenOwner
	}
	return im.repo.Patch(c, tokenId, dometoken.Patchable{
		Approved:  addrPtr(operator.ToLower()),
		UpdatedAt: time.Now(),
	})
}

func (im *impl) TransferFrom(c ctx.Ctx, tokenId domain.TokenId, from, to, caller domain.Address) error {
	t, err := im.repo.FindOne(c, tokenId)
	if err != nil {
		return err
	}
	if !t.Owner.Equals(from) {
		return domain.ErrNotTokenOwner
	}
	if ok, err := im.IsApprovedOrOwner(c, tokenId, caller); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotTokenOwner
	}

	// approval does not survive a transfer
	if err := im.repo.Patch(c, tokenId, dometoken.Patchable{
		Owner:     addrPtr(to.ToLower()),
		Approved:  addrPtr(domain.EmptyAddress),
		UpdatedAt: time.Now(),
	}); err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"from":    from,
			"to":      to,
			"err":     err,
		}).Error("repo.Patch failed")
		return err
	}
	return nil
}

func addrPtr(a domain.Address) *domain.Address {
	return &a
}
