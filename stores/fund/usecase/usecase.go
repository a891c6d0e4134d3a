package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/fund"
)

type CustodyCfg struct {
	Repo fund.Repo
}

type impl struct {
	repo fund.Repo
}

// New creates fund custody usecase
func New(cfg *CustodyCfg) fund.Custody {
	return &impl{
		repo: cfg.Repo,
	}
}

func (im *impl) Deposit(c ctx.Ctx, address domain.Address, amount string) (*fund.Account, error) {
	if _, err := domain.ParseWei(amount); err != nil {
		return nil, err
	}
	if err := im.repo.CreditDeposited(c, address, amount); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"amount":  amount,
			"err":     err,
		}).Error("repo.CreditDeposited failed")
		return nil, err
	}
	return im.repo.Get(c, address)
}

func (im *impl) EscrowFee(c ctx.Ctx, bidder domain.Address, fee string, auctionId domain.AuctionId) error {
	if err := im.repo.DebitDeposited(c, bidder, fee); err != nil {
		if err != domain.ErrInsufficientFunds {
			c.WithFields(log.Fields{
				"bidder":    bidder,
				"fee":       fee,
				"auctionId": auctionId,
				"err":       err,
			}).Error("repo.DebitDeposited failed")
		}
		return err
	}
	return nil
}

func (im *impl) CreditOutbid(c ctx.Ctx, bidder domain.Address, amount string, auctionId domain.AuctionId) error {
	if err := im.repo.CreditWithdrawable(c, bidder, amount); err != nil {
		c.WithFields(log.Fields{
			"bidder":    bidder,
			"amount":    amount,
			"auctionId": auctionId,
			"err":       err,
		}).Error("repo.CreditWithdrawable failed")
		return err
	}
	return nil
}

func (im *impl) PayProceeds(c ctx.Ctx, seller domain.Address, amount string, auctionId domain.AuctionId) error {
	if err := im.repo.CreditWithdrawable(c, seller, amount); err != nil {
		c.WithFields(log.Fields{
			"seller":    seller,
			"amount":    amount,
			"auctionId": auctionId,
			"err":       err,
		}).Error("repo.CreditWithdrawable failed")
		return err
	}
	return nil
}

func (im *impl) Withdraw(c ctx.Ctx, address domain.Address) (string, error) {
	a, err := im.repo.Get(c, address)
	if err != nil {
		return "", err
	}

	amount, err := decimal.NewFromString(a.Withdrawable.String())
	if err != nil {
		c.WithFields(log.Fields{
			"address":      address,
			"withdrawable": a.Withdrawable,
			"err":          err,
		}).Error("decimal.NewFromString failed")
		return "", err
	}
	if amount.IsZero() {
		return "", domain.ErrNothingToWithdraw
	}

	// the balance is zeroed before funds move, a concurrent withdraw
	// loses the compare-and-set and gets nothing
	if err := im.repo.ZeroWithdrawable(c, address, a.Withdrawable.String()); err != nil {
		return "", err
	}
	if err := im.repo.CreditDeposited(c, address, amount.String()); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"amount":  amount,
			"err":     err,
		}).Error("repo.CreditDeposited failed")
		return "", err
	}
	return amount.String(), nil
}

func (im *impl) Balance(c ctx.Ctx, address domain.Address) (*fund.Account, error) {
	return im.repo.Get(c, address)
}

func (im *impl) PendingWithdrawals(c ctx.Ctx, address domain.Address) (string, error) {
	a, err := im.repo.Get(c, address)
	if err != nil {
		return "", err
	}
	amount, err := decimal.NewFromString(a.Withdrawable.String())
	if err != nil {
		return "", err
	}
	return amount.String(), nil
}
