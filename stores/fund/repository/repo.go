package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/fund"
	"github.com/doma-auction/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new fund repo
func New(query query.Mongo) fund.Repo {
	return &impl{
		query: query,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*fund.Account, error) {
	a := &fund.Account{}
	err := im.query.FindOne(c, domain.TableFundAccounts, bson.M{"address": address.ToLower()}, a)
	if err == query.ErrNotFound {
		return emptyAccount(address), nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("find fund account failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) CreditDeposited(c ctx.Ctx, address domain.Address, amount string) error {
	return im.credit(c, address, "deposited", amount)
}

func (im *impl) DebitDeposited(c ctx.Ctx, address domain.Address, amount string) error {
	amt, err := domain.WeiToDecimal128(amount)
	if err != nil {
		return err
	}
	neg, err := primitive.ParseDecimal128("-" + amount)
	if err != nil {
		return err
	}

	// guarded so concurrent debits can not overdraw
	selector := bson.M{
		"address":   address.ToLower(),
		"deposited": bson.M{"$gte": amt},
	}
	update := bson.M{
		"$inc": bson.M{"deposited": neg},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	if err := im.query.CustomPatch(c, domain.TableFundAccounts, selector, update, false); err == query.ErrNotFound {
		return domain.ErrInsufficientFunds
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"amount":  amount,
			"err":     err,
		}).Error("debit deposited failed")
		return err
	}
	return nil
}

func (im *impl) CreditWithdrawable(c ctx.Ctx, address domain.Address, amount string) error {
	return im.credit(c, address, "withdrawable", amount)
}

func (im *impl) ZeroWithdrawable(c ctx.Ctx, address domain.Address, expected string) error {
	exp, err := primitive.ParseDecimal128(expected)
	if err != nil {
		return err
	}
	zero, err := primitive.ParseDecimal128("0")
	if err != nil {
		return err
	}

	selector := bson.M{
		"address":      address.ToLower(),
		"withdrawable": exp,
	}
	update := bson.M{
		"$set": bson.M{
			"withdrawable": zero,
			"updatedAt":    time.Now(),
		},
	}
	if err := im.query.CustomPatch(c, domain.TableFundAccounts, selector, update, false); err == query.ErrNotFound {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("zero withdrawable failed")
		return err
	}
	return nil
}

func (im *impl) credit(c ctx.Ctx, address domain.Address, field string, amount string) error {
	amt, err := domain.WeiToDecimal128(amount)
	if err != nil {
		return err
	}
	res := &fund.Account{}
	set := bson.M{"updatedAt": time.Now()}
	if err := im.query.IncrementMany(c, domain.TableFundAccounts,
		bson.M{"address": address.ToLower()}, bson.M{field: amt}, set, res); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"field":   field,
			"amount":  amount,
			"err":     err,
		}).Error("credit fund account failed")
		return err
	}
	return nil
}

func emptyAccount(address domain.Address) *fund.Account {
	zero, _ := primitive.ParseDecimal128("0")
	return &fund.Account{
		Address:      address.ToLower(),
		Deposited:    zero,
		Withdrawable: zero,
	}
}
