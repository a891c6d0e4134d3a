package repository

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/account"
	"github.com/doma-auction/goapi/domain/keys"
	"github.com/doma-auction/goapi/service/query"
	"github.com/doma-auction/goapi/service/redis"
)

const (
	// loginNonceTTL bounds how long an issued login nonce stays valid
	loginNonceTTL = 10 * time.Minute
)

type impl struct {
	query query.Mongo
	redis redis.Service
}

// New creates new account repo
func New(query query.Mongo, redis redis.Service) account.Repo {
	return &impl{
		query: query,
		redis: redis,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a := &account.Account{}
	id := strings.ToLower(string(address))
	err := im.query.FindOne(c, domain.TableAccounts, bson.M{"address": id}, a)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("find account failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) Insert(c ctx.Ctx, a *account.Account) error {
	a.Address = a.Address.ToLower()
	if err := im.query.Insert(c, domain.TableAccounts, a); err != nil {
		c.WithFields(log.Fields{
			"address": a.Address,
			"err":     err,
		}).Error("insert account failed")
		return err
	}
	return nil
}

func (im *impl) SetLoginNonce(c ctx.Ctx, address domain.Address, nonce int32) error {
	key := keys.RedisKey(keys.PfxNonce, address.ToLowerStr())
	if err := im.redis.Set(c, key, []byte(strconv.Itoa(int(nonce))), loginNonceTTL); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("set login nonce failed")
		return err
	}
	return nil
}

func (im *impl) ConsumeLoginNonce(c ctx.Ctx, address domain.Address) (int32, error) {
	key := keys.RedisKey(keys.PfxNonce, address.ToLowerStr())
	val, err := im.redis.Get(c, key)
	if err == redis.ErrNotFound {
		return 0, account.ErrInvalidNonce
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("get login nonce failed")
		return 0, err
	}

	// a nonce authenticates at most one signature
	if _, err := im.redis.Del(c, key); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("del login nonce failed")
		return 0, err
	}

	nonce, err := strconv.ParseInt(string(val), 10, 32)
	if err != nil {
		return 0, account.ErrInvalidNonce
	}
	return int32(nonce), nil
}
