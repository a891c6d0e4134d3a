package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/database/mongoclient"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/dometoken"
	"github.com/doma-auction/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new domain token repo
func New(query query.Mongo) dometoken.Repo {
	return &impl{
		query: query,
	}
}

func (im *impl) Insert(c ctx.Ctx, t *dometoken.Token) error {
	t.LowerCase()
	if err := im.query.Insert(c, domain.TableDomainTokens, t); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": t.TokenId,
			"err":     err,
		}).Error("insert domain token failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*dometoken.Token, error) {
	t := &dometoken.Token{}
	err := im.query.FindOne(c, domain.TableDomainTokens, bson.M{"tokenId": tokenId}, t)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("find domain token failed")
		return nil, err
	}
	return t, nil
}

func (im *impl) FindOneByDomainName(c ctx.Ctx, domainName domain.DomainName) (*dometoken.Token, error) {
	t := &dometoken.Token{}
	err := im.query.FindOne(c, domain.TableDomainTokens, bson.M{"domainName": domainName.ToLower()}, t)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"domainName": domainName,
			"err":        err,
		}).Error("find domain token failed")
		return nil, err
	}
	return t, nil
}

func (im *impl) Patch(c ctx.Ctx, tokenId domain.TokenId, p dometoken.Patchable) error {
	updater, err := mongoclient.MakeBsonM(p)
	if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("make bsonM failed")
		return err
	}
	if err := im.query.Patch(c, domain.TableDomainTokens, bson.M{"tokenId": tokenId}, updater); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("patch domain token failed")
		return err
	}
	return nil
}
