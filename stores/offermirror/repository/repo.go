package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/offermirror"
	"github.com/doma-auction/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates new mirror state repo
func New(query query.Mongo) offermirror.StateRepo {
	return &impl{
		query: query,
	}
}

func (im *impl) Get(c ctx.Ctx, tag string) (*offermirror.State, error) {
	s := &offermirror.State{}
	err := im.query.FindOne(c, domain.TableMirrorStates, bson.M{"tag": tag}, s)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"tag": tag,
			"err": err,
		}).Error("find mirror state failed")
		return nil, err
	}
	return s, nil
}

func (im *impl) Save(c ctx.Ctx, s *offermirror.State) error {
	s.UpdatedAt = time.Now()
	if err := im.query.Upsert(c, domain.TableMirrorStates, bson.M{"tag": s.Tag}, s); err != nil {
		c.WithFields(log.Fields{
			"tag": s.Tag,
			"err": err,
		}).Error("upsert mirror state failed")
		return err
	}
	return nil
}
