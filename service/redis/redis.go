package redis

import (
	"errors"
	"time"

	"github.com/doma-auction/goapi/base/ctx"
)

const (
	// Forever means the key has no expiration
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")

	// ErrGapTime is returned when no pool can serve the command
	ErrGapTime = errors.New("in gap time, command is not allowed")
)

// Service abstracts the redis cache layer
type Service interface {
	// Get returns ErrNotFound when the key does not exist
	Get(context ctx.Ctx, key string) ([]byte, error)

	// Set sets key with value, use Forever to skip expiration
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// Del removes keys and returns how many existed
	Del(context ctx.Ctx, ks ...string) (int, error)

	// SetStruct stores a struct as a redis hash, one field per exported field
	SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error

	// GetStruct loads a hash written by SetStruct, returns ErrNotFound when missing
	GetStruct(context ctx.Ctx, key string, val interface{}) error
}
