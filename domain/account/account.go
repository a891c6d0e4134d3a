package account

import (
	"errors"
	"time"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
)

var (
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Account is a user's account stored in database. The login nonce lives in
// redis, not here.
type Account struct {
	Address   domain.Address `json:"address" bson:"address"`
	Alias     string         `json:"alias" bson:"alias"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt,omitempty"`
}

type Repo interface {
	Get(ctx ctx.Ctx, address domain.Address) (*Account, error)
	Insert(ctx ctx.Ctx, a *Account) error

	// SetLoginNonce stores a short-lived login nonce for the address.
	SetLoginNonce(ctx ctx.Ctx, address domain.Address, nonce int32) error
	// ConsumeLoginNonce returns the stored nonce and clears it, so each
	// nonce authenticates at most one signature.
	ConsumeLoginNonce(ctx ctx.Ctx, address domain.Address) (int32, error)
}

type Usecase interface {
	Get(ctx ctx.Ctx, address domain.Address) (*Account, error)
	Create(ctx ctx.Ctx, address domain.Address) (*Account, error)
	GenerateNonce(ctx ctx.Ctx, address domain.Address) (int32, error)
	ValidateSignature(ctx ctx.Ctx, address domain.Address, signature string) error
}
