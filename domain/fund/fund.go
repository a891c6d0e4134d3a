package fund

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/domain"
)

// Account is the per-address fund ledger entry. Deposited is spendable
// balance funding commitment fees; Withdrawable is the pull-payment ledger
// credited when a bidder is outbid or a seller is paid proceeds.
//
// Balances are denominated in logical wei and stored as decimal128 so
// mongo can mutate them with $inc.
type Account struct {
	Address      domain.Address       `json:"address" bson:"address"`
	Deposited    primitive.Decimal128 `json:"deposited" bson:"deposited"`
	Withdrawable primitive.Decimal128 `json:"withdrawable" bson:"withdrawable"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type Repo interface {
	Get(ctx ctx.Ctx, address domain.Address) (*Account, error)
	CreditDeposited(ctx ctx.Ctx, address domain.Address, amount string) error
	// DebitDeposited fails with domain.ErrInsufficientFunds when the
	// balance does not cover amount. The debit is guarded so concurrent
	// debits can not overdraw.
	DebitDeposited(ctx ctx.Ctx, address domain.Address, amount string) error
	CreditWithdrawable(ctx ctx.Ctx, address domain.Address, amount string) error
	// ZeroWithdrawable zeroes the withdrawable balance only when it still
	// equals expected, failing with domain.ErrConflict otherwise. The
	// balance must be zeroed before any funds move out.
	ZeroWithdrawable(ctx ctx.Ctx, address domain.Address, expected string) error
}

// Custody escrows the fixed commitment fee per bid, tracks refundable
// balances for outbid participants, and performs the final payout to the
// seller on settlement.
type Custody interface {
	Deposit(ctx ctx.Ctx, address domain.Address, amount string) (*Account, error)
	EscrowFee(ctx ctx.Ctx, bidder domain.Address, fee string, auctionId domain.AuctionId) error
	CreditOutbid(ctx ctx.Ctx, bidder domain.Address, amount string, auctionId domain.AuctionId) error
	PayProceeds(ctx ctx.Ctx, seller domain.Address, amount string, auctionId domain.AuctionId) error
	// Withdraw zeroes the caller's withdrawable balance and releases the
	// full amount back to their spendable balance. Fails with
	// domain.ErrNothingToWithdraw when there is nothing to claim.
	Withdraw(ctx ctx.Ctx, address domain.Address) (string, error)
	Balance(ctx ctx.Ctx, address domain.Address) (*Account, error)
	PendingWithdrawals(ctx ctx.Ctx, address domain.Address) (string, error)
}
