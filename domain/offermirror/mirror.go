package offermirror

import (
	"time"

	"github.com/doma-auction/goapi/base/ctx"
)

// State is the mirror worker's resumable cursor over the auction event
// log.
type State struct {
	Tag         string    `bson:"tag"`
	LastEventId uint64    `bson:"lastEventId"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type StateRepo interface {
	Get(ctx ctx.Ctx, tag string) (*State, error)
	Save(ctx ctx.Ctx, s *State) error
}

// UseCase drains newly appended BidPlaced events and mirrors each as a
// signed offer on the off-chain orderbook. Mirroring is best-effort: a
// failed submission is logged and skipped, never retried across runs.
type UseCase interface {
	// ProcessOnce drains events appended since the stored cursor and
	// returns how many were handled.
	ProcessOnce(ctx ctx.Ctx) (int, error)
}
