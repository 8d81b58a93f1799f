// Package command implements the write side: the draw orchestrator and the
// commit transaction that makes a decision durable.
package command

import (
	"context"
	"time"

	"github.com/feastly/draw-engine/internal/adapters/mongodb/snapshot"
	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/internal/adapters/postgres/drawrecord"
	"github.com/feastly/draw-engine/internal/adapters/postgres/ledger"
	"github.com/feastly/draw-engine/internal/adapters/postgres/prize"
	"github.com/feastly/draw-engine/internal/adapters/postgres/state"
	"github.com/feastly/draw-engine/internal/adapters/rabbitmq"
	"github.com/feastly/draw-engine/internal/adapters/redis"
	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// DefaultDrawLockTTL caps how long a crashed draw can hold its
// per-(user, campaign) mutex.
const DefaultDrawLockTTL = 10 * time.Second

// PolicyProvider resolves the policy bundle a draw executes against. The
// query use case is the production implementation.
type PolicyProvider interface {
	GetPolicyBundle(ctx context.Context, campaignID string) (*mmodel.PolicyBundle, error)
}

// UseCase aggregates the write-side ports. NewRNG and Clock are injectable so
// tests can pin the sampling source and the wall clock.
type UseCase struct {
	Policy       PolicyProvider
	LedgerRepo   ledger.Repository
	PrizeRepo    prize.Repository
	DrawRepo     drawrecord.Repository
	StateRepo    state.Repository
	SnapshotRepo snapshot.Repository
	Producer     rabbitmq.ProducerRepository
	RedisRepo    redis.RedisRepository
	Tx           postgres.TransactionManager

	NewRNG func() (lottery.RNG, int64)
	Clock  func() time.Time

	// DrawLockTTL overrides DefaultDrawLockTTL when positive.
	DrawLockTTL time.Duration
}

func (uc *UseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock()
	}

	return time.Now()
}

func (uc *UseCase) newRNG() (lottery.RNG, int64) {
	if uc.NewRNG != nil {
		return uc.NewRNG()
	}

	return lottery.NewDrawRNG()
}

func (uc *UseCase) drawLockTTL() time.Duration {
	if uc.DrawLockTTL > 0 {
		return uc.DrawLockTTL
	}

	return DefaultDrawLockTTL
}
