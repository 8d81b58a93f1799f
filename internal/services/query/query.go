// Package query implements the read side: policy bundle resolution (with the
// redis cache in front of postgres), draw record lookups and balance reads.
package query

import (
	"time"

	"github.com/feastly/draw-engine/internal/adapters/mongodb/snapshot"
	"github.com/feastly/draw-engine/internal/adapters/postgres/campaign"
	"github.com/feastly/draw-engine/internal/adapters/postgres/drawrecord"
	"github.com/feastly/draw-engine/internal/adapters/postgres/ledger"
	"github.com/feastly/draw-engine/internal/adapters/postgres/prize"
	"github.com/feastly/draw-engine/internal/adapters/redis"
)

// DefaultPolicyCacheTTL bounds how stale a cached policy bundle may be. Short
// on purpose: policy edits must reach draws quickly without a cache bust
// protocol.
const DefaultPolicyCacheTTL = 30 * time.Second

// UseCase aggregates the read-side ports.
type UseCase struct {
	CampaignRepo campaign.Repository
	PrizeRepo    prize.Repository
	DrawRepo     drawrecord.Repository
	LedgerRepo   ledger.Repository
	SnapshotRepo snapshot.Repository
	RedisRepo    redis.RedisRepository

	// PolicyCacheTTL overrides DefaultPolicyCacheTTL when positive.
	PolicyCacheTTL time.Duration
}

func (uc *UseCase) policyCacheTTL() time.Duration {
	if uc.PolicyCacheTTL > 0 {
		return uc.PolicyCacheTTL
	}

	return DefaultPolicyCacheTTL
}
