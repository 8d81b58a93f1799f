// Package redis provides the policy cache and the per-(user, campaign) draw
// mutex.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"

	"github.com/feastly/draw-engine/pkg/constant"
)

// RedisRepository is the cache and lock port.
type RedisRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	AcquireDrawLock(ctx context.Context, userID, campaignID string, ttl time.Duration) (func(), error)
}

// RedisConnection wraps the go-redis client plus the redsync factory built on
// top of it.
type RedisConnection struct {
	Addr     string
	Password string
	DB       int
	Logger   libLog.Logger

	client  *goredis.Client
	redsync *redsync.Redsync
}

func (rc *RedisConnection) Connect(ctx context.Context) error {
	rc.Logger.Info("Connecting to redis...")

	client := goredis.NewClient(&goredis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		rc.Logger.Error("failed to ping redis", err)

		return err
	}

	rc.client = client
	rc.redsync = redsync.New(redsyncgoredis.NewPool(client))

	rc.Logger.Info("Connected to redis ✅ ")

	return nil
}

func (rc *RedisConnection) GetClient(ctx context.Context) (*goredis.Client, error) {
	if rc.client == nil {
		if err := rc.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return rc.client, nil
}

// DefaultLockAcquireTimeout bounds how long a draw waits for the mutex before
// giving up with ErrLockTimeout.
const DefaultLockAcquireTimeout = 2 * time.Second

// RedisConsumerRepository is the go-redis implementation of RedisRepository.
type RedisConsumerRepository struct {
	conn *RedisConnection

	// LockAcquireTimeout overrides DefaultLockAcquireTimeout when positive.
	LockAcquireTimeout time.Duration
}

func NewConsumerRedis(rc *RedisConnection) *RedisConsumerRepository {
	return &RedisConsumerRepository{conn: rc}
}

func (r *RedisConsumerRepository) lockAcquireTimeout() time.Duration {
	if r.LockAcquireTimeout > 0 {
		return r.LockAcquireTimeout
	}

	return DefaultLockAcquireTimeout
}

func (r *RedisConsumerRepository) Get(ctx context.Context, key string) ([]byte, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.get")
	defer span.End()

	client, err := r.conn.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	val, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	return val, nil
}

func (r *RedisConsumerRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.set")
	defer span.End()

	client, err := r.conn.GetClient(ctx)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisConsumerRepository) Del(ctx context.Context, key string) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.del")
	defer span.End()

	client, err := r.conn.GetClient(ctx)
	if err != nil {
		return err
	}

	return client.Del(ctx, key).Err()
}

// AcquireDrawLock serialises draws per (user, campaign). The returned release
// function is safe to call exactly once; failure to acquire within the
// context deadline maps to ErrLockTimeout.
func (r *RedisConsumerRepository) AcquireDrawLock(ctx context.Context, userID, campaignID string, ttl time.Duration) (func(), error) {
	tracer := libCommons.NewTracerFromContext(ctx)
	logger := libCommons.NewLoggerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.acquire_draw_lock")
	defer span.End()

	if _, err := r.conn.GetClient(ctx); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("draw_lock:%s:%s", campaignID, userID)

	mutex := r.conn.redsync.NewMutex(name, redsync.WithExpiry(ttl))

	// Request contexts usually carry no deadline; without this bound redsync
	// retries on its own schedule for far longer than a caller should wait.
	lockCtx, cancel := context.WithTimeout(ctx, r.lockAcquireTimeout())
	defer cancel()

	if err := mutex.LockContext(lockCtx); err != nil {
		logger.Warnf("draw lock not acquired for %s: %v", name, err)

		return nil, constant.ErrLockTimeout
	}

	release := func() {
		if _, err := mutex.Unlock(); err != nil {
			logger.Warnf("draw lock release failed for %s: %v", name, err)
		}
	}

	return release, nil
}
