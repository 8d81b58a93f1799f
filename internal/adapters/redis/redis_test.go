package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockAcquireTimeoutDefaultsWhenUnset(t *testing.T) {
	r := NewConsumerRedis(&RedisConnection{})

	assert.Equal(t, DefaultLockAcquireTimeout, r.lockAcquireTimeout())
}

func TestLockAcquireTimeoutHonoursOverride(t *testing.T) {
	r := NewConsumerRedis(&RedisConnection{})
	r.LockAcquireTimeout = 500 * time.Millisecond

	assert.Equal(t, 500*time.Millisecond, r.lockAcquireTimeout())
}
