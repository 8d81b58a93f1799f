package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestInvalidatePolicyBundleCacheDeletesKey(t *testing.T) {
	bed := newQueryTestBed(t)

	bed.cache.EXPECT().
		Del(gomock.Any(), policyCacheKey(testCampaignID)).
		Return(nil)

	require.NoError(t, bed.uc.InvalidatePolicyBundleCache(context.Background(), testCampaignID))
}

func TestInvalidatePolicyBundleCachePropagatesError(t *testing.T) {
	bed := newQueryTestBed(t)

	cacheErr := errors.New("redis unavailable")

	bed.cache.EXPECT().
		Del(gomock.Any(), policyCacheKey(testCampaignID)).
		Return(cacheErr)

	err := bed.uc.InvalidatePolicyBundleCache(context.Background(), testCampaignID)
	assert.ErrorIs(t, err, cacheErr)
}
