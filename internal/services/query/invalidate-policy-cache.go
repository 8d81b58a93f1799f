package query

import (
	"context"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
)

// InvalidatePolicyBundleCache drops the cached bundle for a campaign so the
// next draw reloads it from postgres. Policy writers call this after bumping
// the policy version.
func (uc *UseCase) InvalidatePolicyBundleCache(ctx context.Context, campaignID string) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.invalidate_policy_bundle_cache")
	defer span.End()

	if err := uc.RedisRepo.Del(ctx, policyCacheKey(campaignID)); err != nil {
		logger.Errorf("failed to invalidate policy bundle cache for campaign %s: %v", campaignID, err)

		return err
	}

	logger.Infof("policy bundle cache invalidated for campaign %s", campaignID)

	return nil
}
