package query

import (
	"context"
	"errors"
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/feastly/draw-engine/pkg"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

func policyCacheKey(campaignID string) string {
	return fmt.Sprintf("policy_bundle:%s", campaignID)
}

// GetPolicyBundle resolves the policy bundle a draw executes against:
// redis first, postgres on a miss. Whatever the source, the bundle is fully
// validated before it is handed to a draw; an invalid bundle surfaces as
// ConfigurationInvalid and is never cached.
func (uc *UseCase) GetPolicyBundle(ctx context.Context, campaignID string) (*mmodel.PolicyBundle, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_policy_bundle")
	defer span.End()

	if bundle := uc.policyBundleFromCache(ctx, campaignID); bundle != nil {
		return bundle, nil
	}

	bundle, err := uc.CampaignRepo.FindPolicyBundle(ctx, campaignID)
	if err != nil {
		if errors.Is(err, constant.ErrCampaignNotFound) {
			return nil, pkg.ValidateBusinessError(constant.ErrCampaignNotFound, "Campaign", campaignID)
		}

		return nil, err
	}

	bundle.Prizes, err = uc.PrizeRepo.FindAvailableByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if err := validatePolicyBundle(bundle); err != nil {
		logger.Errorf("policy bundle for campaign %s failed validation: %v", campaignID, err)

		return nil, pkg.ValidateBusinessError(constant.ErrConfigurationInvalid, "Campaign", err.Error())
	}

	uc.cachePolicyBundle(ctx, campaignID, bundle)

	return bundle, nil
}

func (uc *UseCase) policyBundleFromCache(ctx context.Context, campaignID string) *mmodel.PolicyBundle {
	logger := libCommons.NewLoggerFromContext(ctx)

	raw, err := uc.RedisRepo.Get(ctx, policyCacheKey(campaignID))
	if err != nil {
		logger.Warnf("policy cache read failed for campaign %s: %v", campaignID, err)

		return nil
	}

	if raw == nil {
		return nil
	}

	var bundle mmodel.PolicyBundle

	if err := msgpack.Unmarshal(raw, &bundle); err != nil {
		logger.Warnf("policy cache entry for campaign %s is corrupt: %v", campaignID, err)

		return nil
	}

	if err := restoreLuckDecimals(&bundle.Luck); err != nil {
		logger.Warnf("policy cache entry for campaign %s has bad luck config: %v", campaignID, err)

		return nil
	}

	return &bundle
}

func (uc *UseCase) cachePolicyBundle(ctx context.Context, campaignID string, bundle *mmodel.PolicyBundle) {
	logger := libCommons.NewLoggerFromContext(ctx)

	cached := *bundle
	cached.Luck.ExpectedEmptyRateStr = bundle.Luck.ExpectedEmptyRate.String()
	cached.Luck.BoostFactorStr = bundle.Luck.BoostFactor.String()

	raw, err := msgpack.Marshal(&cached)
	if err != nil {
		logger.Warnf("policy bundle for campaign %s not cacheable: %v", campaignID, err)

		return
	}

	if err := uc.RedisRepo.Set(ctx, policyCacheKey(campaignID), raw, uc.policyCacheTTL()); err != nil {
		logger.Warnf("policy cache write failed for campaign %s: %v", campaignID, err)
	}
}

func restoreLuckDecimals(luck *lottery.LuckConfig) error {
	if luck.ExpectedEmptyRateStr != "" {
		rate, err := decimal.NewFromString(luck.ExpectedEmptyRateStr)
		if err != nil {
			return err
		}

		luck.ExpectedEmptyRate = rate
	}

	if luck.BoostFactorStr != "" {
		factor, err := decimal.NewFromString(luck.BoostFactorStr)
		if err != nil {
			return err
		}

		luck.BoostFactor = factor
	}

	return nil
}

// validatePolicyBundle enforces the structural invariants a draw depends on.
// A campaign whose fallback tier has no awardable prize can strand a draw with
// no legal outcome, so that is rejected here rather than mid-draw.
func validatePolicyBundle(bundle *mmodel.PolicyBundle) error {
	if err := bundle.Pricing.Validate(); err != nil {
		return err
	}

	if err := bundle.Pity.Validate(); err != nil {
		return err
	}

	if err := bundle.Luck.Validate(); err != nil {
		return err
	}

	if err := bundle.Guard.Validate(); err != nil {
		return err
	}

	if bundle.Campaign.CostPerDraw < 0 {
		return fmt.Errorf("cost per draw must be non-negative, got %d", bundle.Campaign.CostPerDraw)
	}

	for _, t := range lottery.Tiers {
		if bundle.Rule(t).BaseWeight < 0 {
			return fmt.Errorf("tier %s has negative base weight", t)
		}
	}

	for _, p := range bundle.Prizes {
		if p.Tier == lottery.TierFallback && p.Awardable(0) {
			return nil
		}
	}

	return fmt.Errorf("campaign %s has no awardable fallback prize", bundle.Campaign.ID)
}
