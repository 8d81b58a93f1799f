package campaign

import (
	"context"
	"database/sql"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	sq "github.com/Masterminds/squirrel"

	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// Repository is the PolicyStore port backed by postgres. The prize catalogue
// is loaded separately by the prize repository; FindPolicyBundle returns the
// bundle with everything else populated.
type Repository interface {
	FindPolicyBundle(ctx context.Context, campaignID string) (*mmodel.PolicyBundle, error)
}

// CampaignPostgreSQLRepository is the postgres implementation of Repository.
type CampaignPostgreSQLRepository struct {
	connection *postgres.Connection
}

func NewCampaignPostgreSQLRepository(pc *postgres.Connection) *CampaignPostgreSQLRepository {
	r := &CampaignPostgreSQLRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect to campaign database")
	}

	return r
}

const campaignColumns = "id, name, status, cost_asset_code, reward_asset_code, cost_per_draw, daily_quota, timezone, weight_scale, policy_version, pricing_config, pity_config, luck_config, guard_config, start_at, end_at, created_at, updated_at"

// FindPolicyBundle loads the campaign row with its embedded calculator
// configs plus the tier rules. Returns ErrCampaignNotFound when the campaign
// does not exist.
func (r *CampaignPostgreSQLRepository) FindPolicyBundle(ctx context.Context, campaignID string) (*mmodel.PolicyBundle, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.campaign.find_policy_bundle")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select(campaignColumns).
		From("campaigns").
		Where(sq.Eq{"id": campaignID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var model CampaignPostgreSQLModel

	row := db.QueryRowContext(ctx, query, args...)

	err = row.Scan(
		&model.ID,
		&model.Name,
		&model.Status,
		&model.CostAssetCode,
		&model.RewardAssetCode,
		&model.CostPerDraw,
		&model.DailyQuota,
		&model.Timezone,
		&model.WeightScale,
		&model.PolicyVersion,
		&model.PricingConfig,
		&model.PityConfig,
		&model.LuckConfig,
		&model.GuardConfig,
		&model.StartAt,
		&model.EndAt,
		&model.CreatedAt,
		&model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.ErrCampaignNotFound
		}

		return nil, err
	}

	bundle := &mmodel.PolicyBundle{
		Version:  model.PolicyVersion,
		Campaign: model.ToEntity(),
	}

	if err := model.decodeConfigs(bundle); err != nil {
		return nil, err
	}

	bundle.Rules, err = r.findTierRules(ctx, db, campaignID)
	if err != nil {
		return nil, err
	}

	return bundle, nil
}

func (r *CampaignPostgreSQLRepository) findTierRules(ctx context.Context, db *sql.DB, campaignID string) ([]mmodel.TierRule, error) {
	query, args, err := sq.Select("campaign_id", "tier", "base_weight", "daily_cap_per_user", "hard_stock_floor").
		From("campaign_tier_rules").
		Where(sq.Eq{"campaign_id": campaignID}).
		OrderBy("tier").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]mmodel.TierRule, 0, len(lottery.Tiers))

	for rows.Next() {
		var model TierRulePostgreSQLModel

		err := rows.Scan(
			&model.CampaignID,
			&model.Tier,
			&model.BaseWeight,
			&model.DailyCapPerUser,
			&model.HardStockFloor,
		)
		if err != nil {
			return nil, err
		}

		rules = append(rules, model.ToEntity())
	}

	return rules, rows.Err()
}
