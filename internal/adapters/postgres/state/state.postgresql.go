package state

import (
	"context"
	"database/sql"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"

	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// Repository is the StateStore port. The ForUpdate variants run inside the
// draw commit transaction and upsert a zero row first, so the very first draw
// of a (user, campaign) pair still takes a row lock.
type Repository interface {
	FindUserState(ctx context.Context, userID, campaignID string, ringCapacity int) (*mmodel.UserCampaignState, error)
	FindUserStateForUpdate(ctx context.Context, tx *sql.Tx, userID, campaignID string, ringCapacity int) (*mmodel.UserCampaignState, error)
	SaveUserState(ctx context.Context, tx *sql.Tx, state *mmodel.UserCampaignState) error
	FindGlobalState(ctx context.Context, campaignID string) (*mmodel.CampaignGlobalState, error)
	FindGlobalStateForUpdate(ctx context.Context, tx *sql.Tx, campaignID string) (*mmodel.CampaignGlobalState, error)
	SaveGlobalState(ctx context.Context, tx *sql.Tx, state *mmodel.CampaignGlobalState) error
}

// StatePostgreSQLRepository is the postgres implementation of Repository.
type StatePostgreSQLRepository struct {
	connection *postgres.Connection
}

func NewStatePostgreSQLRepository(pc *postgres.Connection) *StatePostgreSQLRepository {
	r := &StatePostgreSQLRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect to state database")
	}

	return r
}

const userStateColumns = "user_id, campaign_id, empty_streak, high_streak, total_draws_today, high_awards_today, mid_awards_today, low_awards_today, last_reset_date, last_tiers, updated_at"

// FindUserState is the lock-free read used by the quota precheck. A missing
// row materialises as the zero state without persisting anything.
func (r *StatePostgreSQLRepository) FindUserState(ctx context.Context, userID, campaignID string, ringCapacity int) (*mmodel.UserCampaignState, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.state.find_user_state")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT `+userStateColumns+`
		FROM user_campaign_states
		WHERE user_id = $1 AND campaign_id = $2`, userID, campaignID)

	return scanUserState(row, userID, campaignID, ringCapacity)
}

func (r *StatePostgreSQLRepository) FindUserStateForUpdate(ctx context.Context, tx *sql.Tx, userID, campaignID string, ringCapacity int) (*mmodel.UserCampaignState, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_campaign_states (user_id, campaign_id, last_reset_date, last_tiers, updated_at)
		VALUES ($1, $2, '', '', now())
		ON CONFLICT (user_id, campaign_id) DO NOTHING`, userID, campaignID)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		SELECT `+userStateColumns+`
		FROM user_campaign_states
		WHERE user_id = $1 AND campaign_id = $2
		FOR UPDATE`, userID, campaignID)

	return scanUserState(row, userID, campaignID, ringCapacity)
}

func (r *StatePostgreSQLRepository) SaveUserState(ctx context.Context, tx *sql.Tx, state *mmodel.UserCampaignState) error {
	var model UserStatePostgreSQLModel

	model.FromEntity(state)

	_, err := tx.ExecContext(ctx, `
		UPDATE user_campaign_states
		SET empty_streak = $3, high_streak = $4, total_draws_today = $5,
		    high_awards_today = $6, mid_awards_today = $7, low_awards_today = $8,
		    last_reset_date = $9, last_tiers = $10, updated_at = now()
		WHERE user_id = $1 AND campaign_id = $2`,
		model.UserID,
		model.CampaignID,
		model.EmptyStreak,
		model.HighStreak,
		model.TotalDrawsToday,
		model.HighAwardsToday,
		model.MidAwardsToday,
		model.LowAwardsToday,
		model.LastResetDate,
		model.LastTiers,
	)

	return err
}

const globalStateColumns = "campaign_id, cumulative_draws, cumulative_empties, inventory_debt, budget_debt, window_cost, window_reward, window_started_at, updated_at"

func (r *StatePostgreSQLRepository) FindGlobalState(ctx context.Context, campaignID string) (*mmodel.CampaignGlobalState, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.state.find_global_state")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT `+globalStateColumns+`
		FROM campaign_global_states
		WHERE campaign_id = $1`, campaignID)

	return scanGlobalState(row, campaignID)
}

func (r *StatePostgreSQLRepository) FindGlobalStateForUpdate(ctx context.Context, tx *sql.Tx, campaignID string) (*mmodel.CampaignGlobalState, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO campaign_global_states (campaign_id, window_started_at, updated_at)
		VALUES ($1, now(), now())
		ON CONFLICT (campaign_id) DO NOTHING`, campaignID)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		SELECT `+globalStateColumns+`
		FROM campaign_global_states
		WHERE campaign_id = $1
		FOR UPDATE`, campaignID)

	return scanGlobalState(row, campaignID)
}

func (r *StatePostgreSQLRepository) SaveGlobalState(ctx context.Context, tx *sql.Tx, state *mmodel.CampaignGlobalState) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE campaign_global_states
		SET cumulative_draws = $2, cumulative_empties = $3, inventory_debt = $4,
		    budget_debt = $5, window_cost = $6, window_reward = $7,
		    window_started_at = $8, updated_at = now()
		WHERE campaign_id = $1`,
		state.CampaignID,
		state.CumulativeDraws,
		state.CumulativeEmpties,
		state.InventoryDebt,
		state.BudgetDebt,
		state.WindowCost,
		state.WindowReward,
		state.WindowStartedAt,
	)

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserState(row rowScanner, userID, campaignID string, ringCapacity int) (*mmodel.UserCampaignState, error) {
	var model UserStatePostgreSQLModel

	err := row.Scan(
		&model.UserID,
		&model.CampaignID,
		&model.EmptyStreak,
		&model.HighStreak,
		&model.TotalDrawsToday,
		&model.HighAwardsToday,
		&model.MidAwardsToday,
		&model.LowAwardsToday,
		&model.LastResetDate,
		&model.LastTiers,
		&model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &mmodel.UserCampaignState{UserID: userID, CampaignID: campaignID}, nil
		}

		return nil, err
	}

	return model.ToEntity(ringCapacity), nil
}

func scanGlobalState(row rowScanner, campaignID string) (*mmodel.CampaignGlobalState, error) {
	var model GlobalStatePostgreSQLModel

	err := row.Scan(
		&model.CampaignID,
		&model.CumulativeDraws,
		&model.CumulativeEmpties,
		&model.InventoryDebt,
		&model.BudgetDebt,
		&model.WindowCost,
		&model.WindowReward,
		&model.WindowStartedAt,
		&model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &mmodel.CampaignGlobalState{CampaignID: campaignID}, nil
		}

		return nil, err
	}

	return model.ToEntity(), nil
}
