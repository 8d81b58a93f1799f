package prize

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

// Repository reads the awardable catalogue and performs the locked stock
// decrement inside the draw commit transaction.
type Repository interface {
	FindAvailableByCampaign(ctx context.Context, campaignID string) ([]mmodel.Prize, error)
	FindForUpdate(ctx context.Context, tx *sql.Tx, prizeID string) (*mmodel.Prize, error)
	FindAvailableByTierForUpdate(ctx context.Context, tx *sql.Tx, campaignID string, tier lottery.Tier) ([]mmodel.Prize, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, prizeID string) (bool, error)
}

// PrizePostgreSQLRepository is the postgres implementation of Repository.
type PrizePostgreSQLRepository struct {
	connection *postgres.Connection
}

func NewPrizePostgreSQLRepository(pc *postgres.Connection) *PrizePostgreSQLRepository {
	r := &PrizePostgreSQLRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect to prize database")
	}

	return r
}

const prizeColumns = "id, campaign_id, tier, name, base_weight, value, initial_stock, remaining_stock, status, created_at, updated_at"

func (r *PrizePostgreSQLRepository) FindAvailableByCampaign(ctx context.Context, campaignID string) ([]mmodel.Prize, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.prize.find_available_by_campaign")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select(prizeColumns).
		From("prizes").
		Where(sq.Eq{"campaign_id": campaignID, "status": constant.PrizeStatusActive}).
		Where(sq.Gt{"remaining_stock": 0}).
		OrderBy("tier", "id").
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

	return scanPrizes(rows)
}

func (r *PrizePostgreSQLRepository) FindForUpdate(ctx context.Context, tx *sql.Tx, prizeID string) (*mmodel.Prize, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+prizeColumns+`
		FROM prizes
		WHERE id = $1
		FOR UPDATE`, prizeID)

	model, err := scanPrize(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.ErrPrizeNotFound
		}

		return nil, err
	}

	return model.ToEntity(), nil
}

func (r *PrizePostgreSQLRepository) FindAvailableByTierForUpdate(ctx context.Context, tx *sql.Tx, campaignID string, tier lottery.Tier) ([]mmodel.Prize, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+prizeColumns+`
		FROM prizes
		WHERE campaign_id = $1 AND tier = $2 AND status = $3 AND remaining_stock > 0
		ORDER BY id
		FOR UPDATE`, campaignID, string(tier), constant.PrizeStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPrizes(rows)
}

// DecrementStock decrements guarded by remaining_stock > 0, so stock can
// never go negative whatever the interleaving. The caller holds the row lock.
func (r *PrizePostgreSQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, prizeID string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE prizes
		SET remaining_stock = remaining_stock - 1, updated_at = now()
		WHERE id = $1 AND remaining_stock > 0`, prizeID)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrize(row rowScanner) (*PrizePostgreSQLModel, error) {
	var model PrizePostgreSQLModel

	err := row.Scan(
		&model.ID,
		&model.CampaignID,
		&model.Tier,
		&model.Name,
		&model.BaseWeight,
		&model.Value,
		&model.InitialStock,
		&model.RemainingStock,
		&model.Status,
		&model.CreatedAt,
		&model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

func scanPrizes(rows *sql.Rows) ([]mmodel.Prize, error) {
	prizes := make([]mmodel.Prize, 0)

	for rows.Next() {
		model, err := scanPrize(rows)
		if err != nil {
			return nil, err
		}

		prizes = append(prizes, *model.ToEntity())
	}

	return prizes, rows.Err()
}
