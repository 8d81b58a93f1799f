package drawrecord

import (
	"context"
	"database/sql"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	sq "github.com/Masterminds/squirrel"

	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// Repository is the draw-record port.
type Repository interface {
	FindByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*mmodel.DrawRecord, error)
	Create(ctx context.Context, tx *sql.Tx, record *mmodel.DrawRecord) error
}

// DrawRecordPostgreSQLRepository is the postgres implementation of Repository.
type DrawRecordPostgreSQLRepository struct {
	connection *postgres.Connection
}

func NewDrawRecordPostgreSQLRepository(pc *postgres.Connection) *DrawRecordPostgreSQLRepository {
	r := &DrawRecordPostgreSQLRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect to draw record database")
	}

	return r
}

const drawRecordColumns = "id, user_id, campaign_id, idempotency_key, prize_id, prize_name, prize_value, tier, outcome, cost_asset_code, cost_amount, decision_snapshot, created_at"

// FindByIdempotencyKey returns ErrDrawRecordNotFound when no draw with the
// key has committed; the orchestrator uses that as the signal to execute.
func (r *DrawRecordPostgreSQLRepository) FindByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*mmodel.DrawRecord, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.draw_record.find_by_idempotency_key")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select(drawRecordColumns).
		From("draw_records").
		Where(sq.Eq{"user_id": userID, "idempotency_key": idempotencyKey}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var model DrawRecordPostgreSQLModel

	row := db.QueryRowContext(ctx, query, args...)

	err = row.Scan(
		&model.ID,
		&model.UserID,
		&model.CampaignID,
		&model.IdempotencyKey,
		&model.PrizeID,
		&model.PrizeName,
		&model.PrizeValue,
		&model.Tier,
		&model.Outcome,
		&model.CostAssetCode,
		&model.CostAmount,
		&model.Snapshot,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.ErrDrawRecordNotFound
		}

		return nil, err
	}

	return model.ToEntity()
}

// Create inserts the record inside the commit transaction. A unique-index
// violation maps to ErrIdempotencyKeyAlreadyExists, which the orchestrator
// resolves by returning the stored result.
func (r *DrawRecordPostgreSQLRepository) Create(ctx context.Context, tx *sql.Tx, record *mmodel.DrawRecord) error {
	var model DrawRecordPostgreSQLModel

	if err := model.FromEntity(record); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO draw_records (`+drawRecordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		model.ID,
		model.UserID,
		model.CampaignID,
		model.IdempotencyKey,
		model.PrizeID,
		model.PrizeName,
		model.PrizeValue,
		model.Tier,
		model.Outcome,
		model.CostAssetCode,
		model.CostAmount,
		model.Snapshot,
		model.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return constant.ErrIdempotencyKeyAlreadyExists
		}

		return err
	}

	return nil
}
