package ledger

import (
	"context"
	"database/sql"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// Repository is the ledger port the orchestrator and the query side consume.
//
// Reserve and Release manage their own short transaction. CommitReservation
// and Credit join the draw's serialisable commit transaction, so a draw's
// asset flow and its record land atomically.
type Repository interface {
	Reserve(ctx context.Context, userID, assetCode string, amount int64, businessKey string) (*mmodel.Balance, error)
	Release(ctx context.Context, userID, assetCode string, amount int64, businessKey string) error
	CommitReservation(ctx context.Context, tx *sql.Tx, userID, assetCode string, amount int64, businessKey string) error
	Credit(ctx context.Context, tx *sql.Tx, userID, assetCode string, amount int64, businessKey string) error
	FindBalance(ctx context.Context, userID, assetCode string) (*mmodel.Balance, error)
	ListBalances(ctx context.Context, userID string) ([]mmodel.Balance, error)
}

// LedgerPostgreSQLRepository is the postgres implementation of Repository.
type LedgerPostgreSQLRepository struct {
	connection *postgres.Connection
}

func NewLedgerPostgreSQLRepository(pc *postgres.Connection) *LedgerPostgreSQLRepository {
	r := &LedgerPostgreSQLRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect to ledger database")
	}

	return r
}

func (r *LedgerPostgreSQLRepository) Reserve(ctx context.Context, userID, assetCode string, amount int64, businessKey string) (*mmodel.Balance, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.ledger.reserve")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	replayed, err := r.journalRowExists(ctx, tx, constant.BusinessTypeDrawCostReserve, businessKey)
	if err != nil {
		return nil, err
	}

	if replayed {
		_ = tx.Rollback()

		return r.FindBalance(ctx, userID, assetCode)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE account_asset_balances
		SET available = available - $3, reserved = reserved + $3, updated_at = now()
		WHERE user_id = $1 AND asset_code = $2 AND available >= $3`,
		userID, assetCode, amount)
	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		// Missing balance row and short balance both reject the draw the
		// same way; the caller reports the shortfall.
		return nil, constant.ErrInsufficientFunds
	}

	err = r.insertJournalRow(ctx, tx, userID, assetCode, amount, constant.BusinessTypeDrawCostReserve, businessKey)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			// A concurrent call with the same key won the race; this
			// transaction rolls back and the operation reads as replayed.
			_ = tx.Rollback()

			return r.FindBalance(ctx, userID, assetCode)
		}

		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.FindBalance(ctx, userID, assetCode)
}

func (r *LedgerPostgreSQLRepository) Release(ctx context.Context, userID, assetCode string, amount int64, businessKey string) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.ledger.release")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	reserved, err := r.journalRowExists(ctx, tx, constant.BusinessTypeDrawCostReserve, businessKey)
	if err != nil {
		return err
	}

	if !reserved {
		// Nothing was reserved under this key; releasing is a no-op.
		return nil
	}

	for _, businessType := range []string{constant.BusinessTypeDrawCostRelease, constant.BusinessTypeDrawCost} {
		done, err := r.journalRowExists(ctx, tx, businessType, businessKey)
		if err != nil {
			return err
		}

		if done {
			// Already released, or the reservation was committed by a
			// completed draw. Either way there is nothing to undo.
			return nil
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE account_asset_balances
		SET available = available + $3, reserved = reserved - $3, updated_at = now()
		WHERE user_id = $1 AND asset_code = $2 AND reserved >= $3`,
		userID, assetCode, amount)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return constant.ErrReservationNotFound
	}

	err = r.insertJournalRow(ctx, tx, userID, assetCode, amount, constant.BusinessTypeDrawCostRelease, businessKey)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			_ = tx.Rollback()

			return nil
		}

		return err
	}

	return tx.Commit()
}

func (r *LedgerPostgreSQLRepository) CommitReservation(ctx context.Context, tx *sql.Tx, userID, assetCode string, amount int64, businessKey string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE account_asset_balances
		SET reserved = reserved - $3, updated_at = now()
		WHERE user_id = $1 AND asset_code = $2 AND reserved >= $3`,
		userID, assetCode, amount)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return constant.ErrReservationNotFound
	}

	return r.insertJournalRow(ctx, tx, userID, assetCode, amount, constant.BusinessTypeDrawCost, businessKey)
}

func (r *LedgerPostgreSQLRepository) Credit(ctx context.Context, tx *sql.Tx, userID, assetCode string, amount int64, businessKey string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO account_asset_balances (user_id, asset_code, available, reserved, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (user_id, asset_code)
		DO UPDATE SET available = account_asset_balances.available + EXCLUDED.available, updated_at = now()`,
		userID, assetCode, amount)
	if err != nil {
		return err
	}

	return r.insertJournalRow(ctx, tx, userID, assetCode, amount, constant.BusinessTypeDrawReward, businessKey)
}

func (r *LedgerPostgreSQLRepository) FindBalance(ctx context.Context, userID, assetCode string) (*mmodel.Balance, error) {
	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("user_id", "asset_code", "available", "reserved", "updated_at").
		From("account_asset_balances").
		Where(sq.Eq{"user_id": userID, "asset_code": assetCode}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var model BalancePostgreSQLModel

	row := db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&model.UserID, &model.AssetCode, &model.Available, &model.Reserved, &model.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.ErrBalanceNotFound
		}

		return nil, err
	}

	return model.ToEntity(), nil
}

func (r *LedgerPostgreSQLRepository) ListBalances(ctx context.Context, userID string) ([]mmodel.Balance, error) {
	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("user_id", "asset_code", "available", "reserved", "updated_at").
		From("account_asset_balances").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("asset_code").
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

	balances := make([]mmodel.Balance, 0)

	for rows.Next() {
		var model BalancePostgreSQLModel

		if err := rows.Scan(&model.UserID, &model.AssetCode, &model.Available, &model.Reserved, &model.UpdatedAt); err != nil {
			return nil, err
		}

		balances = append(balances, *model.ToEntity())
	}

	return balances, rows.Err()
}

func (r *LedgerPostgreSQLRepository) journalRowExists(ctx context.Context, tx *sql.Tx, businessType, businessKey string) (bool, error) {
	query, args, err := sq.Select("1").
		From("asset_transactions").
		Where(sq.Eq{"business_type": businessType, "business_key": businessKey}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int

	row := tx.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// journalDelta is the value a journal row moves. Reserve and release shuffle
// funds between available and reserved without changing the total, so their
// rows carry a zero delta and serve purely as idempotency markers; summing
// deltas over the log reproduces the balance total exactly.
func journalDelta(businessType string, amount int64) int64 {
	switch businessType {
	case constant.BusinessTypeDrawCost:
		return -amount
	case constant.BusinessTypeDrawReward:
		return amount
	default:
		return 0
	}
}

func (r *LedgerPostgreSQLRepository) insertJournalRow(ctx context.Context, tx *sql.Tx, userID, assetCode string, amount int64, businessType, businessKey string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO asset_transactions (id, user_id, asset_code, delta, business_type, business_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		uuid.Must(uuid.NewV7()).String(), userID, assetCode, journalDelta(businessType, amount), businessType, businessKey)

	return err
}
