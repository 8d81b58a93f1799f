// Package ledger implements the asset ledger: balances plus the append-only
// asset-transaction journal. Every operation is idempotent by
// (business_type, business_key); replaying a completed operation is a no-op
// that returns the original result.
package ledger

import (
	"time"

	"github.com/feastly/draw-engine/pkg/mmodel"
)

// BalancePostgreSQLModel maps account_asset_balances.
type BalancePostgreSQLModel struct {
	UserID    string
	AssetCode string
	Available int64
	Reserved  int64
	UpdatedAt time.Time
}

func (m *BalancePostgreSQLModel) ToEntity() *mmodel.Balance {
	return &mmodel.Balance{
		UserID:    m.UserID,
		AssetCode: m.AssetCode,
		Available: m.Available,
		Reserved:  m.Reserved,
		UpdatedAt: m.UpdatedAt,
	}
}

// AssetTransactionPostgreSQLModel maps asset_transactions.
type AssetTransactionPostgreSQLModel struct {
	ID           string
	UserID       string
	AssetCode    string
	Delta        int64
	BusinessType string
	BusinessKey  string
	CreatedAt    time.Time
}

func (m *AssetTransactionPostgreSQLModel) ToEntity() *mmodel.AssetTransaction {
	return &mmodel.AssetTransaction{
		ID:           m.ID,
		UserID:       m.UserID,
		AssetCode:    m.AssetCode,
		Delta:        m.Delta,
		BusinessType: m.BusinessType,
		BusinessKey:  m.BusinessKey,
		CreatedAt:    m.CreatedAt,
	}
}
