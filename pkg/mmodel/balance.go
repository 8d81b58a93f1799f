package mmodel

import "time"

// Balance is the spendable/reserved position of one user in one asset. It is
// the single source of truth for spendable amounts; the asset-transaction log
// is the append-only journal balances are derivable from.
type Balance struct {
	UserID    string    `json:"userId"`
	AssetCode string    `json:"assetCode"`
	Available int64     `json:"available"`
	Reserved  int64     `json:"reserved"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AssetTransaction is one append-only journal row. The pair
// (BusinessType, BusinessKey) is unique: replaying a ledger operation with a
// key that already landed is a no-op.
type AssetTransaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	AssetCode    string    `json:"assetCode"`
	Delta        int64     `json:"delta"`
	BusinessType string    `json:"businessType"`
	BusinessKey  string    `json:"businessKey"`
	CreatedAt    time.Time `json:"createdAt"`
}
