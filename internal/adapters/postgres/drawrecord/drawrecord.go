// Package drawrecord persists committed draw decisions. A record is written
// exactly once per (user_id, idempotency_key); the unique index is the
// idempotency source of truth and application lookups are an optimisation.
package drawrecord

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// DrawRecordPostgreSQLModel maps draw_records. The decision snapshot rides in
// a JSONB column.
type DrawRecordPostgreSQLModel struct {
	ID             string
	UserID         string
	CampaignID     string
	IdempotencyKey string
	PrizeID        sql.NullString
	PrizeName      string
	PrizeValue     int64
	Tier           string
	Outcome        string
	CostAssetCode  string
	CostAmount     int64
	Snapshot       []byte
	CreatedAt      time.Time
}

func (m *DrawRecordPostgreSQLModel) ToEntity() (*mmodel.DrawRecord, error) {
	record := &mmodel.DrawRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		CampaignID:     m.CampaignID,
		IdempotencyKey: m.IdempotencyKey,
		PrizeName:      m.PrizeName,
		PrizeValue:     m.PrizeValue,
		Tier:           lottery.Tier(m.Tier),
		Outcome:        m.Outcome,
		CostAssetCode:  m.CostAssetCode,
		CostAmount:     m.CostAmount,
		CreatedAt:      m.CreatedAt,
	}

	if m.PrizeID.Valid {
		prizeID := m.PrizeID.String
		record.PrizeID = &prizeID
	}

	if len(m.Snapshot) > 0 {
		if err := json.Unmarshal(m.Snapshot, &record.Snapshot); err != nil {
			return nil, err
		}
	}

	return record, nil
}

func (m *DrawRecordPostgreSQLModel) FromEntity(record *mmodel.DrawRecord) error {
	snapshot, err := json.Marshal(record.Snapshot)
	if err != nil {
		return err
	}

	m.ID = record.ID
	m.UserID = record.UserID
	m.CampaignID = record.CampaignID
	m.IdempotencyKey = record.IdempotencyKey
	m.PrizeName = record.PrizeName
	m.PrizeValue = record.PrizeValue
	m.Tier = string(record.Tier)
	m.Outcome = record.Outcome
	m.CostAssetCode = record.CostAssetCode
	m.CostAmount = record.CostAmount
	m.Snapshot = snapshot
	m.CreatedAt = record.CreatedAt

	m.PrizeID = sql.NullString{}
	if record.PrizeID != nil {
		m.PrizeID = sql.NullString{String: *record.PrizeID, Valid: true}
	}

	return nil
}
