// Package snapshot archives full decision snapshots for audit. The postgres
// draw record keeps a copy of the same snapshot; mongo is the queryable
// long-term archive, written after commit.
package snapshot

import (
	"time"

	"github.com/feastly/draw-engine/pkg/mmodel"
)

// SnapshotMongoDBModel maps the decision_snapshots collection.
type SnapshotMongoDBModel struct {
	DrawID        string                  `bson:"draw_id"`
	UserID        string                  `bson:"user_id"`
	CampaignID    string                  `bson:"campaign_id"`
	PolicyVersion int64                   `bson:"policy_version"`
	Snapshot      mmodel.DecisionSnapshot `bson:"snapshot"`
	CreatedAt     time.Time               `bson:"created_at"`
}

func (m *SnapshotMongoDBModel) FromEntity(record *mmodel.DrawRecord) {
	m.DrawID = record.ID
	m.UserID = record.UserID
	m.CampaignID = record.CampaignID
	m.PolicyVersion = record.Snapshot.PolicyVersion
	m.Snapshot = record.Snapshot
	m.CreatedAt = record.CreatedAt
}
