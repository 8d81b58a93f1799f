package snapshot

import (
	"context"
	"errors"
	"strings"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feastly/draw-engine/pkg/mmodel"
)

// Repository archives and retrieves decision snapshots.
type Repository interface {
	Create(ctx context.Context, record *mmodel.DrawRecord) error
	FindByDrawID(ctx context.Context, drawID string) (*mmodel.DecisionSnapshot, error)
}

// MongoDBConnection manages the mongo client for the snapshot archive.
type MongoDBConnection struct {
	ConnectionString string
	Database         string
	Logger           libLog.Logger

	client *mongo.Client
}

func (mc *MongoDBConnection) Connect(ctx context.Context) error {
	mc.Logger.Info("Connecting to mongodb...")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mc.ConnectionString))
	if err != nil {
		mc.Logger.Error("failed to connect to mongodb", err)

		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	mc.client = client

	mc.Logger.Info("Connected to mongodb ✅ ")

	return nil
}

func (mc *MongoDBConnection) GetClient(ctx context.Context) (*mongo.Client, error) {
	if mc.client == nil {
		if err := mc.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return mc.client, nil
}

// SnapshotMongoDBRepository is the mongodb implementation of Repository.
type SnapshotMongoDBRepository struct {
	connection *MongoDBConnection
	database   string
}

func NewSnapshotMongoDBRepository(mc *MongoDBConnection) *SnapshotMongoDBRepository {
	return &SnapshotMongoDBRepository{
		connection: mc,
		database:   mc.Database,
	}
}

func (r *SnapshotMongoDBRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := r.connection.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(strings.ToLower(r.database)).Collection("decision_snapshots"), nil
}

// Create archives the snapshot. The caller runs this after the draw commits;
// a failure here never affects the draw result.
func (r *SnapshotMongoDBRepository) Create(ctx context.Context, record *mmodel.DrawRecord) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.snapshot.create")
	defer span.End()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	var model SnapshotMongoDBModel

	model.FromEntity(record)

	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	_, err = coll.InsertOne(ctx, &model)

	return err
}

func (r *SnapshotMongoDBRepository) FindByDrawID(ctx context.Context, drawID string) (*mmodel.DecisionSnapshot, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.snapshot.find_by_draw_id")
	defer span.End()

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var model SnapshotMongoDBModel

	err = coll.FindOne(ctx, bson.M{"draw_id": drawID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, err
	}

	return &model.Snapshot, nil
}
