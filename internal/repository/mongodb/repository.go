package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/repository"
)

// MongoDBRepository implements repository.VoteStore for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	db       *mongo.Database
	votes    *mongo.Collection
	counters *mongo.Collection
	logger   *zap.Logger
}

var _ repository.VoteStore = (*MongoDBRepository)(nil)

// NewMongoDBRepository connects, pings and prepares the collections.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := newRepository(client.Database(dbName), logger)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return repo, nil
}

func newRepository(db *mongo.Database, logger *zap.Logger) *MongoDBRepository {
	return &MongoDBRepository{
		client:   db.Client(),
		db:       db,
		votes:    db.Collection(repository.VotesCollection),
		counters: db.Collection(repository.CountersCollection),
		logger:   logger,
	}
}

// EnsureIndexes creates the unique id index and seeds the counter document,
// so both collections exist before the first transaction touches them.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}},
		Options: options.Index().
			SetName("id_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"id": bson.M{"$gt": 0}}),
	})
	if err != nil {
		return fmt.Errorf("create votes id index: %w", err)
	}

	_, err = r.counters.UpdateOne(ctx,
		bson.M{"_id": repository.VoteCounter},
		bson.M{"$setOnInsert": bson.M{"value": int64(0)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed vote counter: %w", err)
	}
	return nil
}

// ListVotes returns every record in natural order.
func (r *MongoDBRepository) ListVotes(ctx context.Context) ([]models.VoteRecord, error) {
	cur, err := r.votes.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("find votes: %w", err)
	}
	defer cur.Close(ctx)

	records := make([]models.VoteRecord, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode votes: %w", err)
	}
	return records, nil
}

// AllocateVote increments the counter and inserts the record in one transaction.
func (r *MongoDBRepository) AllocateVote(ctx context.Context, record models.VoteRecord) (int64, error) {
	var id int64

	err := r.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		var counter models.Counter
		err := r.counters.FindOneAndUpdate(sc,
			bson.M{"_id": repository.VoteCounter},
			bson.M{"$inc": bson.M{"value": int64(1)}},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&counter)
		if err != nil {
			return fmt.Errorf("increment counter: %w", err)
		}

		record.ID = counter.Value
		if _, err := r.votes.InsertOne(sc, record); err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}

		id = counter.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("allocate vote: %w", err)
	}

	r.logger.Debug("vote stored", zap.Int64("id", id), zap.String("mood", string(record.Mood)))
	return id, nil
}

// Reset deletes every record and zeroes the counter in one transaction.
func (r *MongoDBRepository) Reset(ctx context.Context) error {
	var deleted int64

	err := r.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.votes.DeleteMany(sc, bson.M{})
		if err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		deleted = res.DeletedCount

		_, err = r.counters.UpdateOne(sc,
			bson.M{"_id": repository.VoteCounter},
			bson.M{"$set": bson.M{"value": int64(0)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("zero counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	r.logger.Info("store reset", zap.Int64("deleted", deleted))
	return nil
}

// Counter returns the last allocated id, zero when the counter is absent.
func (r *MongoDBRepository) Counter(ctx context.Context) (int64, error) {
	var counter models.Counter
	err := r.counters.FindOne(ctx, bson.M{"_id": repository.VoteCounter}).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return counter.Value, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
