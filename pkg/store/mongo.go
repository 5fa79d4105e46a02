package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pkgio "github.com/matzehuels/modgraph/pkg/io"
)

// DefaultMongoDatabase is used when MongoConfig.Database is empty.
const DefaultMongoDatabase = "modgraph"

const runsCollection = "runs"

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration // connect and ping timeout, default 10s
}

// MongoStore keeps run history in a MongoDB collection, one document per run
// keyed by run_id.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects, pings the server and ensures the run_id and
// created_at indexes exist.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		runs:   client.Database(cfg.Database).Collection(runsCollection),
	}
	_, err = s.runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "run_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Save(ctx context.Context, r *pkgio.Report) error {
	_, err := s.runs.ReplaceOne(ctx,
		bson.M{"run_id": r.RunID}, r,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, runID string) (*pkgio.Report, error) {
	var r pkgio.Report
	err := s.runs.FindOne(ctx, bson.M{"run_id": runID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return &r, nil
}

// mongoSummary projects the fields List needs out of a stored report.
type mongoSummary struct {
	RunID      string    `bson:"run_id"`
	CreatedAt  time.Time `bson:"created_at"`
	Modules    int       `bson:"modules"`
	Iterations int       `bson:"iterations"`
	Merges     int       `bson:"merges"`
	Graph      struct {
		Nodes []bson.Raw `bson:"nodes"`
	} `bson:"graph"`
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "run_id", Value: 1}}).
		SetLimit(int64(listLimit(limit))).
		SetProjection(bson.M{"run_id": 1, "created_at": 1, "modules": 1, "iterations": 1, "merges": 1, "graph.nodes": 1})

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoSummary
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = Summary{
			RunID:      d.RunID,
			CreatedAt:  d.CreatedAt,
			Nodes:      len(d.Graph.Nodes),
			Modules:    d.Modules,
			Iterations: d.Iterations,
			Merges:     d.Merges,
		}
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, runID string) error {
	if _, err := s.runs.DeleteOne(ctx, bson.M{"run_id": runID}); err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
